package octopus

import (
	"errors"
	"fmt"
)

// Sentinel errors for each link of the account navigation chains, so an
// empty chain surfaces with a diagnosable cause instead of a generic
// "not found".
var (
	ErrNoActiveAgreements = errors.New("no active electricity agreements found")
	ErrNoMeters           = errors.New("no active meters found")
	ErrNoSmartDevice      = errors.New("no smart devices found")
	ErrNoProperties       = errors.New("no properties found for account")
	ErrMeterPointNotFound = errors.New("meter point not found in any property")
	ErrNoAgreements       = errors.New("no agreements found for meter point")
	ErrNoRegionTariff     = errors.New("no tariff found for region")
	ErrNoDirectDebitPlan  = errors.New("no direct debit monthly details found")
)

// APIError represents a non-2xx response from the Octopus Energy API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("octopus API error (%d) at %s", e.StatusCode, e.Endpoint)
}
