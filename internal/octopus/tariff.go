package octopus

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// TariffInfo resolves the current tariff for a meter point. It walks the
// account's properties to find the meter point, selects the agreement with
// the latest valid_to date, decodes the tariff code into a product and
// region, and reads the direct-debit-monthly plan for that region.
//
// Every missing-data step fails with a descriptive error; tariff lookup is
// a propagating operation.
func (c *Client) TariffInfo(ctx context.Context, apiKey, accountNumber, meterPointID string, fuel Fuel) (*Tariff, error) {
	log.Printf("[Octopus] Fetching %s tariff information for account %s...", fuel, accountNumber)

	var account accountResponse
	path := fmt.Sprintf("/accounts/%s/", accountNumber)
	if err := c.get(ctx, "account", apiKey, path, nil, &account); err != nil {
		return nil, err
	}
	if len(account.Properties) == 0 {
		return nil, ErrNoProperties
	}

	point, err := findMeterPoint(account.Properties, meterPointID, fuel)
	if err != nil {
		return nil, err
	}

	current, err := latestAgreement(point.Agreements)
	if err != nil {
		return nil, err
	}
	log.Printf("[Octopus] Found tariff code: %s", current.TariffCode)

	productCode, region, err := parseTariffCode(current.TariffCode)
	if err != nil {
		return nil, err
	}

	var product productResponse
	productPath := fmt.Sprintf("/products/%s/", productCode)
	if err := c.get(ctx, "product", "", productPath, nil, &product); err != nil {
		return nil, err
	}

	regionTariff, ok := product.regionTariffs(fuel)["_"+region]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoRegionTariff, region)
	}
	if regionTariff.DirectDebitMonthly == nil {
		return nil, ErrNoDirectDebitPlan
	}

	rates := regionTariff.DirectDebitMonthly
	tariff := &Tariff{
		Name:           product.DisplayName,
		UnitRate:       fmt.Sprintf("%.4f", rates.StandardUnitRateIncVAT/100),
		StandingCharge: fmt.Sprintf("%.2f", rates.StandingChargeIncVAT/100),
	}
	log.Printf("[Octopus] Tariff information received: %s (unit rate %s)", tariff.Name, tariff.UnitRate)
	return tariff, nil
}

// findMeterPoint locates the meter point with the given MPAN/MPRN across
// the account's properties.
func findMeterPoint(properties []accountProperty, meterPointID string, fuel Fuel) (*meterPoint, error) {
	for _, property := range properties {
		for _, point := range property.meterPoints(fuel) {
			if point.id(fuel) == meterPointID {
				p := point
				return &p, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMeterPointNotFound, meterPointID)
}

// latestAgreement picks the agreement with the latest valid_to. A null
// valid_to means the agreement is open-ended and therefore current. Later
// entries win ties, so equal timestamps resolve to the last one listed.
func latestAgreement(agreements []agreement) (*agreement, error) {
	if len(agreements) == 0 {
		return nil, ErrNoAgreements
	}

	var best *agreement
	var bestTime time.Time
	for i := range agreements {
		a := &agreements[i]
		validTo := farFuture
		if a.ValidTo != nil {
			t, err := time.Parse(time.RFC3339, *a.ValidTo)
			if err != nil {
				return nil, fmt.Errorf("invalid agreement valid_to %q: %w", *a.ValidTo, err)
			}
			validTo = t
		}
		if best == nil || !validTo.Before(bestTime) {
			best = a
			bestTime = validTo
		}
	}
	return best, nil
}

var farFuture = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// parseTariffCode splits a code like "E-1R-VAR-22-11-01-A" into the product
// code ("VAR-22-11-01") and the single-letter region code ("A"). Everything
// between the second and last hyphen-delimited segment is the product.
func parseTariffCode(code string) (product, region string, err error) {
	parts := strings.Split(code, "-")
	if len(parts) < 4 {
		return "", "", fmt.Errorf("invalid tariff code format: %s", code)
	}
	product = strings.Join(parts[2:len(parts)-1], "-")
	region = parts[len(parts)-1]
	return product, region, nil
}
