package octopus

import (
	"context"
	"fmt"
	"log"
)

const obtainKrakenTokenMutation = `mutation obtainKrakenToken($input: ObtainJSONWebTokenInput!) {
	obtainKrakenToken(input: $input) {
		token
	}
}`

const accountAgreementsQuery = `query account($accountNumber: String!) {
	account(accountNumber: $accountNumber) {
		electricityAgreements(active: true) {
			meterPoint {
				meters(includeInactive: false) {
					smartDevices {
						deviceId
					}
				}
			}
		}
	}
}`

const smartMeterTelemetryQuery = `query smartMeterTelemetry($deviceId: String!) {
	smartMeterTelemetry(deviceId: $deviceId) {
		readAt
		demand
		consumption
	}
}`

// ObtainToken exchanges the long-lived API key for a short-lived Kraken JWT
// used by the GraphQL sub-API.
func (c *Client) ObtainToken(ctx context.Context, apiKey string) (string, error) {
	log.Printf("[Octopus] Obtaining Kraken token...")

	var data obtainKrakenTokenData
	err := c.graphql(ctx, "obtainKrakenToken", "", obtainKrakenTokenMutation, map[string]any{
		"input": map[string]any{"APIKey": apiKey},
	}, &data)
	if err != nil {
		return "", err
	}
	if data.ObtainKrakenToken.Token == "" {
		return "", fmt.Errorf("empty token received")
	}
	return data.ObtainKrakenToken.Token, nil
}

// ResolveMeterDevice navigates account -> active electricity agreements ->
// first agreement's meter point -> active meters -> first meter's smart
// devices -> first device, returning the telemetry-capable device ID.
//
// Accounts with multiple active agreements or meters are not disambiguated;
// upstream behavior for those is unspecified and the first element wins.
func (c *Client) ResolveMeterDevice(ctx context.Context, token, accountNumber string) (string, error) {
	log.Printf("[Octopus] Looking up meter device for account %s...", accountNumber)

	var data accountAgreementsData
	err := c.graphql(ctx, "accountAgreements", token, accountAgreementsQuery, map[string]any{
		"accountNumber": accountNumber,
	}, &data)
	if err != nil {
		return "", err
	}

	agreements := data.Account.ElectricityAgreements
	if len(agreements) == 0 {
		return "", ErrNoActiveAgreements
	}
	meters := agreements[0].MeterPoint.Meters
	if len(meters) == 0 {
		return "", ErrNoMeters
	}
	devices := meters[0].SmartDevices
	if len(devices) == 0 {
		return "", ErrNoSmartDevice
	}

	log.Printf("[Octopus] Meter device found: %s", devices[0].DeviceID)
	return devices[0].DeviceID, nil
}

// LiveUsage fetches the current power draw in watts. Live usage is treated
// as best-effort and transient: any failure in the token -> device ->
// telemetry chain is logged and degrades to 0 rather than propagating.
func (c *Client) LiveUsage(ctx context.Context, apiKey, accountNumber string) float64 {
	watts, err := c.liveUsage(ctx, apiKey, accountNumber)
	if err != nil {
		log.Printf("[Octopus] Error fetching live usage: %v", err)
		return 0
	}
	return watts
}

func (c *Client) liveUsage(ctx context.Context, apiKey, accountNumber string) (float64, error) {
	token, err := c.ObtainToken(ctx, apiKey)
	if err != nil {
		return 0, err
	}
	deviceID, err := c.ResolveMeterDevice(ctx, token, accountNumber)
	if err != nil {
		return 0, err
	}

	var data smartMeterTelemetryData
	err = c.graphql(ctx, "smartMeterTelemetry", token, smartMeterTelemetryQuery, map[string]any{
		"deviceId": deviceID,
	}, &data)
	if err != nil {
		return 0, err
	}
	if len(data.SmartMeterTelemetry) == 0 {
		return 0, fmt.Errorf("no telemetry data available")
	}

	// A null demand means the meter reported no draw; map it to 0.
	telemetry := data.SmartMeterTelemetry[0]
	if telemetry.Demand == nil {
		return 0, nil
	}
	log.Printf("[Octopus] Live usage received: %.0fW", *telemetry.Demand)
	return *telemetry.Demand, nil
}
