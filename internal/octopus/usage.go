package octopus

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"
)

// Consumption page sizes: 48 half-hour slots cover a single day; longer
// windows request a page large enough for ~30 days of readings.
const (
	dayPageSize   = 48
	monthPageSize = 1000
)

// UsageForPeriod sums the meter's consumption readings over the UTC window
// [from, to] and prices them at the current unit rate. Usage retrieval is
// best-effort: any upstream failure is logged and degrades to a zero
// result rather than aborting the caller's request.
//
// When the window has no readings at all the result is zero and the tariff
// is never fetched, which saves a call but also means no tariff is priced
// in for an all-zero period.
func (c *Client) UsageForPeriod(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, from, to time.Time, fuel Fuel) PeriodUsage {
	usage, err := c.usageForPeriod(ctx, apiKey, meterPointID, serial, accountNumber, from, to, fuel)
	if err != nil {
		log.Printf("[Octopus] Error fetching %s usage for %s to %s: %v",
			fuel, from.Format("2006-01-02"), to.Format("2006-01-02"), err)
		return PeriodUsage{}
	}
	return usage
}

func (c *Client) usageForPeriod(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, from, to time.Time, fuel Fuel) (PeriodUsage, error) {
	pageSize := dayPageSize
	if to.Sub(from) > 48*time.Hour {
		pageSize = monthPageSize
	}

	params := url.Values{}
	params.Set("period_from", from.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("period_to", to.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("page_size", strconv.Itoa(pageSize))

	path := fmt.Sprintf("/%s/%s/meters/%s/consumption/", fuel.meterPointsPath(), meterPointID, serial)
	var consumption consumptionResponse
	if err := c.get(ctx, "consumption", apiKey, path, params, &consumption); err != nil {
		return PeriodUsage{}, err
	}

	if len(consumption.Results) == 0 {
		log.Printf("[Octopus] No %s consumption data found for %s to %s",
			fuel, from.Format("2006-01-02"), to.Format("2006-01-02"))
		return PeriodUsage{}, nil
	}

	tariff, err := c.TariffInfo(ctx, apiKey, accountNumber, meterPointID, fuel)
	if err != nil {
		return PeriodUsage{}, err
	}
	unitRate, err := strconv.ParseFloat(tariff.UnitRate, 64)
	if err != nil {
		return PeriodUsage{}, fmt.Errorf("invalid unit rate %q: %w", tariff.UnitRate, err)
	}

	var total float64
	for _, reading := range consumption.Results {
		total += reading.Consumption
	}

	usage := PeriodUsage{KWh: total, Cost: total * unitRate}
	log.Printf("[Octopus] %s usage received: %.2f kWh, £%.2f", fuel, usage.KWh, usage.Cost)
	return usage, nil
}

// YesterdayUsage covers yesterday 00:00:00 through 23:59:59 UTC, evaluated
// at call time.
func (c *Client) YesterdayUsage(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, fuel Fuel) PeriodUsage {
	now := c.now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	from := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Second)
	return c.UsageForPeriod(ctx, apiKey, meterPointID, serial, accountNumber, from, to, fuel)
}

// MonthlyUsage covers the 30 days up to today 23:59:59 UTC, evaluated at
// call time.
func (c *Client) MonthlyUsage(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, fuel Fuel) PeriodUsage {
	now := c.now().UTC()
	start := now.AddDate(0, 0, -30)
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	return c.UsageForPeriod(ctx, apiKey, meterPointID, serial, accountNumber, from, to, fuel)
}
