package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"octopus-dashboard/internal/credentials"
	"octopus-dashboard/internal/history"
	"octopus-dashboard/internal/octopus"
)

// UsageClient is the slice of the Octopus client the dashboard needs.
// Live usage and period sums degrade to zero values inside the client, so
// only tariff lookup can fail here.
type UsageClient interface {
	LiveUsage(ctx context.Context, apiKey, accountNumber string) float64
	YesterdayUsage(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, fuel octopus.Fuel) octopus.PeriodUsage
	MonthlyUsage(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, fuel octopus.Fuel) octopus.PeriodUsage
	TariffInfo(ctx context.Context, apiKey, accountNumber, meterPointID string, fuel octopus.Fuel) (*octopus.Tariff, error)
}

// PeriodReport is a summed usage window formatted for the dashboard.
type PeriodReport struct {
	Usage string `json:"usage"`
	Cost  string `json:"cost"`
}

// ElectricityReport is the electricity half of a snapshot.
type ElectricityReport struct {
	LiveUsage      float64          `json:"liveUsage"`
	Yesterday      PeriodReport     `json:"yesterday"`
	Monthly        PeriodReport     `json:"monthly"`
	Tariff         *octopus.Tariff  `json:"tariff"`
	HistoricalData []history.Sample `json:"historicalData"`
}

// GasReport mirrors ElectricityReport minus live telemetry, which smart
// gas meters do not report.
type GasReport struct {
	Yesterday PeriodReport    `json:"yesterday"`
	Monthly   PeriodReport    `json:"monthly"`
	Tariff    *octopus.Tariff `json:"tariff"`
}

// Snapshot is the full dashboard payload for one request. Gas is null when
// the credentials carry no gas identifiers.
type Snapshot struct {
	Electricity ElectricityReport `json:"electricity"`
	Gas         *GasReport        `json:"gas"`
	Timestamp   string            `json:"timestamp"`
}

// Service composes client results and the usage-history buffer into
// dashboard snapshots.
type Service struct {
	client  UsageClient
	history *history.Buffer
	now     func() time.Time
}

// New creates a Service around the given client and history buffer.
func New(client UsageClient, buffer *history.Buffer) *Service {
	return &Service{
		client:  client,
		history: buffer,
		now:     time.Now,
	}
}

// Snapshot fans out the independent sub-requests for creds and assembles
// the response. The electricity group always runs; the gas group runs only
// when gas identifiers are present, otherwise no gas calls are attempted
// at all. Tariff failures in either group abort the snapshot; everything
// else degrades to zero values inside the client.
func (s *Service) Snapshot(ctx context.Context, creds *credentials.Credentials) (*Snapshot, error) {
	var (
		wg sync.WaitGroup

		live                 float64
		yesterday, monthly   octopus.PeriodUsage
		tariff               *octopus.Tariff
		tariffErr            error
		gasYesterday, gasMon octopus.PeriodUsage
		gasTariff            *octopus.Tariff
		gasTariffErr         error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		live = s.client.LiveUsage(ctx, creds.APIKey, creds.AccountNumber)
	}()
	go func() {
		defer wg.Done()
		yesterday = s.client.YesterdayUsage(ctx, creds.APIKey, creds.MPAN, creds.SerialNumber, creds.AccountNumber, octopus.Electricity)
	}()
	go func() {
		defer wg.Done()
		monthly = s.client.MonthlyUsage(ctx, creds.APIKey, creds.MPAN, creds.SerialNumber, creds.AccountNumber, octopus.Electricity)
	}()
	go func() {
		defer wg.Done()
		tariff, tariffErr = s.client.TariffInfo(ctx, creds.APIKey, creds.AccountNumber, creds.MPAN, octopus.Electricity)
	}()

	hasGas := creds.HasGas()
	if hasGas {
		wg.Add(3)
		go func() {
			defer wg.Done()
			gasYesterday = s.client.YesterdayUsage(ctx, creds.APIKey, creds.MPRN, creds.GasSerialNumber, creds.AccountNumber, octopus.Gas)
		}()
		go func() {
			defer wg.Done()
			gasMon = s.client.MonthlyUsage(ctx, creds.APIKey, creds.MPRN, creds.GasSerialNumber, creds.AccountNumber, octopus.Gas)
		}()
		go func() {
			defer wg.Done()
			gasTariff, gasTariffErr = s.client.TariffInfo(ctx, creds.APIKey, creds.AccountNumber, creds.MPRN, octopus.Gas)
		}()
	}
	wg.Wait()

	if tariffErr != nil {
		return nil, fmt.Errorf("electricity tariff lookup failed: %w", tariffErr)
	}
	if gasTariffErr != nil {
		return nil, fmt.Errorf("gas tariff lookup failed: %w", gasTariffErr)
	}

	s.history.Record(creds.AccountNumber, live)

	snapshot := &Snapshot{
		Electricity: ElectricityReport{
			LiveUsage:      live,
			Yesterday:      formatPeriod(yesterday),
			Monthly:        formatPeriod(monthly),
			Tariff:         tariff,
			HistoricalData: s.history.Query(creds.AccountNumber),
		},
		Timestamp: s.now().UTC().Format("2006-01-02 15:04:05 UTC"),
	}
	if hasGas {
		snapshot.Gas = &GasReport{
			Yesterday: formatPeriod(gasYesterday),
			Monthly:   formatPeriod(gasMon),
			Tariff:    gasTariff,
		}
	}
	return snapshot, nil
}

func formatPeriod(u octopus.PeriodUsage) PeriodReport {
	return PeriodReport{
		Usage: fmt.Sprintf("%.2f", u.KWh),
		Cost:  fmt.Sprintf("%.2f", u.Cost),
	}
}
