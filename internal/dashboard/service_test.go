package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"octopus-dashboard/internal/credentials"
	"octopus-dashboard/internal/history"
	"octopus-dashboard/internal/octopus"
)

// fakeClient counts calls per fuel so tests can assert the gas group is
// short-circuited without any network involvement.
type fakeClient struct {
	mu sync.Mutex

	liveWatts float64
	tariffs   map[octopus.Fuel]*octopus.Tariff
	tariffErr map[octopus.Fuel]error
	usage     map[octopus.Fuel]octopus.PeriodUsage

	calls map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		liveWatts: 850,
		tariffs: map[octopus.Fuel]*octopus.Tariff{
			octopus.Electricity: {Name: "Flexible Octopus", UnitRate: "0.2804", StandingCharge: "0.48"},
			octopus.Gas:         {Name: "Flexible Octopus Gas", UnitRate: "0.0742", StandingCharge: "0.28"},
		},
		tariffErr: map[octopus.Fuel]error{},
		usage: map[octopus.Fuel]octopus.PeriodUsage{
			octopus.Electricity: {KWh: 12.345, Cost: 3.4615},
			octopus.Gas:         {KWh: 20, Cost: 1.484},
		},
		calls: map[string]int{},
	}
}

func (f *fakeClient) count(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
}

func (f *fakeClient) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeClient) LiveUsage(ctx context.Context, apiKey, accountNumber string) float64 {
	f.count("live")
	return f.liveWatts
}

func (f *fakeClient) YesterdayUsage(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, fuel octopus.Fuel) octopus.PeriodUsage {
	f.count("yesterday:" + string(fuel))
	return f.usage[fuel]
}

func (f *fakeClient) MonthlyUsage(ctx context.Context, apiKey, meterPointID, serial, accountNumber string, fuel octopus.Fuel) octopus.PeriodUsage {
	f.count("monthly:" + string(fuel))
	return f.usage[fuel]
}

func (f *fakeClient) TariffInfo(ctx context.Context, apiKey, accountNumber, meterPointID string, fuel octopus.Fuel) (*octopus.Tariff, error) {
	f.count("tariff:" + string(fuel))
	if err := f.tariffErr[fuel]; err != nil {
		return nil, err
	}
	return f.tariffs[fuel], nil
}

func electricityOnlyCreds() *credentials.Credentials {
	return &credentials.Credentials{
		APIKey:        "sk_test",
		MPAN:          "1200012345678",
		SerialNumber:  "21E123",
		AccountNumber: "A-123",
	}
}

func dualFuelCreds() *credentials.Credentials {
	creds := electricityOnlyCreds()
	creds.MPRN = "3045678"
	creds.GasSerialNumber = "G4X"
	return creds
}

func TestSnapshotElectricityOnly(t *testing.T) {
	client := newFakeClient()
	svc := New(client, history.New(time.Hour))

	snapshot, err := svc.Snapshot(context.Background(), electricityOnlyCreds())
	require.NoError(t, err)

	assert.Equal(t, 850.0, snapshot.Electricity.LiveUsage)
	assert.Equal(t, PeriodReport{Usage: "12.35", Cost: "3.46"}, snapshot.Electricity.Yesterday)
	assert.Equal(t, "Flexible Octopus", snapshot.Electricity.Tariff.Name)

	// Without gas identifiers the gas field is exactly null and no gas
	// fetches happen at all.
	assert.Nil(t, snapshot.Gas)
	assert.Zero(t, client.callCount("yesterday:gas"))
	assert.Zero(t, client.callCount("monthly:gas"))
	assert.Zero(t, client.callCount("tariff:gas"))
}

func TestSnapshotDualFuel(t *testing.T) {
	client := newFakeClient()
	svc := New(client, history.New(time.Hour))

	snapshot, err := svc.Snapshot(context.Background(), dualFuelCreds())
	require.NoError(t, err)

	require.NotNil(t, snapshot.Gas)
	assert.Equal(t, PeriodReport{Usage: "20.00", Cost: "1.48"}, snapshot.Gas.Yesterday)
	assert.Equal(t, "Flexible Octopus Gas", snapshot.Gas.Tariff.Name)

	assert.Equal(t, 1, client.callCount("live"))
	assert.Equal(t, 1, client.callCount("yesterday:gas"))
	assert.Equal(t, 1, client.callCount("monthly:gas"))
	assert.Equal(t, 1, client.callCount("tariff:gas"))
}

func TestSnapshotRecordsLiveUsageInHistory(t *testing.T) {
	client := newFakeClient()
	buffer := history.New(time.Hour)
	svc := New(client, buffer)

	snapshot, err := svc.Snapshot(context.Background(), electricityOnlyCreds())
	require.NoError(t, err)

	require.Len(t, snapshot.Electricity.HistoricalData, 1)
	assert.Equal(t, 850.0, snapshot.Electricity.HistoricalData[0].Watts)
	assert.Equal(t, "A-123", snapshot.Electricity.HistoricalData[0].AccountID)

	// A second request sees both samples, oldest first.
	client.liveWatts = 900
	snapshot, err = svc.Snapshot(context.Background(), electricityOnlyCreds())
	require.NoError(t, err)
	require.Len(t, snapshot.Electricity.HistoricalData, 2)
	assert.Equal(t, 850.0, snapshot.Electricity.HistoricalData[0].Watts)
	assert.Equal(t, 900.0, snapshot.Electricity.HistoricalData[1].Watts)
}

func TestSnapshotHistoryIsPerAccount(t *testing.T) {
	client := newFakeClient()
	buffer := history.New(time.Hour)
	svc := New(client, buffer)

	_, err := svc.Snapshot(context.Background(), electricityOnlyCreds())
	require.NoError(t, err)

	other := electricityOnlyCreds()
	other.AccountNumber = "A-999"
	snapshot, err := svc.Snapshot(context.Background(), other)
	require.NoError(t, err)

	require.Len(t, snapshot.Electricity.HistoricalData, 1)
	assert.Equal(t, "A-999", snapshot.Electricity.HistoricalData[0].AccountID)
}

func TestSnapshotElectricityTariffErrorPropagates(t *testing.T) {
	client := newFakeClient()
	client.tariffErr[octopus.Electricity] = octopus.ErrNoDirectDebitPlan
	svc := New(client, history.New(time.Hour))

	_, err := svc.Snapshot(context.Background(), electricityOnlyCreds())
	require.Error(t, err)
	assert.ErrorIs(t, err, octopus.ErrNoDirectDebitPlan)
}

func TestSnapshotGasTariffErrorPropagates(t *testing.T) {
	client := newFakeClient()
	client.tariffErr[octopus.Gas] = errors.New("gas region missing")
	svc := New(client, history.New(time.Hour))

	_, err := svc.Snapshot(context.Background(), dualFuelCreds())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gas tariff lookup failed")
}

func TestSnapshotTimestampFormat(t *testing.T) {
	client := newFakeClient()
	svc := New(client, history.New(time.Hour))
	svc.now = func() time.Time {
		return time.Date(2025, 3, 1, 12, 34, 56, 0, time.UTC)
	}

	snapshot, err := svc.Snapshot(context.Background(), electricityOnlyCreds())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01 12:34:56 UTC", snapshot.Timestamp)
}
