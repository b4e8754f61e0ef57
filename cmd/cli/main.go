package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"octopus-dashboard/internal/credentials"
	"octopus-dashboard/internal/dashboard"
	"octopus-dashboard/internal/history"
	"octopus-dashboard/internal/octopus"
)

// envOrString returns the environment variable value if set, otherwise the
// default value.
func envOrString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseFlags() *credentials.Credentials {
	apiKey := flag.String("apikey", envOrString("OCTOPUS_API_KEY", ""), "Octopus API key")
	account := flag.String("account", envOrString("OCTOPUS_ACCOUNT_NUMBER", ""), "Octopus account number")
	mpan := flag.String("mpan", envOrString("OCTOPUS_MPAN", ""), "Electricity meter point (MPAN)")
	serial := flag.String("serial", envOrString("OCTOPUS_SERIAL", ""), "Electricity meter serial number")
	mprn := flag.String("mprn", envOrString("OCTOPUS_MPRN", ""), "Gas meter point (MPRN, optional)")
	gasSerial := flag.String("gasSerial", envOrString("OCTOPUS_GAS_SERIAL", ""), "Gas meter serial number (optional)")
	flag.Parse()

	if *apiKey == "" || *account == "" || *mpan == "" || *serial == "" {
		log.Fatalf("Required flags missing. Usage: %s -apikey=... -account=... -mpan=... -serial=...", os.Args[0])
	}

	return &credentials.Credentials{
		APIKey:          *apiKey,
		AccountNumber:   *account,
		MPAN:            *mpan,
		SerialNumber:    *serial,
		MPRN:            *mprn,
		GasSerialNumber: *gasSerial,
	}
}

func main() {
	creds := parseFlags()

	client := octopus.New("", "")
	service := dashboard.New(client, history.New(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := service.Snapshot(ctx, creds)
	if err != nil {
		log.Fatalf("Failed to fetch usage snapshot: %v", err)
	}

	fmt.Printf("Account %s at %s\n", creds.AccountNumber, snapshot.Timestamp)
	fmt.Printf("Electricity:\n")
	fmt.Printf("  Live draw:  %.0f W\n", snapshot.Electricity.LiveUsage)
	fmt.Printf("  Yesterday:  %s kWh (£%s)\n", snapshot.Electricity.Yesterday.Usage, snapshot.Electricity.Yesterday.Cost)
	fmt.Printf("  Last 30d:   %s kWh (£%s)\n", snapshot.Electricity.Monthly.Usage, snapshot.Electricity.Monthly.Cost)
	fmt.Printf("  Tariff:     %s (%s £/kWh, %s £/day standing)\n",
		snapshot.Electricity.Tariff.Name, snapshot.Electricity.Tariff.UnitRate, snapshot.Electricity.Tariff.StandingCharge)

	if snapshot.Gas != nil {
		fmt.Printf("Gas:\n")
		fmt.Printf("  Yesterday:  %s kWh (£%s)\n", snapshot.Gas.Yesterday.Usage, snapshot.Gas.Yesterday.Cost)
		fmt.Printf("  Last 30d:   %s kWh (£%s)\n", snapshot.Gas.Monthly.Usage, snapshot.Gas.Monthly.Cost)
		fmt.Printf("  Tariff:     %s (%s £/kWh, %s £/day standing)\n",
			snapshot.Gas.Tariff.Name, snapshot.Gas.Tariff.UnitRate, snapshot.Gas.Tariff.StandingCharge)
	}
}
