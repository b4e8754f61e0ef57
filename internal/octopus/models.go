package octopus

// Fuel selects between the electricity and gas variants of the meter-point
// and tariff endpoints.
type Fuel string

const (
	Electricity Fuel = "electricity"
	Gas         Fuel = "gas"
)

// meterPointsPath returns the REST path segment for the fuel's
// consumption endpoints.
func (f Fuel) meterPointsPath() string {
	if f == Gas {
		return "gas-meter-points"
	}
	return "electricity-meter-points"
}

// Tariff describes the current pricing of a meter point. Rates are
// formatted strings: pounds per kWh to 4 decimal places and pounds per day
// to 2, converted from the inc-VAT pence the API returns.
type Tariff struct {
	Name           string `json:"name"`
	UnitRate       string `json:"unit_rate"`
	StandingCharge string `json:"standing_charge"`
}

// PeriodUsage is the summed consumption and derived cost for a time window.
type PeriodUsage struct {
	KWh  float64
	Cost float64
}

// GraphQL request/response envelopes.

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type obtainKrakenTokenData struct {
	ObtainKrakenToken struct {
		Token string `json:"token"`
	} `json:"obtainKrakenToken"`
}

type accountAgreementsData struct {
	Account struct {
		ElectricityAgreements []struct {
			MeterPoint struct {
				Meters []struct {
					SmartDevices []struct {
						DeviceID string `json:"deviceId"`
					} `json:"smartDevices"`
				} `json:"meters"`
			} `json:"meterPoint"`
		} `json:"electricityAgreements"`
	} `json:"account"`
}

type smartMeterTelemetryData struct {
	SmartMeterTelemetry []struct {
		ReadAt      string   `json:"readAt"`
		Demand      *float64 `json:"demand"`
		Consumption *float64 `json:"consumption"`
	} `json:"smartMeterTelemetry"`
}

// REST response shapes.

type accountResponse struct {
	Properties []accountProperty `json:"properties"`
}

type accountProperty struct {
	ElectricityMeterPoints []meterPoint `json:"electricity_meter_points"`
	GasMeterPoints         []meterPoint `json:"gas_meter_points"`
}

func (p accountProperty) meterPoints(fuel Fuel) []meterPoint {
	if fuel == Gas {
		return p.GasMeterPoints
	}
	return p.ElectricityMeterPoints
}

type meterPoint struct {
	MPAN       string      `json:"mpan"`
	MPRN       string      `json:"mprn"`
	Agreements []agreement `json:"agreements"`
}

func (m meterPoint) id(fuel Fuel) string {
	if fuel == Gas {
		return m.MPRN
	}
	return m.MPAN
}

type agreement struct {
	TariffCode string `json:"tariff_code"`
	// ValidTo is null for open-ended agreements.
	ValidTo *string `json:"valid_to"`
}

type productResponse struct {
	DisplayName                      string                   `json:"display_name"`
	SingleRegisterElectricityTariffs map[string]regionTariffs `json:"single_register_electricity_tariffs"`
	SingleRegisterGasTariffs         map[string]regionTariffs `json:"single_register_gas_tariffs"`
}

func (p productResponse) regionTariffs(fuel Fuel) map[string]regionTariffs {
	if fuel == Gas {
		return p.SingleRegisterGasTariffs
	}
	return p.SingleRegisterElectricityTariffs
}

type regionTariffs struct {
	DirectDebitMonthly *tariffRates `json:"direct_debit_monthly"`
}

type tariffRates struct {
	StandardUnitRateIncVAT float64 `json:"standard_unit_rate_inc_vat"`
	StandingChargeIncVAT   float64 `json:"standing_charge_inc_vat"`
}

type consumptionResponse struct {
	Results []consumptionReading `json:"results"`
}

type consumptionReading struct {
	Consumption   float64 `json:"consumption"`
	IntervalStart string  `json:"interval_start"`
	IntervalEnd   string  `json:"interval_end"`
}
