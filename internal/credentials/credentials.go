package credentials

// Credentials holds the Octopus Energy identifiers needed to query an
// account. The electricity fields are mandatory; the gas fields are
// optional and gate whether gas data is fetched at all.
type Credentials struct {
	APIKey        string `json:"apiKey"`
	MPAN          string `json:"mpan"`
	SerialNumber  string `json:"serialNumber"`
	AccountNumber string `json:"accountNumber"`

	MPRN            string `json:"mprn,omitempty"`
	GasSerialNumber string `json:"gasSerialNumber,omitempty"`
}

// HasGas reports whether both gas identifiers are present.
func (c *Credentials) HasGas() bool {
	return c.MPRN != "" && c.GasSerialNumber != ""
}
