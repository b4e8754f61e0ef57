package models

// SaveCredentialsRequest is the body for POST /api/save-credentials. Field
// names match the cookie payload; gas identifiers are optional.
type SaveCredentialsRequest struct {
	APIKey        string `json:"apiKey" binding:"required"`
	MPAN          string `json:"mpan" binding:"required"`
	SerialNumber  string `json:"serialNumber" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`

	MPRN            string `json:"mprn,omitempty"`
	GasSerialNumber string `json:"gasSerialNumber,omitempty"`
}
