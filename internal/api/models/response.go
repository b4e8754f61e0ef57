package models

// ErrorResponse carries a short error message to the caller. Contextual
// detail (upstream bodies, statuses) stays in the server log.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SaveCredentialsResponse acknowledges a stored cookie.
type SaveCredentialsResponse struct {
	Success bool `json:"success"`
}
