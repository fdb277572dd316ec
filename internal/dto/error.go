package dto

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	ErrorKind      string `json:"errorKind"`
	Message        string `json:"message"`
	Status         string `json:"status"`
	OutcomeUnknown bool   `json:"outcomeUnknown,omitempty"`
	RequestID      string `json:"requestId,omitempty"`
}
