package dto

// Envelope is the uniform response wrapper used by every endpoint.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
}

// SuccessResponse wraps data in a successful envelope.
func SuccessResponse(data interface{}, message string) Envelope {
	if message == "" {
		message = "Success"
	}
	return Envelope{Success: true, Message: message, Data: data}
}

// ErrorResponse wraps a failure in the envelope.
func ErrorResponse(code, message string, fields map[string][]string) Envelope {
	return Envelope{Success: false, Message: message, Error: code, Errors: fields}
}
