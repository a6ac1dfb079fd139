package dto

// Response is the envelope shared by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds an error envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
