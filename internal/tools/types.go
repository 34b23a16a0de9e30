// Package tools implements the direct-call tool surface of the assistant:
// weather lookups, air quality readings, web search, and documentation
// fetching. Every tool returns a structured Result rather than a Go error;
// upstream failures are folded into the envelope so the model can relay
// them conversationally instead of aborting the turn.
package tools

// Status indicates whether a tool call succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Error codes used in Result.Error.Code.
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeAuth       = "AUTH_FAILED"
	ErrCodeNetwork    = "NETWORK_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeUpstream   = "UPSTREAM_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// Result is the uniform envelope every tool returns to the model.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *Error         `json:"error,omitempty"`
}

// Error carries machine-readable failure detail inside a Result.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success builds a success Result with an optional data payload.
func Success(message string, data map[string]any) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data}
}

// Failure builds an error Result. The message is what the model sees;
// details hold the raw upstream text for logs and debugging.
func Failure(code, message, details string) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error:   &Error{Code: code, Message: message, Details: details},
	}
}
