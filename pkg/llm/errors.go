package llm

import "fmt"

// ErrorType categorizes an error surfaced by the core.
type ErrorType string

const (
	// ErrorTypeConfig marks a unified config that failed validation.
	ErrorTypeConfig ErrorType = "config_error"
	// ErrorTypeFlow marks a conversation whose tool-call ordering is invalid.
	ErrorTypeFlow ErrorType = "flow_error"
	// ErrorTypeToolResult marks a tool_result missing required linkage.
	ErrorTypeToolResult ErrorType = "tool_result_error"
	// ErrorTypeProvider marks a non-2xx vendor response.
	ErrorTypeProvider ErrorType = "provider_error"
	// ErrorTypeTransport marks a failed or aborted transport call.
	ErrorTypeTransport ErrorType = "transport_error"
	// ErrorTypeUnsupportedService marks an unknown service discriminant.
	ErrorTypeUnsupportedService ErrorType = "unsupported_service"
)

// Error is the single error shape surfaced by the core. Service names the
// provider involved; Status carries the HTTP status for provider errors;
// Position cites the offending message index for flow errors.
type Error struct {
	Type     ErrorType `json:"type"`
	Service  Service   `json:"service,omitempty"`
	Status   int       `json:"status,omitempty"`
	Param    string    `json:"param,omitempty"`
	Position int       `json:"position,omitempty"`
	Message  string    `json:"message"`
	cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Type == ErrorTypeProvider && e.Status != 0:
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Type, e.Service, e.Status, e.Message)
	case e.Type == ErrorTypeFlow:
		return fmt.Sprintf("%s: message %d: %s", e.Type, e.Position, e.Message)
	case e.Param != "":
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	case e.Service != "":
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Service, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewConfigError creates an Error for an invalid unified config.
func NewConfigError(param, message string) *Error {
	return &Error{Type: ErrorTypeConfig, Param: param, Message: message}
}

// NewFlowError creates an Error for invalid conversation flow at the
// given message position.
func NewFlowError(position int, message string) *Error {
	return &Error{Type: ErrorTypeFlow, Position: position, Message: message}
}

// NewToolResultError creates an Error for a tool_result message missing
// the linkage the given service requires.
func NewToolResultError(service Service, position int, message string) *Error {
	return &Error{Type: ErrorTypeToolResult, Service: service, Position: position, Message: message}
}

// NewProviderError creates an Error for a non-2xx vendor response.
func NewProviderError(service Service, status int, message string) *Error {
	return &Error{Type: ErrorTypeProvider, Service: service, Status: status, Message: message}
}

// NewTransportError wraps a transport-level failure, preserving the cause.
func NewTransportError(service Service, cause error) *Error {
	return &Error{
		Type:    ErrorTypeTransport,
		Service: service,
		Message: cause.Error(),
		cause:   cause,
	}
}

// NewUnsupportedServiceError creates an Error for an unknown discriminant.
func NewUnsupportedServiceError(service Service) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedService,
		Service: service,
		Message: fmt.Sprintf("unknown service %q", string(service)),
	}
}
