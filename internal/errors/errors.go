package errors

// ErrorWithStatusCode is the one error type the HTTP boundary understands.
// MessageKey is resolved through the message catalog for the request locale.
// ValidationErrors maps field names to message keys and is only set for
// field-level validation failures.
//
// Errors without a status code render as 500 at the handler boundary.
type ErrorWithStatusCode struct {
	MessageKey       string
	StatusCode       int
	ValidationErrors map[string]string
}

func (e *ErrorWithStatusCode) Error() string {
	return e.MessageKey
}

// New builds a plain status error around a message key.
func New(messageKey string, statusCode int) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{MessageKey: messageKey, StatusCode: statusCode}
}

// NewValidation builds a 400 carrying per-field message keys.
func NewValidation(fieldKeys map[string]string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		MessageKey:       "validation_failure",
		StatusCode:       400,
		ValidationErrors: fieldKeys,
	}
}
