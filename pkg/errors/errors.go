package errors

import "errors"

// Codes shared by the domain services and the HTTP layer.
const (
	CodeInvalidInput       = "invalid_input"
	CodeUpstream           = "upstream_error"
	CodePersistence        = "persistence_error"
	CodeSamplerUnavailable = "sampler_unavailable"
	CodeInvalidToken       = "invalid_token"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handlers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError in the chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf returns the client-safe message of the outermost AppError, or "" when err
// carries none.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
