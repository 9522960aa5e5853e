package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/opsdash/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromDomainError maps an AppError code onto a status. Unknown failures are 500. Only
// the AppError message reaches the client; the wrapped cause is logged.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	message := apperrors.MessageOf(err)
	if message == "" {
		message = "something went wrong"
	}
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeUpstream:
		status = http.StatusBadGateway
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case "":
		code = "internal_error"
	}
	return NewHTTPError(status, code, message, err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
