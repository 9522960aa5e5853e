package weather

import (
	"errors"
	"fmt"
)

// UpstreamError reports a failed provider call. StatusCode is nil when no response
// was received.
type UpstreamError struct {
	StatusCode *int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != nil {
		return fmt.Sprintf("weather provider status %d: %v", *e.StatusCode, e.Err)
	}
	return fmt.Sprintf("weather provider unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError builds an UpstreamError. A zero status means no response.
func NewUpstreamError(status int, err error) *UpstreamError {
	ue := &UpstreamError{Err: err}
	if status > 0 {
		ue.StatusCode = &status
	}
	return ue
}

func statusOf(err error) *int {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.StatusCode != nil {
		code := *ue.StatusCode
		return &code
	}
	return nil
}
