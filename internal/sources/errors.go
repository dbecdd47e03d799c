package sources

import (
	"errors"
	"fmt"
)

var (
	ErrNoAPIKey       = errors.New("provider api key not configured")
	ErrNoResults      = errors.New("provider returned no results")
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)

// StatusError reports a non-2xx answer from a provider. It matches
// ErrUpstreamStatus under errors.Is.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d", e.Provider, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}

func (e *StatusError) retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
