package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// ErrProviderUnavailable indicates the provider is down, unreachable or not configured.
type ErrProviderUnavailable struct {
	Provider string
	Err      error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s provider unavailable", e.Provider)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider rejected the call with HTTP 429.
type ErrRateLimit struct {
	Provider string
	Err      error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("%s rate limited: %v", e.Provider, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }
