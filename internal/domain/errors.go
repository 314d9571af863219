package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a provider when the remote service has no
	// record for the phone number. It is not a failure: the lookup pipeline
	// absorbs it and treats the response as empty data.
	ErrNotFound = errors.New("no record for phone number")

	// ErrNotConfigured is returned when a provider without credentials is
	// asked to call its API
	ErrNotConfigured = errors.New("provider credentials not configured")

	// ErrInvalidPhone is returned when a phone number cannot be normalized
	// to international format
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrUnknownProvider is returned when a lookup names a provider that is
	// not registered
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrCacheMiss is returned when no cache record exists for a key
	ErrCacheMiss = errors.New("cache miss")
)

// APIError reports a provider call that reached the remote service but was
// rejected or failed. It carries the HTTP status so callers can mark that
// provider's result as failed without aborting other providers.
type APIError struct {
	Provider string
	Status   int
	Reason   string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s API call failed with status %d: %s", e.Provider, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s API call failed with status %d", e.Provider, e.Status)
}
