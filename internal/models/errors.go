package models

import (
	"errors"
	"fmt"
)

var (
	// ErrConstraintViolation is returned by the store when a record for the key already exists.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrStoreUnavailable is returned when the store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ProviderErrorKind tells callers why the geocoding provider gave no usable result.
type ProviderErrorKind int

const (
	ProviderNetwork ProviderErrorKind = iota
	ProviderStatus
	ProviderEmptyResult
	ProviderBadResponse
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderNetwork:
		return "network"
	case ProviderStatus:
		return "status"
	case ProviderEmptyResult:
		return "empty_result"
	case ProviderBadResponse:
		return "bad_response"
	default:
		return "unknown"
	}
}

// ProviderError is returned by the geocoding client when the external call fails.
type ProviderError struct {
	Kind       ProviderErrorKind
	Query      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	switch e.Kind {
	case ProviderStatus:
		return fmt.Sprintf("geocoder: provider returned status %d for %q", e.StatusCode, e.Query)
	case ProviderEmptyResult:
		return fmt.Sprintf("geocoder: no results for %q", e.Query)
	}
	if e.Err != nil {
		return fmt.Sprintf("geocoder: %s error for %q: %v", e.Kind, e.Query, e.Err)
	}
	return fmt.Sprintf("geocoder: %s error for %q", e.Kind, e.Query)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err is a ProviderError of the given kind.
func IsProviderError(err error, kind ProviderErrorKind) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.Kind == kind
}
