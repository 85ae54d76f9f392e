package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound is returned when a place name resolves to nothing.
	// Lookup failures also match it so callers that only care about the
	// user-visible outcome can check a single error.
	ErrLocationNotFound = errors.New("location not found")

	// ErrLookupFailed marks a geocoding request that never produced an answer.
	ErrLookupFailed = errors.New("location lookup failed")

	// ErrDataUnavailable is returned when a provider response lacks the daily field set.
	ErrDataUnavailable = errors.New("weather data unavailable")

	// ErrEmptySeries is returned when summarising a series with no records.
	ErrEmptySeries = errors.New("empty series")
)

// LookupError wraps a transport or decoding failure from a geocoder.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %v", e.Name, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is reports a match for both ErrLookupFailed and ErrLocationNotFound.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailed || target == ErrLocationNotFound
}
