// Package source holds the shared error taxonomy for external data feeds.
// Provider-specific wire handling lives in the sub-packages; everything
// above them sees only the types defined here.
package source

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why a calendar fetch failed.
type FetchErrorKind int

const (
	// FetchErrorGeneric covers network failures and unexpected
	// provider responses.
	FetchErrorGeneric FetchErrorKind = iota

	// FetchErrorTokenExpired means the provider access token is no
	// longer valid; the user must sign in again.
	FetchErrorTokenExpired

	// FetchErrorInsufficientScope means the token lacks calendar read
	// permission; the user must re-grant the scope.
	FetchErrorInsufficientScope
)

// FetchError is returned by calendar source clients. Message is safe to
// show in the UI; Err carries the underlying cause for logs.
type FetchError struct {
	Kind    FetchErrorKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError extracts a FetchError from err's chain, wrapping unknown
// errors into a generic one so callers always get a displayable message.
func AsFetchError(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{
		Kind:    FetchErrorGeneric,
		Message: "could not fetch calendar events",
		Err:     err,
	}
}

// IsTokenExpired reports whether err classifies as an expired token.
func IsTokenExpired(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchErrorTokenExpired
}

// IsInsufficientScope reports whether err classifies as missing calendar
// permission.
func IsInsufficientScope(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchErrorInsufficientScope
}
