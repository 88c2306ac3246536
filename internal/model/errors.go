package model

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by stores when a key is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrNotAuthenticated marks an operation that needs a session token.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuth marks a rejected login or signup.
	ErrAuth = errors.New("authentication failed")
	// ErrGeneration marks a failed recipe generation call.
	ErrGeneration = errors.New("recipe generation failed")
	// ErrDerivation marks a failed shopping list derivation.
	ErrDerivation = errors.New("shopping list derivation failed")
	// ErrDealLookup marks a failed deal lookup.
	ErrDealLookup = errors.New("deal lookup failed")
	// ErrFavorite marks a failed favorites call.
	ErrFavorite = errors.New("favorite request failed")
	// ErrRating marks a failed rating call.
	ErrRating = errors.New("rating request failed")
	// ErrCancelled marks an explicitly aborted operation. It is not reported to users.
	ErrCancelled = errors.New("cancelled")
	// ErrSuperseded marks a response discarded because a newer request was issued.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// RemoteError describes a failed call to the remote API.
type RemoteError struct {
	Status int
	Code   string
	Reason string
	Err    error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Reason != "" && e.Status != 0:
		return fmt.Sprintf("remote api: %d: %s", e.Status, e.Reason)
	case e.Reason != "":
		return "remote api: " + e.Reason
	case e.Err != nil:
		return "remote api: " + e.Err.Error()
	default:
		return fmt.Sprintf("remote api: %d %s", e.Status, http.StatusText(e.Status))
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err stems from cancellation or supersession.
// Such errors must not be shown to the user.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, ErrSuperseded)
}

// Reason extracts the best-effort server reason from err, or returns fallback.
func Reason(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Reason != "" {
		return remote.Reason
	}
	return fallback
}

// Code extracts the structured server error code from err, if any.
func Code(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Code
	}
	return ""
}
