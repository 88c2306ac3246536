package model

import "net/http"

// SecurityLayer builds the base HTTP transport for the remote API.
type SecurityLayer interface {
	RoundTripper() (http.RoundTripper, error)
}
