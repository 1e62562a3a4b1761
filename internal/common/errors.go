// Package common defines shared sentinel errors used across the session,
// token, and transport layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Token issuance errors.
	//
	// ErrNoSession means neither the refresh secret nor supplied credentials
	// produced a token. It is a terminal "re-authenticate interactively"
	// outcome, not a transport failure: callers resolve it by redirecting to
	// the landing page rather than surfacing an error.
	ErrNoSession = errors.New("no session")

	// ErrCrossOrigin is returned by the CSRF guard when the request's
	// Origin/Referer does not match the configured allow-list.
	ErrCrossOrigin = errors.New("cross-origin call blocked")

	// Transport errors.
	ErrNotConnected = errors.New("not connected")
	ErrUnavailable  = errors.New("server unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
