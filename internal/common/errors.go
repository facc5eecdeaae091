// Package common defines shared constants and sentinel errors used across
// the taskflow client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("cannot reach server")

	// Backend-rejected requests.
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrServer       = errors.New("server error")
	ErrNotFound     = errors.New("not found")

	// Session lifecycle errors.
	ErrSessionTerminated      = errors.New("session terminated")
	ErrNoRefreshToken         = errors.New("no refresh token")
	ErrMalformedTokenResponse = errors.New("malformed token response")
)
