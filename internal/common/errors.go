// Package common defines shared constants and sentinel errors used across
// the papersync layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Remote-level errors.
	ErrUnavailable    = errors.New("server unavailable")
	ErrDecodingFailed = errors.New("malformed response body")

	// Local store failures are fatal to the triggering operation.
	ErrLocalStore = errors.New("local store failure")
)
