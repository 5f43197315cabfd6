package api

import "errors"

// Fetch outcomes the caller dispatches on. NotFound is permanent for the
// call that produced it, Transient is retryable on a later cycle, and
// Unauthorized means the credential is broken and must reach the operator.
var (
	ErrNotFound     = errors.New("remote has no data")
	ErrTransient    = errors.New("remote temporarily unavailable")
	ErrUnauthorized = errors.New("api credential rejected")
)
