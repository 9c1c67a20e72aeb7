package client

import "errors"

// ErrDisabled is returned by Flush once the scheduler has tripped its
// permanent-for-the-session circuit breaker.
var ErrDisabled = errors.New("telemetry disabled for this session")

// IsDisabled reports whether err marks the disabled telemetry state.
func IsDisabled(err error) bool { return errors.Is(err, ErrDisabled) }
