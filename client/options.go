package client

// This file defines functional options that configure the Telemetry client
// during construction. Keeping them in a standalone file makes it easy to
// discover all available knobs at a glance.

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Telemetry client during construction in New.
// Options must be deterministic and side-effect free.
type Option func(*Telemetry) error

// WithHTTPTimeout sets the underlying http.Client Timeout used for flush
// submissions. A flush that exceeds it fails and trips the circuit breaker
// like any other network failure.
func WithHTTPTimeout(d time.Duration) Option {
	return func(t *Telemetry) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		t.http.Timeout = d
		return nil
	}
}

// WithFlushInterval sets the periodic flush cadence (default 5s).
func WithFlushInterval(d time.Duration) Option {
	return func(t *Telemetry) error {
		if d <= 0 {
			return fmt.Errorf("flush interval must be > 0")
		}
		t.flushInterval = d
		return nil
	}
}

// WithBatchSize caps how many buffered events one flush cycle ships
// (default 200).
func WithBatchSize(n int) Option {
	return func(t *Telemetry) error {
		if n <= 0 {
			return fmt.Errorf("batch size must be > 0")
		}
		t.batchSize = n
		return nil
	}
}

// WithBufferCap sets the durable buffer's keep-newest-N cap (default 2000).
func WithBufferCap(n int) Option {
	return func(t *Telemetry) error {
		if n <= 0 {
			return fmt.Errorf("buffer cap must be > 0")
		}
		t.bufferCap = n
		return nil
	}
}

// WithStorePath overrides where the durable buffer snapshot is persisted.
func WithStorePath(path string) Option {
	return func(t *Telemetry) error {
		if path == "" {
			return fmt.Errorf("store path must not be empty")
		}
		t.storePath = path
		return nil
	}
}

// WithLogger replaces the client's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Telemetry) error {
		t.log = log
		return nil
	}
}

// WithToken installs the bearer credential attached to flush submissions.
// Hosts that authenticate after construction can use SetToken instead.
func WithToken(token string) Option {
	return func(t *Telemetry) error {
		t.token = token
		return nil
	}
}

// WithoutScheduler disables the background flush goroutine; only manual
// Flush calls ship events. Used by tests and by hosts that drive flushing
// themselves.
func WithoutScheduler() Option {
	return func(t *Telemetry) error {
		t.noScheduler = true
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true. Not for production use.
func WithDebugLogging(enabled bool) Option {
	return func(t *Telemetry) error {
		if enabled {
			t.http.Transport = &debugTransport{base: transportOrDefault(t.http.Transport)}
		}
		return nil
	}
}
