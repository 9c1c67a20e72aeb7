// Package client implements the TaskFlow behavioral-telemetry SDK: a durable,
// capped event buffer with a periodic flush scheduler that ships batches to
// the ingest service.
//
// The client is an explicitly constructed component owning its own buffer,
// session identifier, and scheduler state. Flushing trades completeness for
// predictability: the first definitive sink failure disables the scheduler
// for the remainder of the session instead of retrying, because events are
// advisory analytics, not transactional records.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ChandanM123456/TaskFlow/client/localstore"
	"github.com/ChandanM123456/TaskFlow/internal/logger"
	"github.com/ChandanM123456/TaskFlow/internal/model"
)

const (
	// DefaultFlushInterval is the periodic flush cadence.
	DefaultFlushInterval = 5 * time.Second
	// DefaultBatchSize caps how many oldest events one flush cycle ships.
	DefaultBatchSize = 200

	ingestPath = "/v0/events"
)

// Telemetry records behavioral events into a durable local buffer and
// periodically flushes them to the ingest service. Safe for concurrent use.
type Telemetry struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	flushInterval time.Duration
	batchSize     int
	bufferCap     int
	storePath     string
	noScheduler   bool

	mu      sync.Mutex
	buf     *buffer
	actor   string
	token   string
	enabled bool

	// flushMu serializes whole flush cycles so the prefix removed after an
	// acknowledgment is exactly the prefix that acknowledgment covered.
	flushMu sync.Mutex

	sess session

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// New constructs a Telemetry client pointed at the ingest service base URL
// and starts the background flush scheduler unless WithoutScheduler is set.
func New(baseURL string, opts ...Option) (*Telemetry, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}

	t := &Telemetry{
		baseURL:       baseURL,
		http:          &http.Client{Timeout: 30 * time.Second},
		log:           logger.New("taskflow-telemetry"),
		flushInterval: DefaultFlushInterval,
		batchSize:     DefaultBatchSize,
		bufferCap:     DefaultBufferCap,
		storePath:     defaultStorePath(),
		enabled:       true,
		done:          make(chan struct{}),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	store, err := localstore.Open(t.storePath)
	if err != nil {
		return nil, errors.Wrap(err, "open telemetry store")
	}
	t.buf = newBuffer(store, t.bufferCap, t.log)

	t.http.Transport = &bearerTransport{
		base:  transportOrDefault(t.http.Transport),
		token: t.currentToken,
	}

	if !t.noScheduler {
		t.wg.Add(1)
		go t.runScheduler()
	}
	return t, nil
}

// Record constructs an Event with a fresh id, the current timestamp, the
// ambient session identifier, and the currently known actor, and enqueues it.
// Data is not validated; semantics belong to consumers.
func (t *Telemetry) Record(eventType string, data map[string]interface{}) model.Event {
	ev := model.Event{
		ID:        newEventID(),
		Timestamp: time.Now(),
		Type:      eventType,
		Session:   t.sess.current(),
		Data:      data,
	}

	t.mu.Lock()
	ev.User = t.actor
	t.buf.enqueue(ev)
	t.mu.Unlock()

	eventsRecordedTotal.WithLabelValues(eventType).Inc()
	return ev
}

// Flush performs exactly one flush cycle synchronously, outside the periodic
// schedule. It returns ErrDisabled once the circuit breaker has tripped and
// nil when the buffer is empty.
func (t *Telemetry) Flush(ctx context.Context) error {
	return t.flushOnce(ctx)
}

// IsEnabled reports whether the flush scheduler is still live. Hosts use it
// to hide manual flush affordances after disablement.
func (t *Telemetry) IsEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// SetActor installs the acting principal attached to subsequent events.
// An empty name reverts to anonymous recording.
func (t *Telemetry) SetActor(name string) {
	t.mu.Lock()
	t.actor = name
	t.mu.Unlock()
}

// SetToken installs the bearer credential attached to flush submissions,
// sourced from the surrounding application's auth state.
func (t *Telemetry) SetToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

// Session returns the identifier attached to every event of this client.
func (t *Telemetry) Session() string { return t.sess.current() }

// Events returns a copy of the full buffered history, oldest first, for
// local aggregation.
func (t *Telemetry) Events() []model.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.snapshot()
}

// BufferLen reports how many events are currently buffered.
func (t *Telemetry) BufferLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.len()
}

// Close stops the background scheduler and leaves the buffer persisted.
// Safe to call multiple times.
func (t *Telemetry) Close() error {
	t.stop()
	t.wg.Wait()
	return nil
}

// ------------------------- internals -------------------------

func (t *Telemetry) runScheduler() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), t.http.Timeout+time.Second)
			// Failures already transition the client to DISABLED; the
			// sentinel just ends this loop via t.done.
			_ = t.flushOnce(ctx)
			cancel()
		}
	}
}

// flushOnce runs one flush cycle: peek a batch, submit it, and remove exactly
// that prefix on acknowledgment. The removal length comes from the request's
// own snapshot, never from the buffer's possibly-mutated-since state. Cycles
// are serialized end to end; a concurrent Flush or scheduler tick waits here
// rather than peeking the same prefix and double-removing it.
func (t *Telemetry) flushOnce(ctx context.Context) error {
	t.flushMu.Lock()
	defer t.flushMu.Unlock()

	t.mu.Lock()
	if !t.enabled {
		t.mu.Unlock()
		return ErrDisabled
	}
	batch := t.buf.peek(t.batchSize)
	t.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := t.submit(ctx, batch); err != nil {
		t.disable(err)
		return err
	}

	t.mu.Lock()
	t.buf.removePrefix(len(batch))
	t.mu.Unlock()

	flushBatchesTotal.Inc()
	t.log.Debug().Int("events", len(batch)).Msg("flushed telemetry batch")
	return nil
}

func (t *Telemetry) submit(ctx context.Context, batch []model.Event) error {
	body, err := json.Marshal(model.IngestRequest{Session: t.sess.current(), Events: batch})
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+ingestPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "submit batch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("ingest sink returned status %d", resp.StatusCode)
	}
	return nil
}

// disable trips the permanent-for-the-session circuit breaker: the periodic
// timer stops and no further batches are sent, but events keep accumulating
// under the buffer cap. An in-flight flush is never aborted, only new ones
// are prevented.
func (t *Telemetry) disable(cause error) {
	t.mu.Lock()
	already := !t.enabled
	t.enabled = false
	t.mu.Unlock()
	if already {
		return
	}

	t.stop()
	flushFailuresTotal.Inc()
	t.log.Warn().Err(cause).Msg("telemetry flush failed; disabled for the remainder of the session")
}

func (t *Telemetry) stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *Telemetry) currentToken() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

// bearerTransport adds the Authorization header to outgoing requests when a
// credential has been installed.
type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (bt *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := bt.token()
	if tok == "" {
		return bt.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+tok)
	return bt.base.RoundTrip(cloned)
}

func defaultStorePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "taskflow", "telemetry.json")
	}
	return filepath.Join(os.TempDir(), "taskflow-telemetry.json")
}
