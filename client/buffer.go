package client

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/ChandanM123456/TaskFlow/client/localstore"
	"github.com/ChandanM123456/TaskFlow/internal/model"
)

// bufferKey is the local-store key holding the persisted event snapshot.
const bufferKey = "telemetry.buffer"

// DefaultBufferCap is the maximum number of events retained; oldest entries
// are evicted first once the cap is exceeded.
const DefaultBufferCap = 2000

// buffer is the durable, capped, append-only event queue. Events are only
// appended and removed from the front; never mutated in place. The caller
// (the Telemetry client) serializes access.
//
// Persistence is best effort: a failed snapshot write is logged and swallowed,
// the in-memory sequence stays authoritative until eviction or restart.
type buffer struct {
	max    int
	store  *localstore.Store
	log    zerolog.Logger
	events []model.Event
}

func newBuffer(store *localstore.Store, max int, log zerolog.Logger) *buffer {
	if max <= 0 {
		max = DefaultBufferCap
	}
	b := &buffer{max: max, store: store, log: log}
	b.load()
	return b
}

// load reconstructs the in-memory sequence from the persisted snapshot.
// Absent or unparseable snapshots initialize to empty, never an error.
func (b *buffer) load() {
	b.events = nil
	raw, ok := b.store.Get(bufferKey)
	if !ok {
		return
	}
	var loaded []model.Event
	if err := json.Unmarshal(raw, &loaded); err != nil {
		b.log.Debug().Err(err).Msg("discarding unparseable buffer snapshot")
		return
	}
	if len(loaded) > b.max {
		loaded = loaded[len(loaded)-b.max:]
	}
	b.events = loaded
}

// enqueue appends ev, applies keep-newest-N eviction, and persists the tail.
func (b *buffer) enqueue(ev model.Event) {
	b.events = append(b.events, ev)
	if evicted := len(b.events) - b.max; evicted > 0 {
		b.events = b.events[evicted:]
		eventsEvictedTotal.Add(float64(evicted))
	}
	b.persist()
}

// peek returns a copy of the first n events without removing them.
func (b *buffer) peek(n int) []model.Event {
	if n > len(b.events) {
		n = len(b.events)
	}
	if n <= 0 {
		return nil
	}
	out := make([]model.Event, n)
	copy(out, b.events[:n])
	return out
}

// removePrefix drops the first n events and re-persists the remainder. It is
// the only removal path besides cap eviction and must only run after the sink
// acknowledged exactly that prefix.
func (b *buffer) removePrefix(n int) {
	if n <= 0 {
		return
	}
	if n > len(b.events) {
		n = len(b.events)
	}
	rest := make([]model.Event, len(b.events)-n)
	copy(rest, b.events[n:])
	b.events = rest
	b.persist()
}

func (b *buffer) len() int { return len(b.events) }

// snapshot returns a copy of the full buffered history, oldest first.
func (b *buffer) snapshot() []model.Event {
	return b.peek(len(b.events))
}

func (b *buffer) persist() {
	raw, err := json.Marshal(b.events)
	if err != nil {
		b.log.Debug().Err(err).Msg("buffer snapshot marshal failed")
		return
	}
	if err := b.store.Set(bufferKey, raw); err != nil {
		b.log.Debug().Err(err).Msg("buffer snapshot write failed")
	}
	bufferDepth.Set(float64(len(b.events)))
}
