// Package store defines the persistence boundary for ingested telemetry
// events.
package store

import (
	"context"

	"github.com/ChandanM123456/TaskFlow/internal/model"
)

// Store persists flushed event batches and serves the event history back to
// the aggregation pass. Events are immutable once appended.
type Store interface {
	// AppendEvents stores a batch atomically. Replayed ids (duplicate
	// delivery from a client that never saw its ack) are ignored.
	AppendEvents(ctx context.Context, events []model.Event) error

	// ListEvents returns events matching req, oldest first.
	ListEvents(ctx context.Context, req model.ListEventsRequest) ([]model.Event, error)

	// CountEvents reports the total number of stored events.
	CountEvents(ctx context.Context) (int64, error)

	HealthCheck(ctx context.Context) error
	Close() error
}
