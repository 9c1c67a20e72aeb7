package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/ChandanM123456/TaskFlow/internal/model"
	"github.com/ChandanM123456/TaskFlow/internal/store"
)

// SqliteStore implements store.Store on a local SQLite file.
type SqliteStore struct {
	db *sql.DB
}

// DB exposes the underlying *sql.DB connection (local-only use case).
func (s *SqliteStore) DB() *sql.DB { return s.db }

// NewSqliteStore opens (or creates) the event log at path and applies the
// schema.
func NewSqliteStore(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewSqliteStoreWithDB(db)
}

// NewSqliteStoreWithDB wires an existing connection (used by tests).
func NewSqliteStoreWithDB(db *sql.DB) (store.Store, error) {
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SqliteStore) Close() error { return s.db.Close() }

func (s *SqliteStore) AppendEvents(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, ev := range events {
		var data any
		if len(ev.Data) > 0 {
			raw, err := json.Marshal(ev.Data)
			if err != nil {
				return err
			}
			data = string(raw)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO Events (EventId, Session, Actor, Type, Timestamp, Data, ReceivedTime) VALUES (?,?,?,?,?,?,?)`,
			ev.ID, ev.Session, nullString(ev.User), ev.Type, ev.Timestamp.UTC(), data, now)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SqliteStore) ListEvents(ctx context.Context, req model.ListEventsRequest) ([]model.Event, error) {
	q := `SELECT EventId, Session, Actor, Type, Timestamp, Data FROM Events`
	var conds []string
	var args []any
	if req.Session != "" {
		conds = append(conds, "Session = ?")
		args = append(args, req.Session)
	}
	if req.Type != "" {
		conds = append(conds, "Type = ?")
		args = append(args, req.Type)
	}
	if req.Since != nil {
		conds = append(conds, "Timestamp >= ?")
		args = append(args, req.Since.UTC())
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY Timestamp ASC, EventId ASC"
	if req.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, req.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var actor sql.NullString
		var data sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Session, &actor, &ev.Type, &ev.Timestamp, &data); err != nil {
			return nil, err
		}
		ev.User = actor.String
		if data.Valid && data.String != "" {
			// Tolerate rows whose payload predates the current producers.
			_ = json.Unmarshal([]byte(data.String), &ev.Data)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *SqliteStore) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Events`).Scan(&n)
	return n, err
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
