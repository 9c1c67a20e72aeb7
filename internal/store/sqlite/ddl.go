package sqlite

// Schema for the ingested event log. EventId is the client-assigned id, so a
// replayed batch (duplicate delivery after a lost ack) collapses onto the
// existing rows.
const ddl = `
CREATE TABLE IF NOT EXISTS Events (
    EventId      TEXT PRIMARY KEY,
    Session      TEXT NOT NULL,
    Actor        TEXT,
    Type         TEXT NOT NULL,
    Timestamp    TIMESTAMP NOT NULL,
    Data         TEXT,
    ReceivedTime TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_session ON Events(Session);
CREATE INDEX IF NOT EXISTS idx_events_type    ON Events(Type);
CREATE INDEX IF NOT EXISTS idx_events_time    ON Events(Timestamp);
`
