package client

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/oklog/ulid/v2"
)

// newEventID returns a fresh opaque event identifier. ULIDs sort by creation
// time, which keeps persisted buffer snapshots readable when debugging.
func newEventID() string { return ulid.Make().String() }

// sessionBytes gives ~96 bits of entropy; collisions across sessions are not
// prevented, only made astronomically unlikely.
const sessionBytes = 12

// session lazily generates a random base-36 token on first access and caches
// it for the lifetime of the owning client. One client instance is one
// session; tokens are deliberately not persisted across restarts.
type session struct {
	once sync.Once
	id   string
}

// current returns the cached session identifier, generating it on first use.
// Idempotent within a session.
func (s *session) current() string {
	s.once.Do(func() {
		s.id = newSessionID()
	})
	return s.id
}

func newSessionID() string {
	buf := make([]byte, sessionBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; a zero token is
		// still a valid (if degraded) session identifier.
		return "0"
	}
	return new(big.Int).SetBytes(buf).Text(36)
}
