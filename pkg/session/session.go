// Package session persists interactive viewport state between HTTP requests.
//
// A browser front-end (or any other rendering collaborator) opens a session
// for one note group, then streams pointer and wheel events to the server.
// Each event is applied to a [viewport.Viewport] restored from the stored
// [viewport.State], and the updated state is written back.
//
// Backends:
//   - [MemoryStore]: single-process deployments and tests
//   - [FileStore]: JSON files, survives restarts of a single instance
//   - [RedisStore]: shared by several server replicas
//
// # Usage
//
//	sess := session.New("research", layout.AlgorithmForce, layout.DefaultCanvas, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidID is returned for IDs that are not UUIDs.
	ErrInvalidID = errors.New("invalid session id")
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 2 * time.Hour

// Session is the persisted state of one interactive graph view.
type Session struct {
	ID        string           `json:"id"`
	Group     string           `json:"group"`
	Algorithm layout.Algorithm `json:"algorithm"`
	Canvas    layout.Canvas    `json:"canvas"`
	Viewport  viewport.State   `json:"viewport"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// New creates a session with a fresh random ID and an identity view.
func New(group string, algo layout.Algorithm, c layout.Canvas, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Group:     group,
		Algorithm: algo,
		Canvas:    c,
		Viewport:  viewport.State{Zoom: 1},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// ValidateID rejects anything that is not a canonical UUID, which also keeps
// IDs safe to use as file names and Redis key suffixes.
func ValidateID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return ErrInvalidID
	}
	return nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session or ErrNotFound when it is missing or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
