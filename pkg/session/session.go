// Package session keeps interactive views alive between HTTP requests.
//
// Each [Session] owns one [view.Controller] and a mutex that serialises
// access to it, since a controller is not safe for concurrent use. Sessions
// expire after a period without use:
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	sess, err := store.Create(ctx, controller)
//
//	// later, in a handler
//	sess, err := store.Get(ctx, id)
//	err = sess.Do(func(c *view.Controller) error {
//	    _, err := c.Select(ctx, "User")
//	    return err
//	})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/view"
)

// DefaultTTL is how long an unused session survives.
const DefaultTTL = 30 * time.Minute

// Session is one interactive view.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	view      *view.Controller
	expiresAt time.Time
	ttl       time.Duration
}

// New wraps c in a session with a random ID.
func New(c *view.Controller, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		view:      c,
		expiresAt: now.Add(ttl),
		ttl:       ttl,
	}
}

// Do runs fn with exclusive access to the session's controller and extends
// the session's lifetime.
func (s *Session) Do(fn func(*view.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(s.ttl)
	return fn(s.view)
}

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// ExpiresAt returns the current expiry time.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Store is the interface for session storage backends.
type Store interface {
	// Create stores a new session for c.
	Create(ctx context.Context, c *view.Controller) (*Session, error)

	// Get returns the session with the given ID. Unknown and expired
	// sessions are [errors.ErrCodeNotFound].
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewMemoryStore returns an empty store. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Create(_ context.Context, c *view.Controller) (*Session, error) {
	if c == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "session needs a view")
	}
	s := New(c, m.ttl)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "session %q not found", id)
	}
	if s.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, errors.New(errors.ErrCodeNotFound, "session %q expired", id)
	}
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Cleanup(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

var _ Store = (*MemoryStore)(nil)
