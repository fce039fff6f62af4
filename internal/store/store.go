// Package store provides session persistence backends for HydraCoach.
//
// Three implementations share one interface: an in-memory store for tests,
// an SQLite store for single-node deployments, and a Postgres store. A
// missing session is reported as (nil, nil), not as an error.
package store

import (
	"strings"
	"sync"

	"github.com/marufai/HydraCoach/internal/models"
)

// Store is the session persistence contract.
type Store interface {
	// GetSession returns the stored session for id, or nil when absent.
	GetSession(id string) (*models.Session, error)
	// SaveSession persists a session. Sessions with no dialogue progress
	// are pruned instead of written.
	SaveSession(s models.Session) error
	// DeleteSession removes a session. Deleting an absent session is not
	// an error.
	DeleteSession(id string) error
	// Close releases any underlying resources.
	Close() error
}

// Opts holds configuration options for persistent store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for a store backend.
type Option func(*Opts)

// WithDSN sets the database connection string (file path for SQLite,
// connection URL for Postgres).
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite3". PostgreSQL is
// recognized by URL scheme or key=value connection strings; anything else
// is treated as an SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

// InMemoryStore keeps sessions in a map. Used by tests and as a fallback
// when no durable backend is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]models.Session)}
}

// GetSession returns a copy of the stored session, or nil when absent.
func (s *InMemoryStore) GetSession(id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := sess
	copied.Data = make(map[string]string, len(sess.Data))
	for k, v := range sess.Data {
		copied.Data[k] = v
	}
	copied.ChatHistory = append([]models.ChatMessage(nil), sess.ChatHistory...)
	return &copied, nil
}

// SaveSession stores a deep copy of the session, pruning idle ones.
func (s *InMemoryStore) SaveSession(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.Idle() {
		delete(s.sessions, sess.ID)
		return nil
	}
	copied := sess
	copied.Data = make(map[string]string, len(sess.Data))
	for k, v := range sess.Data {
		copied.Data[k] = v
	}
	copied.ChatHistory = append([]models.ChatMessage(nil), sess.ChatHistory...)
	s.sessions[sess.ID] = copied
	return nil
}

// DeleteSession removes a session from the map.
func (s *InMemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
