// Package repository keeps wizard sessions in memory. Nothing is persisted:
// sessions disappear on restart, after SESSION_TTL of inactivity, or when
// the store is full and they are the least recently used.
package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/service"
	"github.com/Jamolkhon5/sprintkit/internal/metrics"
)

const (
	DefaultMaxSessions = 1000
	DefaultSessionTTL  = 2 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

type Repository struct {
	sessions *expirable.LRU[string, *service.Session]
	metrics  *metrics.Metrics
	newID    func() string
}

func NewRepository(maxSessions int, ttl time.Duration, m *metrics.Metrics) *Repository {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Repository{
		sessions: expirable.NewLRU[string, *service.Session](maxSessions, nil, ttl),
		metrics:  m,
		newID:    uuid.NewString,
	}
}

// Create starts a fresh wizard session
func (r *Repository) Create() *service.Session {
	s := service.NewSession(r.newID(), r.metrics)
	r.sessions.Add(s.ID, s)
	r.metrics.SetActiveSessions(r.sessions.Len())
	return s
}

// Get returns the session and restarts its idle timer
func (r *Repository) Get(id string) (*service.Session, error) {
	s, ok := r.sessions.Get(id)
	if !ok {
		r.metrics.SetActiveSessions(r.sessions.Len())
		return nil, ErrSessionNotFound
	}
	r.sessions.Add(id, s)
	return s, nil
}

func (r *Repository) Delete(id string) bool {
	ok := r.sessions.Remove(id)
	r.metrics.SetActiveSessions(r.sessions.Len())
	return ok
}

func (r *Repository) Len() int {
	return r.sessions.Len()
}
