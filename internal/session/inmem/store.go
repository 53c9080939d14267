// Package inmem persists sessions in process memory. State is cloned on
// both save and load so callers can never alias the stored copy.
package inmem

import (
	"context"
	"sync"
	"time"

	"orderbot/internal/session"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

var _ session.Store = (*Store)(nil)

func New() *Store {
	return &Store{sessions: map[string]session.Session{}}
}

func (s *Store) Load(_ context.Context, key string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[key]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	sess.State = sess.State.Clone()
	return sess, nil
}

func (s *Store) Save(_ context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.sessions[sess.Key]; ok {
		sess.CreatedAt = existing.CreatedAt
	} else {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now
	sess.State = sess.State.Clone()
	s.sessions[sess.Key] = sess
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; !ok {
		return session.ErrSessionNotFound
	}
	delete(s.sessions, key)
	return nil
}
