// Package postgres persists sessions in PostgreSQL with the state as a
// JSONB document keyed by session key.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"orderbot/internal/database"
	"orderbot/internal/order"
	"orderbot/internal/session"
)

type Store struct {
	db *database.DB
}

var _ session.Store = (*Store)(nil)

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Load(ctx context.Context, key string) (session.Session, error) {
	var (
		raw  []byte
		sess session.Session
	)

	err := s.db.QueryRow(ctx, database.GetSessionSQL, key).Scan(&raw, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var st order.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return session.Session{}, fmt.Errorf("failed to decode session state: %w", err)
	}

	sess.Key = key
	sess.State = st
	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess session.Session) error {
	raw, err := json.Marshal(sess.State)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	if err := s.db.Exec(ctx, database.UpsertSessionSQL, sess.Key, raw); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	tag, err := s.db.Pool.Exec(ctx, database.DeleteSessionSQL, key)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}
