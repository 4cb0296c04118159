package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys. Token and identity are stored as two rows and always
// written or cleared together in one transaction.
const (
	keyToken    = "token"
	keyIdentity = "identity"
)

// SQLiteStore is the durable Store implementation. The session survives
// process restart but is local to this panel; it is never shared between
// actors.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the backing table if needed and returns the store.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS panel_session (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating session table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SetSession stores the token and identity atomically, replacing any
// previous session.
func (s *SQLiteStore) SetSession(ctx context.Context, token string, identity Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("serialising identity: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op if committed

	const upsert = `INSERT INTO panel_session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := tx.ExecContext(ctx, upsert, keyToken, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, keyIdentity, string(data)); err != nil {
		return fmt.Errorf("storing identity: %w", err)
	}

	return tx.Commit()
}

// GetSession returns the stored session, or ErrNoSession if none exists.
func (s *SQLiteStore) GetSession(ctx context.Context) (*Session, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM panel_session WHERE key = ?`, keyToken).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}

	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM panel_session WHERE key = ?`, keyIdentity).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, fmt.Errorf("deserialising identity: %w", err)
	}

	return &Session{Token: token, Identity: identity}, nil
}

// ClearSession removes the token and identity together.
func (s *SQLiteStore) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM panel_session WHERE key IN (?, ?)`, keyToken, keyIdentity)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a token is stored. It says nothing about
// whether the backend still accepts it.
func (s *SQLiteStore) IsAuthenticated(ctx context.Context) bool {
	sess, err := s.GetSession(ctx)
	return err == nil && sess.Token != ""
}
