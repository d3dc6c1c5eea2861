package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository"
)

const (
	keyToken    = "token"
	keyRole     = "role"
	keyUsername = "username"
)

type sqliteSessionRepository struct {
	db *sql.DB
}

// NewSessionRepository stores the session as three rows of a key/value table,
// the same shape a browser keeps in local storage.
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sqliteSessionRepository{db: db}
}

func (r *sqliteSessionRepository) Load(ctx context.Context) (*domain.Session, error) {
	query := `SELECT key, value FROM local_storage WHERE key IN (?, ?, ?)`
	rows, err := r.db.QueryContext(ctx, query, keyToken, keyRole, keyUsername)
	if err != nil {
		return nil, fmt.Errorf("SessionRepository.Load: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 3)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("SessionRepository.Load (scanning row): %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SessionRepository.Load (rows error): %w", err)
	}

	s := domain.Session{
		Token:    values[keyToken],
		Role:     domain.Role(values[keyRole]),
		Username: values[keyUsername],
	}
	if !s.Valid() {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *sqliteSessionRepository) Save(ctx context.Context, s domain.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SessionRepository.Save (begin): %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO local_storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for k, v := range map[string]string{
		keyToken:    s.Token,
		keyRole:     string(s.Role),
		keyUsername: s.Username,
	} {
		if _, err := tx.ExecContext(ctx, query, k, v); err != nil {
			return fmt.Errorf("SessionRepository.Save (%s): %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SessionRepository.Save (commit): %w", err)
	}
	return nil
}

// Clear wipes the whole table, not just the session keys.
func (r *sqliteSessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM local_storage`); err != nil {
		return fmt.Errorf("SessionRepository.Clear: %w", err)
	}
	return nil
}
