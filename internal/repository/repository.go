package repository

import (
	"context"
	"errors"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

var ErrNotFound = errors.New("record not found")

// SessionRepository persists the three session values (token, role, username).
// Load returns ErrNotFound when no complete session is stored.
type SessionRepository interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}
