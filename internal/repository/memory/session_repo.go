package memory

import (
	"context"
	"sync"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository"
)

type sessionRepository struct {
	mu      sync.RWMutex
	current *domain.Session
}

// NewSessionRepository keeps the session for the lifetime of the process.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Load(_ context.Context) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil, repository.ErrNotFound
	}
	s := *r.current
	return &s, nil
}

func (r *sessionRepository) Save(_ context.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &s
	return nil
}

func (r *sessionRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
	return nil
}
