package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository"
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrRoleMismatch = errors.New("session role does not match the page")
)

// Context is the session handle injected into every page. It caches the stored
// session in memory and writes through to the repository on Set and Clear.
type Context struct {
	repo   repository.SessionRepository
	logger *zap.Logger

	mu      sync.RWMutex
	current *domain.Session
}

// New loads any stored session from repo. A partial or unreadable stored
// session starts the Context logged out.
func New(ctx context.Context, repo repository.SessionRepository, logger *zap.Logger) *Context {
	c := &Context{repo: repo, logger: logger.With(zap.String("component", "session"))}
	s, err := repo.Load(ctx)
	switch {
	case err == nil && s.Valid():
		c.current = s
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		c.logger.Warn("could not read stored session", zap.Error(err))
	}
	return c
}

func (c *Context) Get() (domain.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return domain.Session{}, false
	}
	return *c.current, true
}

func (c *Context) Set(s domain.Session) error {
	if !s.Valid() {
		return fmt.Errorf("%w: token, role and username are all required", ErrNoSession)
	}
	if err := c.repo.Save(context.Background(), s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	c.mu.Lock()
	c.current = &s
	c.mu.Unlock()
	c.logger.Info("session started", zap.String("username", s.Username), zap.String("role", string(s.Role)))
	return nil
}

func (c *Context) Clear() error {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
	if err := c.repo.Clear(context.Background()); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Invalidate drops the session after the server rejected it.
func (c *Context) Invalidate(reason string) {
	if err := c.Clear(); err != nil {
		c.logger.Error("failed to clear invalid session", zap.Error(err))
	}
	c.logger.Info("session invalidated", zap.String("reason", reason))
}

// Token implements the API client's token source.
func (c *Context) Token() (string, bool) {
	s, ok := c.Get()
	return s.Token, ok
}

// Authorize is the access gate: it only checks that a session exists and carries
// the required role. Token authenticity is left to the server.
func (c *Context) Authorize(required domain.Role) error {
	s, ok := c.Get()
	if !ok {
		return ErrNoSession
	}
	if s.Role != required {
		return fmt.Errorf("%w: have %q, need %q", ErrRoleMismatch, s.Role, required)
	}
	return nil
}
