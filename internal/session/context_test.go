package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository/memory"
)

type brokenRepo struct{ repository.SessionRepository }

func (brokenRepo) Load(context.Context) (*domain.Session, error) {
	return nil, errors.New("disk on fire")
}

func TestAuthorize(t *testing.T) {
	sess := New(context.Background(), memory.NewSessionRepository(), zap.NewNop())

	assert.ErrorIs(t, sess.Authorize(domain.RoleUser), ErrNoSession)

	require.NoError(t, sess.Set(domain.Session{Token: "t", Role: domain.RoleUser, Username: "alice"}))
	assert.NoError(t, sess.Authorize(domain.RoleUser))
	assert.ErrorIs(t, sess.Authorize(domain.RoleAdmin), ErrRoleMismatch)
}

func TestSetRejectsPartialSession(t *testing.T) {
	sess := New(context.Background(), memory.NewSessionRepository(), zap.NewNop())

	err := sess.Set(domain.Session{Token: "t", Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrNoSession)
	_, ok := sess.Get()
	assert.False(t, ok)
}

func TestNewRestoresStoredSession(t *testing.T) {
	repo := memory.NewSessionRepository()
	stored := domain.Session{Token: "persisted", Role: domain.RoleAdmin, Username: "root"}
	require.NoError(t, repo.Save(context.Background(), stored))

	sess := New(context.Background(), repo, zap.NewNop())

	got, ok := sess.Get()
	require.True(t, ok)
	assert.Equal(t, stored, got)
	tok, ok := sess.Token()
	assert.True(t, ok)
	assert.Equal(t, "persisted", tok)
}

func TestNewWithUnreadableStoreStartsLoggedOut(t *testing.T) {
	sess := New(context.Background(), brokenRepo{}, zap.NewNop())

	_, ok := sess.Get()
	assert.False(t, ok)
}

func TestInvalidateClearsStore(t *testing.T) {
	repo := memory.NewSessionRepository()
	sess := New(context.Background(), repo, zap.NewNop())
	require.NoError(t, sess.Set(domain.Session{Token: "t", Role: domain.RoleUser, Username: "alice"}))

	sess.Invalidate("401 from /user/dashboard")

	_, ok := sess.Get()
	assert.False(t, ok)
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
