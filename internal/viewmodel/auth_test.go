package viewmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

func TestLoginNavigatesByRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		f := newFixture(t)
		vm := NewLogin(f.deps)
		vm.Mount(ctx)

		require.NoError(t, vm.Login(ctx, "admin", "admin-pw"))

		s, ok := f.session.Get()
		require.True(t, ok)
		assert.Equal(t, domain.RoleAdmin, s.Role)
		assert.Equal(t, "admin", s.Username)
		assert.NotEmpty(t, s.Token)
		assert.Equal(t, PageAdminDashboard, f.host.LastNavigation())
	})

	t.Run("user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.deps.Auth.Register(ctx, domain.Credentials{Username: "alice", Password: "pw"})
		require.NoError(t, err)

		vm := NewLogin(f.deps)
		require.NoError(t, vm.Login(ctx, "alice", "pw"))

		s, ok := f.session.Get()
		require.True(t, ok)
		assert.Equal(t, domain.RoleUser, s.Role)
		assert.Equal(t, PageUserDashboard, f.host.LastNavigation())
	})
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	vm := NewLogin(f.deps)

	before := f.backend.Requests()
	err := vm.Login(ctx, "  ", "pw")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please fill all fields!", vm.View().Error)
	assert.Equal(t, before, f.backend.Requests())

	require.Error(t, vm.Login(ctx, "admin", "wrong"))
	assert.Equal(t, "Invalid credentials", vm.View().Error)
	_, ok := f.session.Get()
	assert.False(t, ok)
	assert.Empty(t, f.host.Navigations())
}

func TestLoginNetworkError(t *testing.T) {
	f := newFixture(t)
	vm := NewLogin(f.depsFor("http://127.0.0.1:1"))

	require.Error(t, vm.Login(context.Background(), "admin", "admin-pw"))
	assert.Equal(t, "Error connecting to server", vm.View().Error)
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	vm := NewRegister(f.deps)

	require.NoError(t, vm.Register(ctx, "bob", "pw"))
	v := vm.View()
	assert.Equal(t, "User registered successfully", v.Success)
	assert.Empty(t, v.Error)
	assert.Empty(t, v.Username)
	_, ok := f.session.Get()
	assert.False(t, ok)

	require.Error(t, vm.Register(ctx, "bob", "pw"))
	v = vm.View()
	assert.Equal(t, "Username already taken!", v.Error)
	assert.Empty(t, v.Success)
	assert.Equal(t, "bob", v.Username)
}
