package viewmodel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHistoryAndExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLot(t, "North", 10, 1)
	f.loginUser(t, "alice")
	_, err := f.deps.Parking.Reserve(ctx, 1)
	require.NoError(t, err)

	vm := NewUserHistory(f.deps)
	vm.Mount(ctx)
	require.Equal(t, StateReady, vm.State())
	h := vm.View().History
	require.Len(t, h, 1)
	assert.Equal(t, "North", h[0].LotName)
	assert.False(t, h[0].Cost.Valid)
	assert.False(t, h[0].LeavingTime.Valid)

	require.NoError(t, vm.Export(ctx))
	assert.Contains(t, f.host.Alerts(), "Your CSV export is being processed. You'll receive it via email.")
}

func TestUserHistoryExportNetworkError(t *testing.T) {
	f := newFixture(t)
	f.loginUser(t, "alice")
	vm := NewUserHistory(f.depsFor("http://127.0.0.1:1"))

	require.Error(t, vm.Export(context.Background()))
	assert.Equal(t, []string{"Error exporting CSV"}, f.host.Alerts())
}

func TestUserHistoryRejectedToken(t *testing.T) {
	f := newFixture(t)
	f.loginUser(t, "alice")
	f.backendClk.Add(48 * time.Hour)

	vm := NewUserHistory(f.deps)
	vm.Mount(context.Background())
	assert.Equal(t, StateUnauthorized, vm.State())
	_, ok := f.session.Get()
	assert.False(t, ok)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(""))
	assert.Equal(t, "not a time", FormatTime("not a time"))
	assert.NotEqual(t, "-", FormatTime("Fri, 05 Jan 2024 09:00:00 GMT"))
}
