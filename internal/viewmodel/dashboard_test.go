package viewmodel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

func TestAdminDashboardCardsAndCharts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLot(t, "North", 10, 2)
	f.seedLot(t, "South", 20, 3)
	f.loginUser(t, "alice")
	_, err := f.deps.Parking.Reserve(ctx, 1)
	require.NoError(t, err)
	f.loginAdmin(t)

	vm := NewAdminDashboard(f.deps)
	vm.Mount(ctx)
	require.Equal(t, StateReady, vm.State())

	v := vm.View()
	assert.Equal(t, []domain.Card{
		{Title: "Total Lots", Value: "2"},
		{Title: "Total Spots", Value: "5"},
		{Title: "Available", Value: "4"},
		{Title: "Occupied", Value: "1"},
		{Title: "Total Users", Value: "1"},
		{Title: "Revenue (₹)", Value: "0.00"},
	}, v.Cards)
	assert.Len(t, v.Lots, 2)
	assert.Len(t, v.AllReservations, 1)
	assert.Equal(t, "alice", v.AllReservations[0].Username)

	pie, ok := f.board.Chart(ChartSpotsPie)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"Available": 4, "Occupied": 1}, pie.Series.Map())
	bar, ok := f.board.Chart(ChartLotsBar)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"North": 1, "South": 0}, bar.Series.Map())
}

func TestAdminDashboardRefreshIsIdempotentAndDrawsChartsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLot(t, "North", 10, 2)
	f.loginAdmin(t)

	vm := NewAdminDashboard(f.deps)
	vm.Mount(ctx)
	first := vm.View()
	vm.Refresh(ctx)
	second := vm.View()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.board.Draws(ChartSpotsPie))
	assert.Equal(t, 1, f.board.Draws(ChartLotsBar))

	// Charts stay as first drawn even when the data behind them changes.
	f.seedLot(t, "South", 5, 4)
	vm.Refresh(ctx)
	assert.Equal(t, "2", vm.View().Cards[0].Value)
	bar, _ := f.board.Chart(ChartLotsBar)
	assert.Equal(t, 1, bar.Series.Len())
}

func TestAdminDashboardRejectedTokenForcesLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loginAdmin(t)
	f.backendClk.Add(25 * time.Hour)

	vm := NewAdminDashboard(f.deps)
	vm.Mount(ctx)

	assert.Equal(t, StateUnauthorized, vm.State())
	assert.Contains(t, f.host.Alerts(), "Failed to load dashboard data")
	assert.Equal(t, PageLogin, f.host.LastNavigation())
	_, ok := f.session.Get()
	assert.False(t, ok)
}

func TestAdminDashboardMalformedBodyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_lots": 1}`))
	}))
	defer srv.Close()

	f := newFixture(t)
	f.loginAdmin(t)
	vm := NewAdminDashboard(f.depsFor(srv.URL))

	require.NotPanics(t, func() { vm.Mount(context.Background()) })
	assert.Equal(t, StateFailed, vm.State())
	assert.Equal(t, "Unexpected response from server", vm.View().Error)
	_, ok := f.session.Get()
	assert.True(t, ok, "a malformed reply must not end the session")
}

func TestAdminDashboardNetworkErrorKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.loginAdmin(t)
	vm := NewAdminDashboard(f.depsFor("http://127.0.0.1:1"))

	vm.Mount(context.Background())
	assert.Equal(t, StateFailed, vm.State())
	assert.Equal(t, "Error connecting to server", vm.View().Error)
	_, ok := f.session.Get()
	assert.True(t, ok)
}

func TestUserDashboardRedrawsChartsEveryLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLot(t, "North", 10, 2)
	f.loginUser(t, "alice")

	_, err := f.deps.Parking.Reserve(ctx, 1)
	require.NoError(t, err)
	f.backendClk.Add(2 * time.Hour)
	_, err = f.deps.Parking.Release(ctx)
	require.NoError(t, err)

	vm := NewUserDashboard(f.deps)
	vm.Mount(ctx)
	require.Equal(t, StateReady, vm.State())
	first := vm.View()

	assert.Equal(t, 1, first.TotalReservations)
	assert.InDelta(t, 20.0, first.TotalAmountSpent, 0.001)
	assert.Nil(t, first.Active)
	assert.Equal(t, map[string]float64{"North": 1}, first.PerLot.Map())
	assert.Equal(t, map[string]float64{"Jan": 20}, first.Spending.Map())

	vm.Refresh(ctx)
	assert.Equal(t, first, vm.View())
	assert.Equal(t, 2, f.board.Draws(ChartLot))
	assert.Equal(t, 2, f.board.Draws(ChartSpending))
}

func TestUserDashboardRejectedTokenForcesLogout(t *testing.T) {
	f := newFixture(t)
	f.loginUser(t, "alice")
	f.backendClk.Add(25 * time.Hour)

	vm := NewUserDashboard(f.deps)
	vm.Mount(context.Background())

	assert.Equal(t, StateUnauthorized, vm.State())
	assert.Contains(t, f.host.Alerts(), "Session Expired! Failed to load user dashboard")
	assert.Equal(t, PageLogin, f.host.LastNavigation())
	_, ok := f.session.Get()
	assert.False(t, ok)
}

func TestUserDashboardRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLot(t, "North", 4, 1)
	f.loginUser(t, "alice")
	_, err := f.deps.Parking.Reserve(ctx, 1)
	require.NoError(t, err)

	vm := NewUserDashboard(f.deps)
	vm.Mount(ctx)
	require.NotNil(t, vm.View().Active)

	f.backendClk.Add(90 * time.Minute)
	require.NoError(t, vm.Release(ctx))
	assert.Contains(t, f.host.Alerts(), "Spot released! Cost: ₹6")
	assert.Nil(t, vm.View().Active)

	require.Error(t, vm.Release(ctx))
	assert.Contains(t, f.host.Alerts(), "No active reservation found.")
}
