package viewmodel

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/charts"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

const (
	ChartLot      = "lotChart"
	ChartSpending = "spendingChart"
)

type UserDashboardView struct {
	State             State                      `json:"state"`
	Error             string                     `json:"error,omitempty"`
	Active            *domain.ActiveReservation  `json:"active_reservation"`
	TotalReservations int                        `json:"total_reservations"`
	TotalAmountSpent  float64                    `json:"total_amount_spent"`
	RecentHistory     []domain.RecentReservation `json:"recent_history"`
	PerLot            charts.Series              `json:"per_lot"`
	Spending          charts.Series              `json:"spending"`
}

// UserDashboard summarises a user's parking. Unlike the admin dashboard its
// charts are redrawn on every load.
type UserDashboard struct {
	base

	summary  *domain.UserDashboard
	perLot   charts.Series
	spending charts.Series
}

func NewUserDashboard(deps Deps) *UserDashboard {
	return &UserDashboard{base: newBase(PageUserDashboard, domain.RoleUser, deps)}
}

func (vm *UserDashboard) Mount(ctx context.Context) {
	if !vm.gate() {
		return
	}
	vm.load(ctx)
}

func (vm *UserDashboard) Refresh(ctx context.Context) { vm.Mount(ctx) }

func (vm *UserDashboard) GoToReserve() { vm.navigate(PageReserve) }
func (vm *UserDashboard) GoToHistory() { vm.navigate(PageUserHistory) }

func (vm *UserDashboard) load(ctx context.Context) {
	vm.setState(StateLoading, "")

	var (
		summary *domain.UserDashboard
		history []domain.HistoryEntry
	)
	errs := join(ctx,
		func(ctx context.Context) (err error) {
			summary, err = vm.deps.Parking.UserDashboard(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			history, err = vm.deps.Parking.UserHistory(ctx)
			return err
		},
	)

	if err := errs[0]; err != nil {
		vm.log.Warn("loading user dashboard", zap.Error(err))
		if isNetworkError(err) || isDecodeError(err) {
			vm.setState(StateFailed, failureText(err, "Failed to load user dashboard"))
			vm.render()
			return
		}
		vm.deps.Host.Alert("Session Expired! Failed to load user dashboard")
		vm.forceLogout(err.Error())
		return
	}
	if err := errs[1]; err != nil {
		if vm.rejected(err) {
			return
		}
		vm.log.Warn("loading history for charts", zap.Error(err))
		history = nil
	}

	perLot := charts.ReservationsPerLot(history)
	spending := charts.MonthlySpending(history)

	vm.mu.Lock()
	vm.summary = summary
	vm.perLot = perLot
	vm.spending = spending
	vm.state, vm.err = StateReady, ""
	vm.mu.Unlock()

	vm.deps.Charts.Draw(charts.Chart{ID: ChartLot, Kind: charts.KindBar, Series: perLot})
	vm.deps.Charts.Draw(charts.Chart{ID: ChartSpending, Kind: charts.KindLine, Series: spending})
	vm.render()
}

// Release frees the active spot from the dashboard and reloads it.
func (vm *UserDashboard) Release(ctx context.Context) error {
	resp, err := vm.deps.Parking.Release(ctx)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		vm.deps.Host.Alert(failureText(err, "Failed to release spot"))
		return err
	}
	vm.deps.Host.Alert(fmt.Sprintf("Spot released! Cost: ₹%s", formatAmount(resp.Cost.Float64)))
	vm.load(ctx)
	return nil
}

func (vm *UserDashboard) View() UserDashboardView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v := UserDashboardView{
		State:    vm.state,
		Error:    vm.err,
		PerLot:   vm.perLot,
		Spending: vm.spending,
	}
	if s := vm.summary; s != nil {
		v.Active = s.ActiveReservation
		v.TotalReservations = s.TotalReservations
		v.TotalAmountSpent = s.TotalAmountSpent
		v.RecentHistory = append([]domain.RecentReservation(nil), s.RecentHistory...)
	}
	return v
}

func (vm *UserDashboard) render() { vm.deps.Host.Render(vm.page, vm.View()) }
