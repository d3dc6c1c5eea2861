package viewmodel

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/charts"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

const (
	ChartSpotsPie = "spotsPieChart"
	ChartLotsBar  = "lotsBarChart"
)

type AdminDashboardView struct {
	State           State                     `json:"state"`
	Error           string                    `json:"error,omitempty"`
	Cards           []domain.Card             `json:"cards"`
	Lots            []domain.Lot              `json:"lots"`
	Recent          []domain.AdminReservation `json:"recent_reservations"`
	AllReservations []domain.AdminReservation `json:"all_reservations"`
}

// AdminDashboard shows system-wide counts, lot occupancy and reservations.
// Its charts are drawn on the first successful load only; later refreshes
// update cards and tables but leave the charts as first drawn.
type AdminDashboard struct {
	base

	summary     *domain.AdminDashboard
	all         []domain.AdminReservation
	cards       []domain.Card
	chartsDrawn bool
}

func NewAdminDashboard(deps Deps) *AdminDashboard {
	return &AdminDashboard{base: newBase(PageAdminDashboard, domain.RoleAdmin, deps)}
}

func (vm *AdminDashboard) Mount(ctx context.Context) {
	if !vm.gate() {
		return
	}
	vm.load(ctx)
}

func (vm *AdminDashboard) Refresh(ctx context.Context) { vm.Mount(ctx) }

func (vm *AdminDashboard) GoToLotManagement() { vm.navigate(PageAdminLots) }

func (vm *AdminDashboard) load(ctx context.Context) {
	vm.setState(StateLoading, "")

	var (
		summary *domain.AdminDashboard
		all     []domain.AdminReservation
	)
	errs := join(ctx,
		func(ctx context.Context) (err error) {
			summary, err = vm.deps.Parking.AdminDashboard(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			all, err = vm.deps.Parking.AdminReservations(ctx)
			return err
		},
	)

	if err := errs[0]; err != nil {
		vm.log.Warn("loading admin dashboard", zap.Error(err))
		if isNetworkError(err) || isDecodeError(err) {
			vm.setState(StateFailed, failureText(err, "Failed to load dashboard data"))
			vm.render()
			return
		}
		vm.deps.Host.Alert("Failed to load dashboard data")
		vm.forceLogout(err.Error())
		return
	}
	if err := errs[1]; err != nil {
		if vm.rejected(err) {
			return
		}
		vm.log.Warn("loading reservations", zap.Error(err))
		all = nil
	}

	cards := adminCards(summary)
	vm.mu.Lock()
	vm.summary = summary
	vm.all = all
	vm.cards = cards
	vm.state = StateReady
	vm.err = ""
	draw := !vm.chartsDrawn
	vm.chartsDrawn = true
	vm.mu.Unlock()

	if draw {
		vm.deps.Charts.Draw(charts.Chart{
			ID:     ChartSpotsPie,
			Kind:   charts.KindPie,
			Series: charts.AvailabilityPie(summary.AvailableSpots, summary.OccupiedSpots),
		})
		vm.deps.Charts.Draw(charts.Chart{
			ID:     ChartLotsBar,
			Kind:   charts.KindBar,
			Series: charts.LotOccupancy(summary.Lots),
		})
	}
	vm.render()
}

func adminCards(d *domain.AdminDashboard) []domain.Card {
	return []domain.Card{
		{Title: "Total Lots", Value: strconv.Itoa(d.TotalLots)},
		{Title: "Total Spots", Value: strconv.Itoa(d.TotalSpots)},
		{Title: "Available", Value: strconv.Itoa(d.AvailableSpots)},
		{Title: "Occupied", Value: strconv.Itoa(d.OccupiedSpots)},
		{Title: "Total Users", Value: strconv.Itoa(d.TotalUsers)},
		{Title: "Revenue (₹)", Value: fmt.Sprintf("%.2f", d.TotalRevenue)},
	}
}

func (vm *AdminDashboard) View() AdminDashboardView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v := AdminDashboardView{
		State:           vm.state,
		Error:           vm.err,
		Cards:           append([]domain.Card(nil), vm.cards...),
		AllReservations: append([]domain.AdminReservation(nil), vm.all...),
	}
	if vm.summary != nil {
		v.Lots = append([]domain.Lot(nil), vm.summary.Lots...)
		v.Recent = append([]domain.AdminReservation(nil), vm.summary.Reservations...)
	}
	return v
}

func (vm *AdminDashboard) render() { vm.deps.Host.Render(vm.page, vm.View()) }
