package viewmodel

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

type ReserveView struct {
	State      State                     `json:"state"`
	Error      string                    `json:"error,omitempty"`
	Lots       []domain.Lot              `json:"lots"`
	Active     *domain.ActiveReservation `json:"active_reservation"`
	CanReserve bool                      `json:"can_reserve"`
	Message    string                    `json:"message,omitempty"`
	LastCost   null.Float                `json:"last_cost"`
}

// Reserve is the user's booking page: available lots plus the spot the user
// currently holds, if any.
type Reserve struct {
	base

	lots     []domain.Lot
	active   *domain.ActiveReservation
	lastCost null.Float
	msg      flash
}

func NewReserve(deps Deps) *Reserve {
	return &Reserve{base: newBase(PageReserve, domain.RoleUser, deps)}
}

func (vm *Reserve) Mount(ctx context.Context) {
	if !vm.gate() {
		return
	}
	vm.setState(StateLoading, "")
	vm.load(ctx)
}

func (vm *Reserve) GoBack() { vm.navigate(PageUserDashboard) }

// load re-fetches lots and the active reservation together.
func (vm *Reserve) load(ctx context.Context) {
	var (
		lots []domain.Lot
		dash *domain.UserDashboard
	)
	errs := join(ctx,
		func(ctx context.Context) (err error) {
			lots, err = vm.deps.Parking.UserLots(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			dash, err = vm.deps.Parking.UserDashboard(ctx)
			return err
		},
	)
	for _, err := range errs {
		if err != nil && vm.rejected(err) {
			return
		}
	}

	vm.mu.Lock()
	var failed string
	if errs[0] == nil {
		vm.lots = lots
	} else {
		vm.log.Warn("loading lots", zap.Error(errs[0]))
		failed = failureText(errs[0], "Failed to load lots")
	}
	if errs[1] == nil {
		vm.active = dash.ActiveReservation
	} else {
		vm.log.Warn("loading active reservation", zap.Error(errs[1]))
		if failed == "" {
			failed = failureText(errs[1], "Failed to load active reservation")
		}
	}
	if failed != "" {
		vm.state, vm.err = StateFailed, failed
	} else {
		vm.state, vm.err = StateReady, ""
	}
	vm.mu.Unlock()
	vm.render()
}

func (vm *Reserve) fetchLots(ctx context.Context) {
	lots, err := vm.deps.Parking.UserLots(ctx)
	if err != nil {
		if !vm.rejected(err) {
			vm.log.Warn("refreshing lots", zap.Error(err))
		}
		return
	}
	vm.mu.Lock()
	vm.lots = lots
	vm.mu.Unlock()
}

// CanReserve reports whether the user holds no spot. It only drives the UI;
// the server is the one that refuses a second reservation.
func (vm *Reserve) CanReserve() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.active == nil
}

func (vm *Reserve) Active() *domain.ActiveReservation {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.active
}

// LastCost is the cost of the most recent release, as returned by the server.
func (vm *Reserve) LastCost() null.Float {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lastCost
}

func (vm *Reserve) Reserve(ctx context.Context, lotID int) error {
	resp, err := vm.deps.Parking.Reserve(ctx, lotID)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		vm.flash(failureText(err, "Failed to reserve spot"))
		return err
	}
	vm.log.Info("spot reserved", zap.Int("lot_id", lotID), zap.Int("spot_id", resp.SpotID))
	vm.flash(fmt.Sprintf("Reservation successful! Spot ID: %d", resp.SpotID))
	vm.load(ctx)
	return nil
}

// Release frees the active spot. The active reservation is dropped locally
// without re-fetching it.
func (vm *Reserve) Release(ctx context.Context) error {
	resp, err := vm.deps.Parking.Release(ctx)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		vm.flash(failureText(err, "Failed to release spot"))
		return err
	}
	msg := fmt.Sprintf("Spot released! Cost ₹%s", formatAmount(resp.Cost.Float64))
	vm.mu.Lock()
	vm.active = nil
	vm.lastCost = resp.Cost
	vm.mu.Unlock()
	vm.flash(msg)
	vm.deps.Host.Alert(msg)
	vm.fetchLots(ctx)
	vm.render()
	return nil
}

func (vm *Reserve) flash(msg string) {
	vm.msg.set(vm.deps.Clock, vm.deps.MessageTTL, msg, vm.render)
	vm.render()
}

func (vm *Reserve) Message() string { return vm.msg.get() }

func (vm *Reserve) View() ReserveView {
	msg := vm.msg.get()
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return ReserveView{
		State:      vm.state,
		Error:      vm.err,
		Lots:       append([]domain.Lot(nil), vm.lots...),
		Active:     vm.active,
		CanReserve: vm.active == nil,
		Message:    msg,
		LastCost:   vm.lastCost,
	}
}

func (vm *Reserve) render() { vm.deps.Host.Render(vm.page, vm.View()) }
