package viewmodel

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

type LotManagementView struct {
	State   State          `json:"state"`
	Error   string         `json:"error,omitempty"`
	Lots    []domain.Lot   `json:"lots"`
	Form    domain.LotForm `json:"form"`
	Message string         `json:"message,omitempty"`
}

// LotManagement lists lots and lets an admin create, edit and delete them.
type LotManagement struct {
	base

	lots    []domain.Lot
	form    domain.LotForm
	message string
}

func NewLotManagement(deps Deps) *LotManagement {
	return &LotManagement{base: newBase(PageAdminLots, domain.RoleAdmin, deps)}
}

func (vm *LotManagement) Mount(ctx context.Context) {
	if !vm.gate() {
		return
	}
	vm.setState(StateLoading, "")
	if err := vm.fetchLots(ctx); err != nil {
		if vm.State() != StateUnauthorized {
			vm.setState(StateFailed, failureText(err, "Failed to load lots"))
			vm.render()
		}
		return
	}
	vm.setState(StateReady, "")
	vm.render()
}

func (vm *LotManagement) GoBack() { vm.navigate(PageAdminDashboard) }

// fetchLots replaces the list. On failure the list is left as it was.
func (vm *LotManagement) fetchLots(ctx context.Context) error {
	lots, err := vm.deps.Parking.AdminLots(ctx)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		vm.log.Warn("loading lots", zap.Error(err))
		vm.deps.Host.Alert("Failed to load lots")
		return err
	}
	vm.mu.Lock()
	vm.lots = lots
	vm.mu.Unlock()
	return nil
}

// AddLot validates form, creates the lot and refreshes the list. The form is
// kept on any failure so the admin can correct it.
func (vm *LotManagement) AddLot(ctx context.Context, form domain.LotForm) error {
	vm.mu.Lock()
	vm.form = form
	vm.mu.Unlock()

	in, err := ParseLotForm(form)
	if err != nil {
		vm.setMessage(err.Error())
		return err
	}

	resp, err := vm.deps.Parking.CreateLot(ctx, in)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		if isNetworkError(err) {
			vm.setMessage("Network error while adding lot")
		} else {
			vm.setMessage(failureText(err, "Something went wrong"))
		}
		return err
	}

	vm.mu.Lock()
	vm.form = domain.LotForm{}
	vm.message = resp.Message
	vm.mu.Unlock()
	vm.log.Info("lot created", zap.String("name", in.Name))
	_ = vm.fetchLots(ctx)
	vm.render()
	return nil
}

// UpdateLot sends the whole lot back to the server and reloads the list.
func (vm *LotManagement) UpdateLot(ctx context.Context, lot domain.Lot) error {
	resp, err := vm.deps.Parking.UpdateLot(ctx, lot)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		vm.setMessage(failureText(err, "Update failed"))
		return err
	}
	vm.setMessage(resp.Message)
	_ = vm.fetchLots(ctx)
	vm.render()
	return nil
}

func (vm *LotManagement) DeleteLot(ctx context.Context, id int) error {
	resp, err := vm.deps.Parking.DeleteLot(ctx, id)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		vm.setMessage(failureText(err, "Failed to delete lot"))
		return err
	}
	vm.setMessage(resp.Message)
	_ = vm.fetchLots(ctx)
	vm.render()
	return nil
}

func (vm *LotManagement) setMessage(msg string) {
	vm.mu.Lock()
	vm.message = msg
	vm.mu.Unlock()
	vm.render()
}

func (vm *LotManagement) View() LotManagementView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return LotManagementView{
		State:   vm.state,
		Error:   vm.err,
		Lots:    append([]domain.Lot(nil), vm.lots...),
		Form:    vm.form,
		Message: vm.message,
	}
}

func (vm *LotManagement) render() { vm.deps.Host.Render(vm.page, vm.View()) }

// ParseLotForm trims and converts the raw form. Name, address, price and total
// spots are required; pin code is optional.
func ParseLotForm(f domain.LotForm) (domain.LotInput, error) {
	name := strings.TrimSpace(f.Name)
	address := strings.TrimSpace(f.Address)
	price := strings.TrimSpace(f.Price)
	spots := strings.TrimSpace(f.TotalSpots)
	if name == "" || address == "" || price == "" || spots == "" {
		return domain.LotInput{}, &ValidationError{Message: "Please fill all required fields!"}
	}

	p, err := strconv.ParseFloat(price, 64)
	if err != nil || p < 0 {
		return domain.LotInput{}, &ValidationError{Field: "price", Message: "Price must be a non-negative number"}
	}
	n, err := strconv.Atoi(spots)
	if err != nil || n < 0 {
		return domain.LotInput{}, &ValidationError{Field: "total_spots", Message: "Total spots must be a whole number"}
	}

	return domain.LotInput{
		Name:       name,
		Address:    address,
		PinCode:    strings.TrimSpace(f.PinCode),
		Price:      p,
		TotalSpots: n,
	}, nil
}
