package viewmodel

import (
	"context"

	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

type UserHistoryView struct {
	State         State                 `json:"state"`
	Error         string                `json:"error,omitempty"`
	History       []domain.HistoryEntry `json:"history"`
	ExportMessage string                `json:"export_message,omitempty"`
}

type UserHistory struct {
	base

	history       []domain.HistoryEntry
	exportMessage string
}

func NewUserHistory(deps Deps) *UserHistory {
	return &UserHistory{base: newBase(PageUserHistory, domain.RoleUser, deps)}
}

func (vm *UserHistory) Mount(ctx context.Context) {
	if !vm.gate() {
		return
	}
	vm.setState(StateLoading, "")
	history, err := vm.deps.Parking.UserHistory(ctx)
	if err != nil {
		if vm.rejected(err) {
			return
		}
		vm.log.Warn("loading history", zap.Error(err))
		vm.setState(StateFailed, failureText(err, "Failed to load history"))
		vm.render()
		return
	}
	vm.mu.Lock()
	vm.history = history
	vm.state, vm.err = StateReady, ""
	vm.mu.Unlock()
	vm.render()
}

func (vm *UserHistory) GoBack() { vm.navigate(PageUserDashboard) }

// Export asks the server to queue a CSV export and alerts its reply.
func (vm *UserHistory) Export(ctx context.Context) error {
	resp, err := vm.deps.Parking.Export(ctx)
	if err != nil {
		if vm.rejected(err) {
			return err
		}
		msg := "Error exporting CSV"
		if !isNetworkError(err) && !isDecodeError(err) {
			msg = failureText(err, msg)
		}
		vm.deps.Host.Alert(msg)
		return err
	}
	vm.mu.Lock()
	vm.exportMessage = resp.Message
	vm.mu.Unlock()
	vm.deps.Host.Alert(resp.Message)
	vm.render()
	return nil
}

func (vm *UserHistory) View() UserHistoryView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return UserHistoryView{
		State:         vm.state,
		Error:         vm.err,
		History:       append([]domain.HistoryEntry(nil), vm.history...),
		ExportMessage: vm.exportMessage,
	}
}

func (vm *UserHistory) render() { vm.deps.Host.Render(vm.page, vm.View()) }
