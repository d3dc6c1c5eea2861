package viewmodel

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

type LoginView struct {
	State    State  `json:"state"`
	Username string `json:"username"`
	Error    string `json:"error,omitempty"`
}

type Login struct {
	base

	username string
	errMsg   string
}

func NewLogin(deps Deps) *Login {
	return &Login{base: newBase(PageLogin, "", deps)}
}

func (vm *Login) Mount(context.Context) {
	vm.setState(StateReady, "")
	vm.render()
}

func (vm *Login) GoToRegister() { vm.navigate(PageRegister) }

// Login authenticates, stores the session and navigates by role: admins to
// the admin dashboard, every other role to the user dashboard.
func (vm *Login) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	vm.mu.Lock()
	vm.username = username
	vm.mu.Unlock()
	if username == "" || password == "" {
		err := &ValidationError{Message: "Please fill all fields!"}
		vm.setError(err.Error())
		return err
	}

	resp, err := vm.deps.Auth.Login(ctx, domain.Credentials{Username: username, Password: password})
	if err != nil {
		vm.log.Info("login failed", zap.String("username", username), zap.Error(err))
		vm.setError(failureText(err, "Login failed"))
		return err
	}
	if err := vm.deps.Session.Set(resp.Session()); err != nil {
		vm.setError("Login failed")
		return err
	}
	vm.setError("")

	if resp.Role == domain.RoleAdmin {
		vm.navigate(PageAdminDashboard)
	} else {
		vm.navigate(PageUserDashboard)
	}
	return nil
}

func (vm *Login) setError(msg string) {
	vm.mu.Lock()
	vm.errMsg = msg
	vm.mu.Unlock()
	vm.render()
}

func (vm *Login) View() LoginView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return LoginView{State: vm.state, Username: vm.username, Error: vm.errMsg}
}

func (vm *Login) render() { vm.deps.Host.Render(vm.page, vm.View()) }

type RegisterView struct {
	State    State  `json:"state"`
	Username string `json:"username"`
	Error    string `json:"error,omitempty"`
	Success  string `json:"success,omitempty"`
}

// Register creates an account. It never logs the new user in.
type Register struct {
	base

	username string
	errMsg   string
	success  string
}

func NewRegister(deps Deps) *Register {
	return &Register{base: newBase(PageRegister, "", deps)}
}

func (vm *Register) Mount(context.Context) {
	vm.setState(StateReady, "")
	vm.render()
}

func (vm *Register) GoToLogin() { vm.navigate(PageLogin) }

func (vm *Register) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		err := &ValidationError{Message: "Please fill all fields!"}
		vm.set(username, err.Error(), "")
		return err
	}

	resp, err := vm.deps.Auth.Register(ctx, domain.Credentials{Username: username, Password: password})
	if err != nil {
		vm.set(username, failureText(err, "Registration failed"), "")
		return err
	}
	vm.log.Info("registered", zap.String("username", username))
	vm.set("", "", resp.Message)
	return nil
}

func (vm *Register) set(username, errMsg, success string) {
	vm.mu.Lock()
	vm.username, vm.errMsg, vm.success = username, errMsg, success
	vm.mu.Unlock()
	vm.render()
}

func (vm *Register) View() RegisterView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return RegisterView{State: vm.state, Username: vm.username, Error: vm.errMsg, Success: vm.success}
}

func (vm *Register) render() { vm.deps.Host.Render(vm.page, vm.View()) }
