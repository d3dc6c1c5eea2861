// Package dashboard runs the page view-models as one browsing session: it is
// the Host the pages navigate, alert and render through, and it keeps the
// latest view of each page for the HTTP server and the CLI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/charts"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

var ErrUnknownPage = errors.New("unknown page")

// Notifier receives every view change as it happens.
type Notifier interface {
	Notify(n domain.ViewNotification)
}

type page interface {
	Page() vm.Page
	State() vm.State
	Mount(ctx context.Context)
	Logout()
}

// chartIDs lists the charts shown on each page.
var chartIDs = map[vm.Page][]string{
	vm.PageAdminDashboard: {vm.ChartSpotsPie, vm.ChartLotsBar},
	vm.PageUserDashboard:  {vm.ChartLot, vm.ChartSpending},
}

// Snapshot is what a page currently shows.
type Snapshot struct {
	Page   vm.Page        `json:"page"`
	State  vm.State       `json:"state"`
	View   any            `json:"view"`
	Alerts []string       `json:"alerts"`
	Charts []charts.Chart `json:"charts"`
}

type App struct {
	deps     vm.Deps
	board    *charts.Board
	clock    clock.Clock
	notifier Notifier
	logger   *zap.Logger

	// actions serializes page lifecycles and user actions, like a UI thread.
	actions sync.Mutex

	mu       sync.Mutex
	location vm.Page
	pages    map[vm.Page]page
	views    map[vm.Page]any
	alerts   []string
}

// New builds an App. deps.Host and deps.Charts are replaced by the App itself
// and its chart board; notifier may be nil.
func New(deps vm.Deps, notifier Notifier) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	a := &App{
		board:    charts.NewBoard(),
		clock:    deps.Clock,
		notifier: notifier,
		logger:   deps.Logger.With(zap.String("component", "dashboard")),
		location: vm.PageLogin,
		pages:    map[vm.Page]page{},
		views:    map[vm.Page]any{},
	}
	deps.Host = a
	deps.Charts = a.board
	a.deps = deps
	a.board.OnDraw(func(c charts.Chart) {
		a.notify(domain.NotificationChart, "", c)
	})
	return a
}

// ParsePage validates a page name.
func ParsePage(name string) (vm.Page, error) {
	p := vm.Page(name)
	switch p {
	case vm.PageLogin, vm.PageRegister, vm.PageAdminDashboard, vm.PageAdminLots,
		vm.PageReserve, vm.PageUserDashboard, vm.PageUserHistory:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, name)
}

func (a *App) newPage(p vm.Page) page {
	switch p {
	case vm.PageLogin:
		return vm.NewLogin(a.deps)
	case vm.PageRegister:
		return vm.NewRegister(a.deps)
	case vm.PageAdminDashboard:
		return vm.NewAdminDashboard(a.deps)
	case vm.PageAdminLots:
		return vm.NewLotManagement(a.deps)
	case vm.PageReserve:
		return vm.NewReserve(a.deps)
	case vm.PageUserDashboard:
		return vm.NewUserDashboard(a.deps)
	case vm.PageUserHistory:
		return vm.NewUserHistory(a.deps)
	}
	return nil
}

// Open loads p afresh, the way following a link does, and returns where the
// dashboard ended up. A denied page leaves the dashboard on the login page.
func (a *App) Open(ctx context.Context, p vm.Page) vm.Page {
	a.actions.Lock()
	defer a.actions.Unlock()
	return a.open(ctx, p)
}

func (a *App) open(ctx context.Context, p vm.Page) vm.Page {
	pg := a.newPage(p)
	a.mu.Lock()
	a.location = p
	a.pages[p] = pg
	delete(a.views, p)
	a.mu.Unlock()

	a.logger.Debug("opening page", zap.String("page", string(p)))
	pg.Mount(ctx)
	return a.Location()
}

// Do runs fn against the page instance for p, opening p first if it has not
// been loaded yet. fn is skipped when the page refuses access.
func (a *App) Do(ctx context.Context, p vm.Page, fn func(page any) error) (vm.Page, error) {
	a.actions.Lock()
	defer a.actions.Unlock()

	a.mu.Lock()
	pg, ok := a.pages[p]
	a.mu.Unlock()
	if !ok {
		if to := a.open(ctx, p); to != p {
			return to, nil
		}
		a.mu.Lock()
		pg = a.pages[p]
		a.mu.Unlock()
	}
	if pg.State() == vm.StateUnauthorized {
		a.Navigate(vm.PageLogin)
		return vm.PageLogin, nil
	}

	a.mu.Lock()
	a.location = p
	a.mu.Unlock()
	err := fn(pg)
	return a.Location(), err
}

// Logout ends the session from page p.
func (a *App) Logout(p vm.Page) {
	a.actions.Lock()
	defer a.actions.Unlock()
	a.mu.Lock()
	pg, ok := a.pages[p]
	a.mu.Unlock()
	if !ok {
		pg = a.newPage(p)
	}
	pg.Logout()
	a.mu.Lock()
	a.pages = map[vm.Page]page{}
	a.views = map[vm.Page]any{}
	a.mu.Unlock()
}

func (a *App) Location() vm.Page {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

// Snapshot returns what p shows now and drains pending alerts.
func (a *App) Snapshot(p vm.Page) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := Snapshot{
		Page:   p,
		State:  vm.StateIdle,
		View:   a.views[p],
		Alerts: a.alerts,
		Charts: a.board.Charts(chartIDs[p]...),
	}
	if pg, ok := a.pages[p]; ok {
		s.State = pg.State()
	}
	if s.Alerts == nil {
		s.Alerts = []string{}
	}
	a.alerts = nil
	return s
}

// Navigate implements viewmodel.Host.
func (a *App) Navigate(to vm.Page) {
	a.mu.Lock()
	a.location = to
	a.mu.Unlock()
	a.notify(domain.NotificationNavigate, string(to), nil)
}

// Alert implements viewmodel.Host.
func (a *App) Alert(msg string) {
	a.mu.Lock()
	a.alerts = append(a.alerts, msg)
	a.mu.Unlock()
	a.logger.Info("alert", zap.String("message", msg))
	a.notify(domain.NotificationAlert, "", msg)
}

// Render implements viewmodel.Host.
func (a *App) Render(p vm.Page, view any) {
	a.mu.Lock()
	a.views[p] = view
	a.mu.Unlock()
	a.notify(domain.NotificationRender, string(p), view)
}

func (a *App) notify(t domain.NotificationType, p string, payload any) {
	if a.notifier == nil {
		return
	}
	a.notifier.Notify(domain.ViewNotification{
		Type:      t,
		Page:      p,
		Payload:   payload,
		Timestamp: a.clock.Now().UTC().Truncate(time.Millisecond),
	})
}
