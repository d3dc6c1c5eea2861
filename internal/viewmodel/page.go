// Package viewmodel holds one view-model per dashboard page. Each page checks
// the session against its required role, loads its data through the parking
// API, derives what it displays and exposes the user's actions.
package viewmodel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rathinsam/Vehicle-Parking-app/internal/apiclient"
	"github.com/rathinsam/Vehicle-Parking-app/internal/charts"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	"github.com/rathinsam/Vehicle-Parking-app/internal/session"
)

// DefaultMessageTTL is how long transient page messages stay visible.
const DefaultMessageTTL = 3 * time.Second

type Page string

const (
	PageLogin          Page = "login"
	PageRegister       Page = "register"
	PageAdminDashboard Page = "admin_dashboard"
	PageAdminLots      Page = "admin_lots"
	PageReserve        Page = "reserve"
	PageUserDashboard  Page = "user_dashboard"
	PageUserHistory    Page = "user_history"
)

// State is where a page is in its lifecycle:
// Idle -> Unauthorized, or Idle -> Loading -> Ready | Failed.
type State string

const (
	StateIdle         State = "idle"
	StateUnauthorized State = "unauthorized"
	StateLoading      State = "loading"
	StateReady        State = "ready"
	StateFailed       State = "failed"
)

// Host is the environment a page lives in: navigation, blocking user alerts,
// and the sink that receives every re-rendered view. Implementations must be
// safe for concurrent use.
type Host interface {
	Navigate(to Page)
	Alert(msg string)
	Render(page Page, view any)
}

type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error)
	Register(ctx context.Context, creds domain.Credentials) (*domain.MessageResponse, error)
}

type ParkingAPI interface {
	AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error)
	AdminReservations(ctx context.Context) ([]domain.AdminReservation, error)
	AdminLots(ctx context.Context) ([]domain.Lot, error)
	CreateLot(ctx context.Context, in domain.LotInput) (*domain.MessageResponse, error)
	UpdateLot(ctx context.Context, lot domain.Lot) (*domain.MessageResponse, error)
	DeleteLot(ctx context.Context, id int) (*domain.MessageResponse, error)
	UserLots(ctx context.Context) ([]domain.Lot, error)
	UserDashboard(ctx context.Context) (*domain.UserDashboard, error)
	Reserve(ctx context.Context, lotID int) (*domain.ReserveResponse, error)
	Release(ctx context.Context) (*domain.ReleaseResponse, error)
	UserHistory(ctx context.Context) ([]domain.HistoryEntry, error)
	Export(ctx context.Context) (*domain.MessageResponse, error)
}

// Deps is everything a page is constructed with.
type Deps struct {
	Session    *session.Context
	Auth       AuthAPI
	Parking    ParkingAPI
	Host       Host
	Charts     charts.Renderer
	Clock      clock.Clock
	MessageTTL time.Duration
	Logger     *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.New()
	}
	if d.MessageTTL <= 0 {
		d.MessageTTL = DefaultMessageTTL
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Charts == nil {
		d.Charts = charts.NewBoard()
	}
	return d
}

// base carries the lifecycle shared by all pages.
type base struct {
	page Page
	role domain.Role // empty for pages without an access gate
	deps Deps
	log  *zap.Logger

	mu    sync.Mutex
	state State
	err   string
}

func newBase(page Page, role domain.Role, deps Deps) base {
	deps = deps.withDefaults()
	return base{
		page:  page,
		role:  role,
		deps:  deps,
		log:   deps.Logger.With(zap.String("page", string(page))),
		state: StateIdle,
	}
}

func (b *base) Page() Page { return b.page }

func (b *base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *base) setState(s State, errMsg string) {
	b.mu.Lock()
	b.state = s
	b.err = errMsg
	b.mu.Unlock()
}

// gate is the access check every gated page runs before touching the network.
// A denied page alerts, redirects to login and stays Unauthorized.
func (b *base) gate() bool {
	if b.role == "" {
		return true
	}
	if err := b.deps.Session.Authorize(b.role); err != nil {
		b.log.Info("access denied", zap.Error(err))
		b.setState(StateUnauthorized, "")
		b.deps.Host.Alert("Access denied!")
		b.deps.Host.Navigate(PageLogin)
		return false
	}
	return true
}

// forceLogout ends a session the server no longer accepts.
func (b *base) forceLogout(reason string) {
	b.deps.Session.Invalidate(reason)
	b.setState(StateUnauthorized, "")
	b.deps.Host.Navigate(PageLogin)
}

// rejected forces a logout when err is the server refusing the token and
// reports whether it did.
func (b *base) rejected(err error) bool {
	if !apiclient.IsAuthRejection(err) {
		return false
	}
	b.forceLogout(err.Error())
	return true
}

// Logout clears the session and returns to the login page.
func (b *base) Logout() {
	if err := b.deps.Session.Clear(); err != nil {
		b.log.Error("clearing session on logout", zap.Error(err))
	}
	b.deps.Host.Navigate(PageLogin)
}

func (b *base) navigate(to Page) { b.deps.Host.Navigate(to) }

// join runs fns concurrently and waits for all of them; one failing does not
// cancel the others. errs[i] is the result of fns[i].
func join(ctx context.Context, fns ...func(context.Context) error) []error {
	var g errgroup.Group
	errs := make([]error, len(fns))
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			errs[i] = fn(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

func isNetworkError(err error) bool {
	var ne *apiclient.NetworkError
	return errors.As(err, &ne)
}

func isDecodeError(err error) bool {
	var de *apiclient.DecodeError
	return errors.As(err, &de)
}

// failureText is the generic message for a failure that is not a server reply.
func failureText(err error, fallback string) string {
	switch {
	case isNetworkError(err):
		return "Error connecting to server"
	case isDecodeError(err):
		return "Unexpected response from server"
	default:
		return apiclient.Message(err, fallback)
	}
}
