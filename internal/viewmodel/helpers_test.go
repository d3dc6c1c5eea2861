package viewmodel

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/apiclient"
	"github.com/rathinsam/Vehicle-Parking-app/internal/charts"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	"github.com/rathinsam/Vehicle-Parking-app/internal/mockapi"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository/memory"
	"github.com/rathinsam/Vehicle-Parking-app/internal/service"
	"github.com/rathinsam/Vehicle-Parking-app/internal/session"
)

func init() { gin.SetMode(gin.TestMode) }

type rendered struct {
	page Page
	view any
}

type fakeHost struct {
	mu      sync.Mutex
	navs    []Page
	alerts  []string
	renders []rendered
}

func (h *fakeHost) Navigate(to Page) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.navs = append(h.navs, to)
}

func (h *fakeHost) Alert(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, msg)
}

func (h *fakeHost) Render(page Page, view any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders = append(h.renders, rendered{page, view})
}

func (h *fakeHost) Navigations() []Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Page(nil), h.navs...)
}

func (h *fakeHost) Alerts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.alerts...)
}

func (h *fakeHost) LastNavigation() Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.navs) == 0 {
		return ""
	}
	return h.navs[len(h.navs)-1]
}

type fixture struct {
	backend    *mockapi.Server
	backendClk *clock.Mock
	url        string

	clk     *clock.Mock
	session *session.Context
	host    *fakeHost
	board   *charts.Board
	deps    Deps

	// admin talks to the backend with its own admin session, for seeding.
	admin *service.ParkingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backendClk := clock.NewMock()
	backendClk.Set(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	backend, err := mockapi.NewServer(mockapi.Options{
		AdminUsername: "admin",
		AdminPassword: "admin-pw",
		Clock:         backendClk,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	f := &fixture{
		backend:    backend,
		backendClk: backendClk,
		url:        srv.URL,
		clk:        clock.NewMock(),
		host:       &fakeHost{},
		board:      charts.NewBoard(),
	}
	f.session = session.New(context.Background(), memory.NewSessionRepository(), zap.NewNop())
	f.deps = f.depsFor(srv.URL)

	adminToken, err := backend.IssueToken("admin")
	require.NoError(t, err)
	adminSession := session.New(context.Background(), memory.NewSessionRepository(), zap.NewNop())
	require.NoError(t, adminSession.Set(domain.Session{Token: adminToken, Role: domain.RoleAdmin, Username: "admin"}))
	f.admin = service.NewParkingService(apiclient.New(srv.URL, adminSession, zap.NewNop()))
	return f
}

// depsFor builds page dependencies that talk to baseURL with the fixture's session.
func (f *fixture) depsFor(baseURL string) Deps {
	client := apiclient.New(baseURL, f.session, zap.NewNop())
	return Deps{
		Session: f.session,
		Auth:    service.NewAuthService(client),
		Parking: service.NewParkingService(client),
		Host:    f.host,
		Charts:  f.board,
		Clock:   f.clk,
		Logger:  zap.NewNop(),
	}
}

func (f *fixture) loginAdmin(t *testing.T) {
	t.Helper()
	token, err := f.backend.IssueToken("admin")
	require.NoError(t, err)
	require.NoError(t, f.session.Set(domain.Session{Token: token, Role: domain.RoleAdmin, Username: "admin"}))
}

func (f *fixture) loginUser(t *testing.T, username string) {
	t.Helper()
	ctx := context.Background()
	auth := f.deps.Auth
	_, err := auth.Register(ctx, domain.Credentials{Username: username, Password: "pw"})
	require.NoError(t, err)
	resp, err := auth.Login(ctx, domain.Credentials{Username: username, Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, f.session.Set(resp.Session()))
}

func (f *fixture) seedLot(t *testing.T, name string, price float64, spots int) {
	t.Helper()
	_, err := f.admin.CreateLot(context.Background(), domain.LotInput{
		Name: name, Address: "1 " + name + " Street", Price: price, TotalSpots: spots,
	})
	require.NoError(t, err)
}
