package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/api/handler"
	"github.com/rathinsam/Vehicle-Parking-app/internal/apiclient"
	"github.com/rathinsam/Vehicle-Parking-app/internal/dashboard"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	"github.com/rathinsam/Vehicle-Parking-app/internal/mockapi"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository/memory"
	"github.com/rathinsam/Vehicle-Parking-app/internal/service"
	"github.com/rathinsam/Vehicle-Parking-app/internal/session"
	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

func init() { gin.SetMode(gin.TestMode) }

type testServer struct {
	url     string
	backend *mockapi.Server
	client  *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	backend, err := mockapi.NewServer(mockapi.Options{AdminUsername: "admin", AdminPassword: "admin-pw"})
	require.NoError(t, err)
	backendSrv := httptest.NewServer(backend.Handler())
	t.Cleanup(backendSrv.Close)

	reg := prometheus.NewRegistry()
	sess := session.New(context.Background(), memory.NewSessionRepository(), logger)
	client := apiclient.New(backendSrv.URL, sess, logger, apiclient.WithMetrics(apiclient.NewMetrics(reg)))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ws := handler.NewWebSocketManager(logger)
	go ws.Start(ctx)

	app := dashboard.New(vm.Deps{
		Session: sess,
		Auth:    service.NewAuthService(client),
		Parking: service.NewParkingService(client),
		Logger:  logger,
	}, ws)
	srv := httptest.NewServer(SetupRouter(app, ws, reg, logger))
	t.Cleanup(srv.Close)

	return &testServer{
		url:     srv.URL,
		backend: backend,
		// Redirects are asserted, not followed.
		client: &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }},
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, dashboard.Snapshot) {
	t.Helper()
	req, err := http.NewRequest(method, s.url+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap dashboard.Snapshot
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.Header.Get("Content-Type") == "application/json; charset=utf-8" {
		_ = json.Unmarshal(raw, &snap)
	}
	return resp, snap
}

func TestGatedPageRedirectsToLogin(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/pages/admin_dashboard", "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/pages/login", resp.Header.Get("Location"))
	assert.Zero(t, s.backend.Requests())

	resp, snap := s.do(t, http.MethodGet, "/pages/admin_dashboard/state", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, vm.StateUnauthorized, snap.State)
	assert.Equal(t, []string{"Access denied!"}, snap.Alerts)
}

func TestLoginThenOpenAdminDashboard(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/pages/login", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, snap := s.do(t, http.MethodPost, "/pages/login/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	view := snap.View.(map[string]any)
	assert.Equal(t, "Invalid credentials", view["error"])

	resp, _ = s.do(t, http.MethodPost, "/pages/login/login", `{"username":"admin","password":"admin-pw"}`)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/pages/admin_dashboard", resp.Header.Get("Location"))

	resp, snap = s.do(t, http.MethodGet, "/pages/admin_dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, vm.StateReady, snap.State)
	cards := snap.View.(map[string]any)["cards"].([]any)
	assert.Len(t, cards, 6)
	assert.Len(t, snap.Charts, 2)

	resp, _ = s.do(t, http.MethodPost, "/pages/admin_dashboard/logout", "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/pages/admin_dashboard", "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestNavigationActionsRedirect(t *testing.T) {
	s := newTestServer(t)

	redirect := func(path, want string) {
		t.Helper()
		resp, _ := s.do(t, http.MethodPost, path, "")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, want, resp.Header.Get("Location"), path)
	}

	redirect("/pages/login/goto_register", "/pages/register")
	redirect("/pages/register/goto_login", "/pages/login")
	// Gated pages still send a signed-out user to the login page.
	redirect("/pages/user_dashboard/goto_reserve", "/pages/login")

	s.do(t, http.MethodPost, "/pages/login/login", `{"username":"admin","password":"admin-pw"}`)
	redirect("/pages/admin_dashboard/goto_lots", "/pages/admin_lots")
	redirect("/pages/admin_lots/goto_back", "/pages/admin_dashboard")

	resp, _ := s.do(t, http.MethodPost, "/pages/admin_dashboard/goto_nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddLotValidationIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/pages/login/login", `{"username":"admin","password":"admin-pw"}`)

	resp, snap := s.do(t, http.MethodPost, "/pages/admin_lots/add", `{"name":"North","address":"","price":"10","total_spots":"3"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please fill all required fields!", snap.View.(map[string]any)["message"])

	resp, snap = s.do(t, http.MethodPost, "/pages/admin_lots/add", `{"name":"North","address":"1 Main","price":"10","total_spots":"3"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, snap.View.(map[string]any)["lots"], 1)
}

func TestUnknownPage(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(t, http.MethodGet, "/pages/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/pages/login/login", `{"username":"admin","password":"admin-pw"}`)

	resp, err := http.Get(s.url + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.url + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "parkdash_api_requests_total")
}

func TestWebSocketReceivesRenders(t *testing.T) {
	s := newTestServer(t)

	u, err := url.Parse(s.url)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration is asynchronous; keep opening the page until a render arrives.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	got := make(chan domain.ViewNotification, 1)
	go func() {
		for {
			var n domain.ViewNotification
			if err := conn.ReadJSON(&n); err != nil {
				return
			}
			if n.Type == domain.NotificationRender {
				got <- n
				return
			}
		}
	}()

	require.Eventually(t, func() bool {
		s.do(t, http.MethodGet, "/pages/login", "")
		select {
		case n := <-got:
			assert.Equal(t, "login", n.Page)
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}
