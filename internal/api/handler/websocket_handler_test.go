package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func startManager(t *testing.T) (*WebSocketManager, *httptest.Server, context.CancelFunc, <-chan struct{}) {
	t.Helper()
	wsm := NewWebSocketManager(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		wsm.Start(ctx)
		close(stopped)
	}()
	t.Cleanup(cancel)

	r := gin.New()
	r.GET("/ws", NewWebSocketHandler(wsm).HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return wsm, srv, cancel, stopped
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestManagerStopsWithoutStrandingSenders(t *testing.T) {
	wsm, srv, cancel, stopped := startManager(t)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return wsm.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-stopped
	assert.Zero(t, wsm.Clients())

	// The client sees its connection closed by the manager.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// Registering and unregistering after shutdown return instead of blocking.
	returned := make(chan bool)
	go func() {
		ok := wsm.add(nil)
		wsm.remove(nil)
		returned <- ok
	}()
	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("manager channel send blocked after shutdown")
	}
}

func TestConnectionAfterShutdownIsClosed(t *testing.T) {
	wsm, srv, cancel, stopped := startManager(t)
	cancel()
	<-stopped

	conn := dial(t, srv)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Zero(t, wsm.Clients())
}
