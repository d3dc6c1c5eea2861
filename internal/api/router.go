package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/api/handler"
	"github.com/rathinsam/Vehicle-Parking-app/internal/api/middleware"
	"github.com/rathinsam/Vehicle-Parking-app/internal/dashboard"
)

func SetupRouter(app *dashboard.App, wsManager *handler.WebSocketManager, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "page": app.Location()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	wsHandler := handler.NewWebSocketHandler(wsManager)
	r.GET("/ws", wsHandler.HandleWebSocket)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/pages/"+string(app.Location()))
	})

	pageH := handler.NewPageHandler(app)
	pages := r.Group("/pages")
	{
		pages.GET("/:page", pageH.Open)
		pages.GET("/:page/state", pageH.State)
		pages.POST("/:page/:action", pageH.Action)
		pages.POST("/:page/:action/:id", pageH.Action)
	}
	return r
}
