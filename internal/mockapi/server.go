// Package mockapi is an in-memory stand-in for the parking backend. It speaks the
// same REST contract as the production API and is used for local development
// and end-to-end tests of the dashboard.
package mockapi

import (
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	Clock         clock.Clock
	Logger        *zap.Logger
}

type Server struct {
	store    *store
	auth     *authService
	clock    clock.Clock
	logger   *zap.Logger
	requests atomic.Int64
	engine   *gin.Engine
}

func NewServer(opts Options) (*Server, error) {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "mockapi-secret"
	}

	st := newStore()
	s := &Server{
		store:  st,
		clock:  opts.Clock,
		logger: opts.Logger.With(zap.String("component", "mockapi")),
		auth: &authService{
			store:     st,
			jwtSecret: []byte(opts.JWTSecret),
			tokenTTL:  opts.TokenTTL,
			now:       opts.Clock.Now,
		},
	}
	if opts.AdminUsername != "" {
		if _, err := s.auth.register(opts.AdminUsername, opts.AdminPassword, "admin"); err != nil {
			return nil, err
		}
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving the REST API.
func (s *Server) Handler() *gin.Engine { return s.engine }

// Requests is the number of HTTP requests served so far.
func (s *Server) Requests() int64 { return s.requests.Load() }

// IssueToken returns a valid token for an existing user, bypassing the password.
func (s *Server) IssueToken(username string) (string, error) {
	u, err := s.store.userByName(username)
	if err != nil {
		return "", err
	}
	return s.auth.issue(u)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		s.requests.Add(1)
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	})

	r.POST("/register", s.register)
	r.POST("/login", s.login)

	admin := r.Group("/admin")
	admin.Use(s.authenticate(), s.authorizeRole("admin"))
	{
		admin.GET("/dashboard", s.adminDashboard)
		admin.GET("/reservations", s.adminReservations)
		admin.GET("/lots", s.adminLots)
		admin.POST("/lots", s.createLot)
		admin.PUT("/lots/:id", s.updateLot)
		admin.DELETE("/lots/:id", s.deleteLot)
	}

	usr := r.Group("/user")
	usr.Use(s.authenticate(), s.authorizeRole("user"))
	{
		usr.GET("/lots", s.userLots)
		usr.GET("/dashboard", s.userDashboard)
		usr.POST("/reserve/:lotId", s.reserve)
		usr.POST("/release", s.release)
		usr.GET("/reservations", s.userReservations)
		usr.POST("/export", s.export)
	}
	return r
}
