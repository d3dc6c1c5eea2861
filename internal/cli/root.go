// Package cli is the parkdash command line: it serves the dashboard, runs the
// reference backend, and drives every dashboard page from the terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/apiclient"
	"github.com/rathinsam/Vehicle-Parking-app/internal/config"
	"github.com/rathinsam/Vehicle-Parking-app/internal/dashboard"
	"github.com/rathinsam/Vehicle-Parking-app/internal/logging"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository/memory"
	"github.com/rathinsam/Vehicle-Parking-app/internal/repository/sqlite"
	"github.com/rathinsam/Vehicle-Parking-app/internal/service"
	"github.com/rathinsam/Vehicle-Parking-app/internal/session"
	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

// ErrRedirected is returned when a page sent the user elsewhere, usually to log in.
var ErrRedirected = errors.New("redirected")

type rootOptions struct {
	apiURL    string
	sessionDB string
	logLevel  string
	inMemory  bool
}

// env is what every command runs against, built once per invocation.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	session  *session.Context
	registry *prometheus.Registry
	deps     vm.Deps
	out      io.Writer
	closeDB  func() error
}

func defaultSessionDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "parkdash", "session.db")
}

// NewRootCommand builds the parkdash command tree. cfg supplies flag defaults.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{}
	e := &env{cfg: cfg}

	root := &cobra.Command{
		Use:           "parkdash",
		Short:         "Parking reservation dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, opts)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
			if e.closeDB != nil {
				return e.closeDB()
			}
			return nil
		},
	}

	sessionDefault := cfg.SessionDBPath
	if sessionDefault == "" {
		sessionDefault = defaultSessionDB()
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", cfg.APIBaseURL, "parking API base URL")
	root.PersistentFlags().StringVar(&opts.sessionDB, "session-db", sessionDefault, "SQLite file holding the login session")
	root.PersistentFlags().BoolVar(&opts.inMemory, "no-persist", false, "keep the session in memory only")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(e),
		newMockAPICommand(e),
		newLoginCommand(e),
		newRegisterCommand(e),
		newLogoutCommand(e),
		newAdminCommand(e),
		newUserCommand(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, opts *rootOptions) error {
	logger, err := logging.New(opts.logLevel, e.cfg.LogDevelopment)
	if err != nil {
		return err
	}
	e.logger = logger
	e.out = cmd.OutOrStdout()

	var repo repository.SessionRepository
	if opts.inMemory || opts.sessionDB == "" {
		repo = memory.NewSessionRepository()
	} else {
		db, err := sqlite.NewDB(opts.sessionDB)
		if err != nil {
			return err
		}
		e.closeDB = db.Close
		repo = sqlite.NewSessionRepository(db)
	}
	e.session = session.New(cmd.Context(), repo, logger)

	e.registry = prometheus.NewRegistry()
	clientOpts := []apiclient.Option{apiclient.WithMetrics(apiclient.NewMetrics(e.registry))}
	if e.cfg.APITimeout > 0 {
		clientOpts = append(clientOpts, apiclient.WithTimeout(e.cfg.APITimeout))
	}
	client := apiclient.New(opts.apiURL, e.session, logger, clientOpts...)

	e.deps = vm.Deps{
		Session:    e.session,
		Auth:       service.NewAuthService(client),
		Parking:    service.NewParkingService(client),
		Clock:      clock.New(),
		MessageTTL: e.cfg.MessageTTL,
		Logger:     logger,
	}
	return nil
}

// app returns a dashboard without live notifications, for one-shot commands.
func (e *env) app() *dashboard.App {
	return dashboard.New(e.deps, nil)
}

// open loads page p and fails when the page redirected elsewhere.
func (e *env) open(ctx context.Context, app *dashboard.App, p vm.Page) (dashboard.Snapshot, error) {
	to := app.Open(ctx, p)
	snap := app.Snapshot(p)
	e.printAlerts(snap.Alerts)
	if to != p {
		return snap, fmt.Errorf("%w to %s", ErrRedirected, to)
	}
	if snap.State == vm.StateFailed {
		return snap, errors.New(errorOf(snap.View))
	}
	return snap, nil
}

// act runs fn on page p and prints what the page reported.
func (e *env) act(ctx context.Context, app *dashboard.App, p vm.Page, fn func(page any) error) (dashboard.Snapshot, error) {
	to, err := app.Do(ctx, p, fn)
	snap := app.Snapshot(p)
	e.printAlerts(snap.Alerts)
	if err == nil && to != p && to == vm.PageLogin {
		return snap, fmt.Errorf("%w to %s", ErrRedirected, to)
	}
	return snap, err
}

func (e *env) printAlerts(alerts []string) {
	for _, a := range alerts {
		fmt.Fprintf(e.out, "! %s\n", a)
	}
}

// Execute runs the CLI with configuration from the environment.
func Execute(ctx context.Context) error {
	cfg := config.Load()
	return NewRootCommand(cfg).ExecuteContext(ctx)
}
