package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/api"
	"github.com/rathinsam/Vehicle-Parking-app/internal/api/handler"
	"github.com/rathinsam/Vehicle-Parking-app/internal/dashboard"
	"github.com/rathinsam/Vehicle-Parking-app/internal/mockapi"
)

func newServeCommand(e *env) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard pages over HTTP with live WebSocket updates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			wsManager := handler.NewWebSocketManager(e.logger)
			go wsManager.Start(ctx)

			app := dashboard.New(e.deps, wsManager)
			router := api.SetupRouter(app, wsManager, e.registry, e.logger)
			return runHTTP(ctx, e.logger, ":"+port, router)
		},
	}
	cmd.Flags().StringVar(&port, "port", e.cfg.ServerPort, "port to listen on")
	return cmd
}

func newMockAPICommand(e *env) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "mockapi",
		Short: "Run the in-memory reference parking backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := mockapi.NewServer(mockapi.Options{
				JWTSecret:     e.cfg.JWTSecret,
				TokenTTL:      e.cfg.JWTExpirationHours,
				AdminUsername: e.cfg.AdminUsername,
				AdminPassword: e.cfg.AdminPassword,
				Logger:        e.logger,
			})
			if err != nil {
				return err
			}
			return runHTTP(ctx, e.logger, ":"+port, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&port, "port", e.cfg.MockAPIPort, "port to listen on")
	return cmd
}

// runHTTP serves h on addr until ctx is cancelled, then shuts down gracefully.
func runHTTP(ctx context.Context, logger *zap.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
