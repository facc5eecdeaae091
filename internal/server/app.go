// Package server runs the development API backend: the in-memory taskflow
// REST API from package devapi behind a real HTTP listener, with graceful
// shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/dmitrijs2005/taskflow/internal/server/config"
	"github.com/dmitrijs2005/taskflow/internal/server/devapi"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend *devapi.Server
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	if c.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	backend := devapi.New(devapi.Options{
		Secret:    []byte(c.SecretKey),
		AccessTTL: c.AccessTokenValidityDuration,
		Logger:    logger,
	})

	if c.SeedEmail != "" {
		u := backend.AddUser(c.SeedEmail, c.SeedPassword, c.SeedName)
		logger.Info(context.Background(), "demo account ready", "email", u.Email, "id", u.ID)
	}

	return &App{config: c, logger: logger, backend: backend}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	lis, err := net.Listen("tcp", app.config.EndpointAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddr, err)
	}
	return app.serve(ctx, lis)
}

func (app *App) serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           app.backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting app...", "addr", lis.Addr().String(), "base_path", devapi.BasePath)
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
