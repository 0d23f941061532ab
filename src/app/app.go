// Package app wires the bookdesk services together and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/config"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/executor"
	"github.com/samber/do/v2"
)

// App represents the main application with all services
type App struct {
	injector *do.RootScope
	logger   *slog.Logger
}

// Options holds what App needs from the caller
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Model replaces the configured chat completion client when set.
	Model aisdk.ModelClient
}

// New creates the container. Services are built lazily on first use.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)

	do.Provide(injector, ProvideStore)
	do.Provide(injector, ProvidePublisher)
	do.Provide(injector, ProvideDesk)
	if opts.Model != nil {
		do.ProvideValue(injector, opts.Model)
	} else {
		do.Provide(injector, ProvideModelClient)
	}
	do.Provide(injector, ProvideAgentBuilder)
	do.Provide(injector, ProvideExecutor)
	do.Provide(injector, ProvideHTTPServer)

	return &App{injector: injector, logger: logger}
}

// Store returns the opened database.
func (a *App) Store() (*StoreHandle, error) {
	return do.Invoke[*StoreHandle](a.injector)
}

// Desk returns the domain service.
func (a *App) Desk() (*desk.Service, error) {
	return do.Invoke[*desk.Service](a.injector)
}

// Executor returns the chat turn service.
func (a *App) Executor() (*executor.Service, error) {
	return do.Invoke[*executor.Service](a.injector)
}

// Handler returns the HTTP handler without starting a listener.
func (a *App) Handler() (http.Handler, error) {
	srv, err := do.Invoke[*HTTPServerHandle](a.injector)
	if err != nil {
		return nil, err
	}
	return srv.Handler, nil
}

// Serve listens on the configured address until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	srv, err := do.Invoke[*HTTPServerHandle](a.injector)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	a.logger.Info("http server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down http server")
		return nil
	}
}

// HealthCheck pings the store if it has been opened.
func (a *App) HealthCheck(ctx context.Context) error {
	return do.HealthCheckWithContext[*StoreHandle](ctx, a.injector)
}

// Shutdown stops every service that was started, in reverse dependency order.
func (a *App) Shutdown() error {
	report := a.injector.Shutdown()
	if report != nil && len(report.Errors) > 0 {
		return report
	}
	return nil
}
