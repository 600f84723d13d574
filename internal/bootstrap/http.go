package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bistronome/resto-ui-api/config"
	httpx "github.com/bistronome/resto-ui-api/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router and middleware chain.
// Order: Recover -> Logging -> Session -> Router.
func BuildHTTPHandler(cfg *HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Registry:     cfg.Services.Registry,
		Orders:       cfg.Services.Orders,
		Articles:     cfg.Services.Articles,
		Users:        cfg.Services.Users,
		Stats:        cfg.Services.Stats,
		Logger:       logger,
		CookieName:   cfg.Config.Session.CookieName,
		CookieDomain: cfg.Config.HTTP.CookieDomain,
	})

	h := httpx.WithSession(httpx.SessionParams{
		Registry:     cfg.Services.Registry,
		CookieName:   cfg.Config.Session.CookieName,
		CookieDomain: cfg.Config.HTTP.CookieDomain,
	})(router)
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)

	return h
}

// RunHTTPServer starts the HTTP server and blocks until the context is
// cancelled or the process receives SIGINT/SIGTERM, then shuts down
// gracefully. Session monitors are disposed after the listener drains so no
// idle timer outlives the process.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	addr := cfg.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      BuildHTTPHandler(cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)

		cfg.Services.Registry.Dispose()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
