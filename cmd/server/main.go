package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "sportsschool/internal/adapters/http"
	"sportsschool/internal/adapters/http/perf"
	"sportsschool/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.LoadPortal()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.Env, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Performance instrumentation: request timings plus backend round trips
	collector := perf.NewCollector(perf.DefaultRingSize)

	handler, err := web.NewMux(web.Config{
		BackendURL:     cfg.BackendURL,
		BackendTimeout: cfg.BackendTimeout,
		CSRFKeyHex:     cfg.CSRFKeyHex,
		Production:     cfg.Production(),
		TrustedOrigins: cfg.TrustedOrigins,
		FormTTL:        cfg.FormTTL,
		SlowRequestMs:  cfg.SlowRequestMs,
	}, collector)
	if err != nil {
		slog.Error("portal_init_failed", "error", err)
		os.Exit(1)
	}

	// Abandoned drafts expire after PORTAL_FORM_TTL
	web.StartFormSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown_failed", "error", err)
		}
	}()

	slog.Info("portal_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "backend", cfg.BackendURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
	slog.Info("portal_stopped")
}
