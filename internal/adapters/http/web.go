package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sportsschool/internal/adapters/backend"
	"sportsschool/internal/adapters/http/middleware"
	"sportsschool/internal/adapters/http/perf"
	"sportsschool/internal/application/formsession"
)

// Config carries the portal settings read by cmd/server.
type Config struct {
	BackendURL     string
	BackendTimeout time.Duration
	CSRFKeyHex     string // 64 hex characters; random per start when empty outside production
	Production     bool
	TrustedOrigins []string
	FormTTL        time.Duration
	SlowRequestMs  int
}

// ErrCSRFKeyRequired is returned when production starts without a CSRF key.
var ErrCSRFKeyRequired = errors.New("PORTAL_CSRF_KEY is required in production")

// loadCSRFKey decodes the CSRF secret (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("PORTAL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, ErrCSRFKeyRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_generated", "detail", "using random CSRF key; sessions won't survive restart")
	return key, nil
}

// Global backend client (set by NewMux). Handlers derive a per-user copy with backendFor.
var apiClient *backend.Client

// Global session store instance
var sessions *middleware.SessionStore

// Global form session store (set by NewMux)
var forms *formsession.Store

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// recordBackendCall feeds backend round trips into the perf dashboard.
func recordBackendCall(collector *perf.Collector) backend.Observer {
	return func(c backend.Call) {
		if collector == nil {
			return
		}
		collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       c.Method + " " + c.Path,
			StatusCode: c.Status,
			DurationMs: float64(c.Duration.Microseconds()) / 1000.0,
			Timestamp:  timeNow().Add(-c.Duration),
		})
	}
}

// NewMux wires HTTP handlers for the portal.
func NewMux(cfg Config, collector *perf.Collector) (http.Handler, error) {
	csrfKey, err := loadCSRFKey(cfg.CSRFKeyHex, cfg.Production)
	if err != nil {
		return nil, err
	}

	perfCollector = collector
	apiClient = backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithObserver(recordBackendCall(collector)),
	)
	sessions = middleware.NewSessionStore()
	forms = formsession.NewStore(cfg.FormTTL)
	middleware.SecureCookies = cfg.Production

	mux := http.NewServeMux()
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Outermost first: Timing -> RateLimit -> Recover -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, cfg.Production, cfg.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.Recover,
		middleware.RateLimit(limiter),
		middleware.Timing(collector, cfg.SlowRequestMs),
	), nil
}

// StartFormSweeper expires abandoned forms until ctx is cancelled.
// PRE: NewMux has run
func StartFormSweeper(ctx context.Context, interval time.Duration) {
	forms.StartSweeper(ctx, interval)
}
