// Package api serves the sports school REST API consumed by the portal.
//
// Every route under /api/v1 except login requires a bearer token. The role in
// the token is checked against access capabilities here; this is the
// authoritative RBAC boundary.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"sportsschool/internal/adapters/email"
	"sportsschool/internal/adapters/http/middleware"
	"sportsschool/internal/adapters/http/perf"
	accountStore "sportsschool/internal/adapters/storage/account"
	announcementStore "sportsschool/internal/adapters/storage/announcement"
	assessmentStore "sportsschool/internal/adapters/storage/assessment"
	attendanceStore "sportsschool/internal/adapters/storage/attendance"
	coachStore "sportsschool/internal/adapters/storage/coach"
	invoiceStore "sportsschool/internal/adapters/storage/invoice"
	reportStore "sportsschool/internal/adapters/storage/report"
	settingsStore "sportsschool/internal/adapters/storage/settings"
	studentStore "sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/domain/access"
)

// Stores holds all store interfaces the API needs.
type Stores struct {
	Accounts      accountStore.Store
	Announcements announcementStore.Store
	Coaches       coachStore.Store
	Students      studentStore.Store
	Invoices      invoiceStore.Store
	Attendance    attendanceStore.Store
	Assessments   assessmentStore.Store
	Reports       reportStore.Store
	Settings      settingsStore.Store
}

// Config holds the API's HTTP settings.
type Config struct {
	JWTSecret     []byte
	TokenTTL      time.Duration
	CORSOrigins   []string
	SlowRequestMs int
}

// Deps holds the collaborators of the API handlers. Zero-valued optional
// fields get working defaults in NewHandler.
type Deps struct {
	Stores     Stores
	Sender     email.Sender
	Perf       *perf.Collector
	Metrics    *Metrics
	Now        func() time.Time
	GenerateID func() string
}

// Handler serves the REST API.
type Handler struct {
	stores  Stores
	sender  email.Sender
	perf    *perf.Collector
	metrics *Metrics
	tokens  *TokenIssuer
	cfg     Config
	now     func() time.Time
	newID   func() string
}

// NewHandler wires the API handler.
// PRE: cfg.JWTSecret is non-empty; deps.Stores are all set
func NewHandler(cfg Config, deps Deps) *Handler {
	h := &Handler{
		stores:  deps.Stores,
		sender:  deps.Sender,
		perf:    deps.Perf,
		metrics: deps.Metrics,
		cfg:     cfg,
		now:     deps.Now,
		newID:   deps.GenerateID,
	}
	if h.sender == nil {
		h.sender = email.NewNoopSender()
	}
	if h.perf == nil {
		h.perf = perf.NewCollector(perf.DefaultRingSize)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.newID == nil {
		h.newID = uuid.NewString
	}
	h.tokens = NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, h.now)
	return h
}

// Tokens returns the issuer used to sign and verify bearer tokens.
func (h *Handler) Tokens() *TokenIssuer {
	return h.tokens
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Timing(h.perf, h.cfg.SlowRequestMs))
	r.Use(chimw.Recoverer)
	r.Use(h.metrics.Middleware)
	if len(h.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &AppError{Code: CodeBadRequest, Message: "Method not allowed", Status: http.StatusMethodNotAllowed})
	})

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", h.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.Get("/me", h.handleMe)
			r.Get("/me/preferences", h.handleGetPreferences)
			r.Put("/me/preferences", h.handleSavePreferences)
			r.Get("/dashboard", h.handleDashboard)

			r.Get("/settings", h.handleGetSettings)
			r.With(requireCap(access.EditSettings)).Put("/settings", h.handleSaveSettings)

			r.Route("/announcements", func(r chi.Router) {
				r.Use(requireCap(access.ViewRoster))
				r.Get("/", h.handleListAnnouncements)
				r.With(requireCap(access.EditAnnouncements)).Post("/", h.handleCreateAnnouncement)
				r.Get("/{id}", h.handleGetAnnouncement)
				r.With(requireCap(access.EditAnnouncements)).Put("/{id}", h.handleUpdateAnnouncement)
				r.With(requireCap(access.PublishAnnouncement)).Post("/{id}/status", h.handleAnnouncementStatus)
			})

			r.Route("/coaches", func(r chi.Router) {
				r.Use(requireCap(access.ViewRoster))
				r.Get("/", h.handleListCoaches)
				r.With(requireCap(access.EditCoaches)).Post("/", h.handleCreateCoach)
				r.Get("/{id}", h.handleGetCoach)
				r.With(requireCap(access.EditCoaches)).Put("/{id}", h.handleUpdateCoach)
				r.With(requireCap(access.EditCoaches)).Post("/{id}/status", h.handleCoachStatus)
			})

			r.Route("/students", func(r chi.Router) {
				r.Use(requireCap(access.ViewRoster))
				r.Get("/", h.handleListStudents)
				r.With(requireCap(access.EditStudents)).Post("/", h.handleCreateStudent)
				r.Get("/{id}", h.handleGetStudent)
				r.With(requireCap(access.EditStudents)).Put("/{id}", h.handleUpdateStudent)
				r.With(requireCap(access.EditStudents)).Post("/{id}/status", h.handleStudentStatus)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Use(requireCap(access.ViewFinance))
				r.Get("/", h.handleListInvoices)
				r.With(requireCap(access.EditInvoices)).Post("/", h.handleCreateInvoice)
				r.Get("/{id}", h.handleGetInvoice)
				r.With(requireCap(access.EditInvoices)).Put("/{id}", h.handleUpdateInvoice)
				r.With(requireCap(access.EditInvoices)).Post("/{id}/status", h.handleInvoiceStatus)
				r.With(requireCap(access.EditInvoices)).Post("/{id}/remind", h.handleRemindInvoice)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(requireCap(access.ViewRoster))
				r.Get("/", h.handleListAttendance)
				r.Get("/roster", h.handleAttendanceRoster)
				r.With(requireCap(access.RecordAttendance)).Post("/", h.handleCreateAttendance)
				r.Get("/{id}", h.handleGetAttendance)
				r.With(requireCap(access.RecordAttendance)).Put("/{id}", h.handleUpdateAttendance)
			})

			r.Route("/assessments", func(r chi.Router) {
				r.Use(requireCap(access.ViewRoster))
				r.Get("/", h.handleListAssessments)
				r.With(requireCap(access.EditAssessments)).Post("/", h.handleCreateAssessment)
				r.Get("/{id}", h.handleGetAssessment)
				r.With(requireCap(access.EditAssessments)).Put("/{id}", h.handleUpdateAssessment)
			})

			r.With(requireCap(access.ViewReports)).Get("/reports/{kind}", h.handleReport)
			r.With(requireCap(access.ViewDiagnostics)).Get("/diagnostics/perf", h.handlePerf)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
