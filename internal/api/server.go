package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/api/handler"
	mw "github.com/edvin/opsdash/internal/api/middleware"
	"github.com/edvin/opsdash/internal/auth"
	"github.com/edvin/opsdash/internal/config"
	"github.com/edvin/opsdash/internal/core"
)

type Server struct {
	router     chi.Router
	logger     zerolog.Logger
	services   *core.Services
	store      core.Pinger
	cfg        *config.Config
	authorizer auth.Authorizer
	password   *auth.PasswordChecker
}

// NewServer wires the dashboard routes. store is nil when no database is
// configured.
func NewServer(logger zerolog.Logger, services *core.Services, store core.Pinger, cfg *config.Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		logger:     logger,
		services:   services,
		store:      store,
		cfg:        cfg,
		authorizer: auth.CookieAuthorizer{},
		password:   auth.NewPasswordChecker(cfg.AdminPassword, cfg.AdminPasswordHash),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api", func(r chi.Router) {
		authH := handler.NewAuth(s.password, s.cfg.CookieSecure)
		r.Post("/auth/login", authH.Login)

		// Read aggregates
		project := handler.NewProject(s.services.Project, s.services.Status)
		r.Get("/projects", project.List)
		r.Get("/projects/status", project.Status)

		health := handler.NewHealth(s.services.Health)
		r.Get("/health", health.Check)

		logs := handler.NewLogs(s.services.Log)
		r.Get("/logs", logs.Recent)

		live := handler.NewLive(s.services.Snapshot, s.cfg.LivePollInterval, originPatterns(s.cfg.CORSOrigins))
		r.Get("/live", live.Stream)

		// Hosting and CI actions
		deploy := handler.NewDeploy(s.services.Deploy)
		r.Post("/vercel/deploy", deploy.Redeploy)

		workflow := handler.NewWorkflow(s.services.Workflow)
		r.Get("/github/workflows", workflow.List)
		r.Post("/github/trigger", workflow.Trigger)

		// Maintenance flags
		maintenance := handler.NewMaintenance(s.services.Maintenance)
		r.Get("/maintenance/{projectID}", maintenance.Get)
		r.Get("/projects/maintenance", maintenance.List)
		r.With(mw.RequireAuth(s.authorizer)).Post("/projects/maintenance", maintenance.Set)

		// Push notifications
		push := handler.NewPush(s.services.Push)
		r.Post("/fcm/send", push.Send)
		r.Post("/fcm/register", push.Register)

		notification := handler.NewNotification(s.services.Notification)
		r.Get("/notifications", notification.History)

		// User stats
		stats := handler.NewStats(s.services.Stats)
		r.Get("/stats", stats.Users)
		r.Get("/users/recent", stats.RecentUsers)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.store == nil {
		checks["store"] = "not configured"
	} else if err := s.store.Ping(ctx); err != nil {
		checks["store"] = err.Error()
		healthy = false
	} else {
		checks["store"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// originPatterns turns CORS origins into the host patterns the websocket
// upgrade checks the Origin header against.
func originPatterns(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
