package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Readiness/internal/config"
	"github.com/MikeSquared-Agency/Readiness/internal/enhance"
	"github.com/MikeSquared-Agency/Readiness/internal/hermes"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

// Deps are the collaborators the API is built from. Hermes, Enhancer and
// Metrics are optional.
type Deps struct {
	Store    store.Store
	Hermes   hermes.Client
	Enhancer enhance.Enhancer
	Metrics  *Metrics
	Config   *config.Config
	Logger   *slog.Logger
}

// Server is the wired HTTP API.
type Server struct {
	http.Handler
	Tasks *TasksHandler
}

func NewRouter(d Deps) *Server {
	cfg := d.Config
	e := &engine{
		store:      d.Store,
		hermes:     d.Hermes,
		metrics:    d.Metrics,
		defaults:   cfg.ScoringOptions(),
		hourlyRate: cfg.Scoring.HourlyRate,
		sessionTTL: cfg.SessionTTL(),
		logger:     d.Logger,
		now:        time.Now,
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(CORS(cfg.Server.AllowedOrigins))
	r.Use(RequestLogger(d.Logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimit))

	sessions := NewSessionsHandler(e)
	tasks := NewTasksHandler(e)
	enh := NewEnhanceHandler(e, d.Enhancer, cfg.EnhancerTimeout())
	scoringH := NewScoringHandler(e)
	exports := NewExportHandler(e)
	share := NewShareHandler(e, cfg.Auth.ShareSecret, cfg.ShareTTL())
	settings := NewSettingsHandler(e)
	admin := NewAdminHandler(e)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", sessions.Create)
		r.Get("/sessions", sessions.List)
		r.Get("/sessions/{id}", sessions.Get)
		r.Patch("/sessions/{id}", sessions.Rename)
		r.Delete("/sessions/{id}", sessions.Delete)
		r.Post("/sessions/{id}/clear", sessions.Clear)
		r.Post("/sessions/{id}/rescore", tasks.Rescore)

		r.Post("/sessions/{id}/tasks", tasks.Create)
		r.Put("/sessions/{id}/tasks/{task_id}", tasks.Update)
		r.Delete("/sessions/{id}/tasks/{task_id}", tasks.Delete)
		r.Post("/sessions/{id}/tasks/{task_id}/enhance", enh.Enhance)

		r.Get("/sessions/{id}/export", exports.Export)
		r.Get("/sessions/{id}/summary", exports.Summary)
		r.Post("/sessions/{id}/share", share.Create)
		r.Get("/shared/{token}", share.View)

		r.Post("/scoring/preview", scoringH.Preview)
		r.Get("/scoring/explain/{id}/{task_id}", scoringH.Explain)

		r.Get("/settings", settings.Get)
		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Put("/settings", settings.Put)
			r.Get("/admin/stats", admin.Stats)
		})
	})

	return &Server{Handler: r, Tasks: tasks}
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
