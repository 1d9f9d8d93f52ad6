// Package ui exposes the analysis pipeline over a JSON HTTP API.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pimprep/app"
	"pimprep/internal"
	"pimprep/internal/classifier"
	"pimprep/internal/config"
	"pimprep/ports"
)

// App represents the HTTP application
type App struct {
	router     *chi.Mux
	cfg        *config.Config
	repo       ports.AnalysisRepository // nil disables the /api/analyses routes
	logger     *internal.Logger
	newService func(classifier.Thresholds, []string) *app.AnalysisService
}

// NewApp creates the HTTP application. repo may be nil when persistence
// is not configured.
func NewApp(cfg *config.Config, repo ports.AnalysisRepository) *App {
	a := &App{
		router: chi.NewRouter(),
		cfg:    cfg,
		repo:   repo,
		logger: internal.NewDefaultLogger(),
		newService: func(t classifier.Thresholds, kws []string) *app.AnalysisService {
			return app.NewAnalysisService(t, kws, repo)
		},
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes
func (a *App) setupRoutes() {
	a.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", a.handleAnalyze)
		r.Post("/validate", a.handleValidate)
		r.Post("/report", a.handleReport)
		if a.repo != nil {
			r.Get("/analyses", a.handleListAnalyses)
			r.Get("/analyses/{id}", a.handleGetAnalysis)
		}
	})
	a.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// Router returns the configured router, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the configured port.
func (a *App) Start() error {
	addr := ":" + a.cfg.Server.Port
	a.logger.Info("listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
