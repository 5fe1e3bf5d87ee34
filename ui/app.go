package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"scrub/adapters/fileio"
	"scrub/app"
	"scrub/internal/config"
	"scrub/internal/logging"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App represents the UI application
type App struct {
	router    *chi.Mux
	sessions  *app.SessionService
	reader    *fileio.Reader
	writer    *fileio.Writer
	templates *template.Template
	cfg       *config.Config
	log       *logging.Logger
	// parseSem bounds how many uploads are parsed at once; excel
	// parsing is memory hungry.
	parseSem *semaphore.Weighted
}

// NewApp creates a new UI application
func NewApp(cfg *config.Config, sessions *app.SessionService, log *logging.Logger) (*App, error) {
	funcMap := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		sessions:  sessions,
		reader:    fileio.NewReader(),
		writer:    fileio.NewWriter(),
		templates: templates,
		cfg:       cfg,
		log:       log.WithComponent("ui"),
		parseSem:  semaphore.NewWeighted(cfg.Storage.MaxParsers),
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/upload", a.handleUpload)
	a.router.Get("/demo", a.handleDemo)

	a.router.Get("/sessions/{id}", a.handleSession)
	a.router.Get("/sessions/{id}/report", a.handleReport)
	a.router.Get("/sessions/{id}/plots/heatmap.png", a.handleHeatmapPlot)
	a.router.Get("/sessions/{id}/plots/{kind}/{column}.png", a.handleColumnPlot)
	a.router.Get("/sessions/{id}/suggestions", a.handleSuggestions)
	a.router.Post("/sessions/{id}/clean", a.handleClean)
	a.router.Get("/sessions/{id}/export", a.handleExport)
	a.router.Post("/sessions/{id}/save", a.handleSave)

	a.router.Get("/healthz", a.handleHealth)
}

// Handler exposes the router for the HTTP server
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.log.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
