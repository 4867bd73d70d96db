package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pricewatch/pricewatch/internal/compare"
	"github.com/pricewatch/pricewatch/internal/dashboard"
	"github.com/pricewatch/pricewatch/internal/observability"
	"github.com/pricewatch/pricewatch/internal/platform/httpx"
	"github.com/pricewatch/pricewatch/internal/shared"
	"github.com/pricewatch/pricewatch/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	DashboardHandler *dashboard.Handler
	CompareHandler   *compare.Handler
	Store            *dashboard.Store
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the dashboard defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		if params.Store != nil {
			body["loaded_at"] = params.Store.Snapshot().LoadedAt
		}
		httpx.JSON(w, http.StatusOK, body)
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		params.DashboardHandler.MountRoutes(r)
		params.CompareHandler.MountRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.ErrNotFound)
	})

	return r
}

// staticCacheHandler caches embedded assets in the browser for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
