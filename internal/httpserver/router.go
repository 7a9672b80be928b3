package httpserver

import (
	"net/http"

	"coldoutreach/internal/middleware"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Logger          *slog.Logger
	GenerateHandler http.Handler
	ExportHandler   http.Handler
	// MetricsHandler is optional; /metrics is not mounted without it.
	MetricsHandler http.Handler
	CORSOrigins    []string
}

// NewRouter собирает chi-роутер с общими middleware.
// Paths are matched with and without the trailing slash.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS(deps.CORSOrigins))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Post("/generate", deps.GenerateHandler.ServeHTTP)
	r.Post("/export_csv", deps.ExportHandler.ServeHTTP)

	if deps.MetricsHandler != nil {
		r.Get("/metrics", deps.MetricsHandler.ServeHTTP)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
