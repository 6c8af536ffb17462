package api

import (
	"net/http"

	"cutoffrank/app"
	"cutoffrank/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Prefix is where the JSON API is mounted
const Prefix = "/api/v1"

// NewRouter builds the JSON API for a loaded dataset
func NewRouter(svc *app.SelectionService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  internal.DefaultLogger.Logrus(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	return applyRoutes(r, &Handler{svc: svc})
}

func applyRoutes(r chi.Router, h *Handler) chi.Router {
	r.Route(Prefix, func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/dataset", h.handleDataset)
		r.Get("/categories", h.handleCategories)
		r.Get("/categories/{category}/summary", h.handleSummary)
		r.Get("/colleges", h.handleColleges)
		r.Get("/branches", h.handleBranches)
		r.Get("/cutoff", h.handleCutoff)

		r.Post("/sessions", h.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.handleSessionStatus)
			r.Delete("/", h.handleDiscardSession)
			r.Post("/start", h.handleStart)
			r.Post("/end", h.handleEnd)
			r.Post("/entries", h.handleAdd)
			r.Get("/entries", h.handleShow)
			r.Get("/export", h.handleExport)
		})
	})

	return r
}
