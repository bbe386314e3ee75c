package http

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/BipinP21/fda-submission-tracker/internal/config"
)

// HealthHandler reports liveness and whether the merged dataset exists.
type HealthHandler struct {
	cfg     *config.Config
	started time.Time
}

// NewHealthHandler creates the handler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg, started: time.Now()}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/health.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	datasetStatus := "available"
	var datasetModified *time.Time
	if info, err := os.Stat(h.cfg.MergedWorkbookPath()); err == nil {
		mod := info.ModTime()
		datasetModified = &mod
	} else {
		datasetStatus = "missing"
	}

	render.JSON(w, r, map[string]interface{}{
		"status":           "ok",
		"version":          config.AppVersion,
		"uptime":           time.Since(h.started).String(),
		"dataset":          datasetStatus,
		"dataset_modified": datasetModified,
	})
}
