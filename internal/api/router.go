// Package api serves the filtered imagery layers and the tile-source catalog
// over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/imagery-cli/internal/imagery"
)

// NewRouter returns a handler serving the filtered document at path.
// The file is read on every request so a concurrent filter run is picked up
// without a restart.
func NewRouter(path string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handler{path: path}
	r.Get("/health", h.health)
	r.Get("/imagery", h.imagery)
	r.Get("/sources", h.sources)
	return r
}

type handler struct {
	path string
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) imagery(w http.ResponseWriter, r *http.Request) {
	fc, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

func (h *handler) sources(w http.ResponseWriter, r *http.Request) {
	fc, ok := h.load(w, r)
	if !ok {
		return
	}
	group, err := imagery.BuildCatalog(fc).Group(r.URL.Query().Get("group"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *handler) load(w http.ResponseWriter, r *http.Request) (*imagery.FeatureCollection, bool) {
	fc, err := imagery.Read(h.path)
	if err == nil {
		return fc, true
	}

	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "filtered imagery not found; run the filter command first"})
		return nil, false
	}
	zap.L().Error("api: read filtered imagery",
		zap.String("path", h.path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "filtered imagery unreadable"})
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: encode response", zap.Error(err))
	}
}
