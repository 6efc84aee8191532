package handlers

import (
	"net/http"
	"time"

	"huliveaddon/services/imdb"
	"huliveaddon/services/scraper"
)

// HealthHandler reports scraper health and IMDb lookup statistics.
type HealthHandler struct {
	Scraper *scraper.Scraper
	IMDB    *imdb.Service
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(s *scraper.Scraper, i *imdb.Service) *HealthHandler {
	return &HealthHandler{Scraper: s, IMDB: i}
}

// GetHealth serves /healthz.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.Scraper.Status()
	writeJSON(w, map[string]any{
		"ok":          status.Healthy,
		"ts":          time.Now().UnixMilli(),
		"scraper":     status,
		"imdb_lookup": h.IMDB.Stats(),
	})
}
