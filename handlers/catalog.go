package handlers

import (
	"net/http"

	"huliveaddon/models"
	"huliveaddon/services/catalog"

	"github.com/gorilla/mux"
)

// CatalogHandler serves the Stremio catalog endpoint.
type CatalogHandler struct {
	Service *catalog.Service
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

// GetCatalog returns catalog entries for /catalog/{type}/{id}.json.
// Unknown catalogs and every internal failure answer 200 with empty metas;
// an empty catalog is a valid response for Stremio clients.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if vars["type"] != "movie" || vars["id"] != "hu-live" {
		writeJSON(w, models.CatalogResponse{Metas: []models.MetaPreview{}})
		return
	}

	query := r.URL.Query()
	metas := h.Service.Catalog(r.Context(), query.Get("time"), query.Get("search"))
	if metas == nil {
		metas = []models.MetaPreview{}
	}
	writeJSON(w, models.CatalogResponse{Metas: metas})
}
