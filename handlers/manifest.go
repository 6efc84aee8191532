package handlers

import (
	"encoding/json"
	"net/http"

	"huliveaddon/models"
	"huliveaddon/services/catalog"
)

// Manifest is the static addon descriptor served to Stremio clients.
var Manifest = models.Manifest{
	ID:          "hu.live.movies",
	Version:     "1.0.0",
	Name:        "HU Live Movies (musor.tv)",
	Description: "Discover movies on Hungarian TV • Works with your stream addons",
	BehaviorHints: map[string]any{
		"configurable": false,
	},
	Resources: []string{"catalog", "meta", "stream"},
	Types:     []string{"movie"},
	Catalogs: []models.CatalogDef{{
		Type: "movie",
		ID:   "hu-live",
		Name: "Live on TV (HU)",
		Extra: []models.CatalogExtra{
			{Name: "search", IsRequired: false},
			{Name: "time", Options: []string{catalog.PresetNow, catalog.PresetNext2h, catalog.PresetTonight}, IsRequired: false},
		},
	}},
}

// ManifestHandler serves the manifest endpoint.
type ManifestHandler struct{}

// GetManifest returns the addon manifest.
func (h *ManifestHandler) GetManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, Manifest)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
