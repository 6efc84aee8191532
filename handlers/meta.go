package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"huliveaddon/models"
	"huliveaddon/services/catalog"

	"github.com/gorilla/mux"
)

// MetaHandler serves detailed metadata for one catalog entry.
type MetaHandler struct {
	Service *catalog.Service
}

// NewMetaHandler creates a MetaHandler.
func NewMetaHandler(service *catalog.Service) *MetaHandler {
	return &MetaHandler{Service: service}
}

// GetMeta resolves /meta/{type}/{id}.json. Supports IMDb ids assigned during
// enrichment and the synthetic musortv ids. Misses answer 200 with a null
// meta so clients degrade quietly.
func (h *MetaHandler) GetMeta(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := decodeID(vars["id"])

	if vars["type"] != "movie" {
		writeJSON(w, models.MetaResponse{})
		return
	}

	if catalog.IsIMDBID(id) {
		h.serveIMDBMeta(w, r, id)
		return
	}
	h.serveSyntheticMeta(w, r, id)
}

// serveIMDBMeta matches an enriched catalog entry by its IMDb id.
func (h *MetaHandler) serveIMDBMeta(w http.ResponseWriter, r *http.Request, id string) {
	for _, m := range h.Service.Catalog(r.Context(), "", "") {
		if m.ID != id {
			continue
		}
		writeJSON(w, models.MetaResponse{Meta: &models.Meta{
			ID:          m.ID,
			Type:        m.Type,
			Name:        m.Name,
			Poster:      m.Poster,
			Background:  m.Poster,
			Genres:      m.Genres,
			ReleaseInfo: m.ReleaseInfo,
			Links:       []models.MetaLink{},
		}})
		return
	}
	log.Printf("[meta] no catalog entry for imdbId=%s", id)
	writeJSON(w, models.MetaResponse{})
}

// serveSyntheticMeta re-parses a musortv id and matches it against the
// current scrape.
func (h *MetaHandler) serveSyntheticMeta(w http.ResponseWriter, r *http.Request, id string) {
	channelSlug, start, titleSlug, ok := catalog.ParseSyntheticID(id)
	if !ok {
		log.Printf("[meta] invalid meta id=%q", id)
		writeJSON(w, models.MetaResponse{})
		return
	}

	listing := h.Service.FindListing(r.Context(), channelSlug, start, titleSlug)
	if listing == nil {
		log.Printf("[meta] no matching listing for id=%q", id)
		writeJSON(w, models.MetaResponse{})
		return
	}

	writeJSON(w, models.MetaResponse{Meta: buildMeta(id, listing)})
}

// buildMeta renders the rich Hungarian description block for a listing.
func buildMeta(id string, l *models.RawListing) *models.Meta {
	timeStr := l.Start.Format("15:04")
	dateStr := l.Start.Format("2006.01.02")

	var desc strings.Builder
	fmt.Fprintf(&desc, "📺 **Csatorna:** %s\n", l.Channel)
	fmt.Fprintf(&desc, "🕐 **Kezdés:** %s %s\n", dateStr, timeStr)
	if l.Category != "" {
		fmt.Fprintf(&desc, "🎬 **Műfaj:** %s\n", l.Category)
	}
	desc.WriteString("\n📡 **Élő adás a magyar TV-ből**\n")
	desc.WriteString("\n💡 *Tipp: Használj stream kiegészítőt (pl. Torrentio) a megtekintéshez*")

	return &models.Meta{
		ID:          id,
		Type:        "movie",
		Name:        l.Title,
		Poster:      l.Poster,
		Background:  l.Poster,
		Genres:      catalog.ParseGenres(l.Category),
		Description: desc.String(),
		ReleaseInfo: fmt.Sprintf("📅 %s • %s", dateStr, timeStr),
		Links:       []models.MetaLink{},
		BehaviorHints: map[string]any{
			"defaultVideoId": nil,
		},
	}
}

// decodeID undoes URL encoding some clients apply twice to path ids.
func decodeID(id string) string {
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}
