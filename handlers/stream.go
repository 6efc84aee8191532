package handlers

import (
	"log"
	"net/http"

	"huliveaddon/models"
	"huliveaddon/services/catalog"
	"huliveaddon/services/streams"

	"github.com/gorilla/mux"
)

// StreamHandler serves the stream endpoint. This is a discovery addon:
// unless the operator configured channel streams, every answer is an empty
// list and stream provider addons take over.
type StreamHandler struct {
	Streams *streams.Service
}

// NewStreamHandler creates a StreamHandler.
func NewStreamHandler(service *streams.Service) *StreamHandler {
	return &StreamHandler{Streams: service}
}

// GetStream resolves /stream/{type}/{id}.json. Always 200.
func (h *StreamHandler) GetStream(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := decodeID(vars["id"])

	channelSlug, _, _, ok := catalog.ParseSyntheticID(id)
	if !ok {
		// IMDb ids and foreign ids are not ours to stream.
		writeJSON(w, models.StreamResponse{Streams: []models.Stream{}})
		return
	}

	result := h.Streams.Lookup(channelSlug)
	if len(result) > 0 {
		log.Printf("[stream] serving configured stream channel=%s", channelSlug)
	}
	writeJSON(w, models.StreamResponse{Streams: result})
}
