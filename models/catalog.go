package models

import "time"

// RawListing is one programme scraped from a musor.tv listing page, before
// any filtering or catalog shaping. Immutable once built; lives for one
// scrape cycle.
type RawListing struct {
	Title    string
	Start    time.Time
	Channel  string
	Category string
	Poster   string
}

// MetaPreview is the Stremio catalog entry shape returned under "metas".
type MetaPreview struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	ReleaseInfo string   `json:"releaseInfo,omitempty"`
	Poster      string   `json:"poster,omitempty"`
	Background  string   `json:"background,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Meta is the detailed object served by the meta endpoint.
type Meta struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Poster        string         `json:"poster,omitempty"`
	Background    string         `json:"background,omitempty"`
	Genres        []string       `json:"genres,omitempty"`
	Description   string         `json:"description,omitempty"`
	ReleaseInfo   string         `json:"releaseInfo,omitempty"`
	Runtime       string         `json:"runtime,omitempty"`
	Links         []MetaLink     `json:"links"`
	BehaviorHints map[string]any `json:"behaviorHints,omitempty"`
}

// MetaLink is an external link attached to a Meta.
type MetaLink struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// Stream is one playable stream option for a catalog entry.
type Stream struct {
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// CatalogResponse is the catalog endpoint payload.
type CatalogResponse struct {
	Metas []MetaPreview `json:"metas"`
}

// MetaResponse is the meta endpoint payload.
type MetaResponse struct {
	Meta *Meta `json:"meta"`
}

// StreamResponse is the stream endpoint payload.
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}
