package models

// Manifest describes the addon's static capabilities to Stremio clients.
type Manifest struct {
	ID            string         `json:"id"`
	Version       string         `json:"version"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Logo          string         `json:"logo,omitempty"`
	BehaviorHints map[string]any `json:"behaviorHints,omitempty"`
	Resources     []string       `json:"resources"`
	Types         []string       `json:"types"`
	Catalogs      []CatalogDef   `json:"catalogs"`
}

// CatalogDef declares one catalog and its extra query parameters.
type CatalogDef struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Extra []CatalogExtra `json:"extra,omitempty"`
}

// CatalogExtra declares one supported extra parameter for a catalog.
type CatalogExtra struct {
	Name       string   `json:"name"`
	Options    []string `json:"options,omitempty"`
	IsRequired bool     `json:"isRequired"`
}
