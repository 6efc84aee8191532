// Package streams maps Hungarian TV channel slugs to operator-configured
// stream URLs. The addon is catalog-first: without configuration every
// lookup misses and clients fall back to their own stream addons.
package streams

import (
	"strings"

	"huliveaddon/models"
	"huliveaddon/utils"
)

// Service answers stream lookups for channel slugs.
type Service struct {
	byChannel map[string]string
}

// NewService builds the channel map from STREAM_* environment overrides:
// the env suffix RTL_KLUB becomes the channel slug rtl-klub.
func NewService(overrides map[string]string) *Service {
	byChannel := make(map[string]string, len(overrides))
	for suffix, url := range overrides {
		slug := utils.Slugify(strings.ReplaceAll(suffix, "_", "-"))
		if slug == "" {
			continue
		}
		byChannel[slug] = url
	}
	return &Service{byChannel: byChannel}
}

// Count is the number of configured channel streams.
func (s *Service) Count() int {
	return len(s.byChannel)
}

// Lookup returns the streams configured for a channel slug. Missing
// channels yield an empty list, never an error.
func (s *Service) Lookup(channelSlug string) []models.Stream {
	url, ok := s.byChannel[channelSlug]
	if !ok {
		return []models.Stream{}
	}
	return []models.Stream{{
		URL:   url,
		Name:  "Élő TV",
		Title: "Élő adás • " + channelSlug,
	}}
}
