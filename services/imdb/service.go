// Package imdb resolves IMDb identifiers for scraped movie titles through
// the TMDB search API. Lookups are cached for days, including confirmed
// misses, so repeated catalog builds do not re-query TMDB for titles it
// does not know.
package imdb

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"huliveaddon/internal/ttlcache"
	"huliveaddon/utils"
)

const cacheMaxSize = 1000

// Service performs cached IMDb ID lookups. The zero-config Service (no API
// key or disabled) is valid and answers every lookup with a miss.
type Service struct {
	client  *tmdbClient
	cache   *ttlcache.Cache[string]
	enabled bool
}

// NewService builds the lookup service. apiKey may be empty; the addon then
// runs on synthetic catalog ids only.
func NewService(apiKey string, enabled bool, cacheTTL time.Duration, ratePerSec int) *Service {
	return &Service{
		client:  newTMDBClient(apiKey, ratePerSec, &http.Client{Timeout: 5 * time.Second}),
		cache:   ttlcache.New[string](cacheMaxSize, cacheTTL),
		enabled: enabled,
	}
}

// Enabled reports whether lookups are switched on and configured.
func (s *Service) Enabled() bool {
	return s.enabled && s.client.isConfigured()
}

// Lookup resolves the IMDb ID for a title, optionally narrowed by release
// year (0 = unknown). Returns "" when no ID could be resolved. Confirmed
// not-found answers are cached; transport and rate-limit failures are not,
// so a transient outage does not suppress a title for the full cache TTL.
func (s *Service) Lookup(ctx context.Context, title string, year int) string {
	if !s.Enabled() {
		return ""
	}

	key := cacheKey(title, year)
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	// Hungarian titles first, then the default TMDB language.
	tmdbID, err := s.client.searchMovie(ctx, title, year, "hu-HU")
	if err == nil && tmdbID == 0 {
		tmdbID, err = s.client.searchMovie(ctx, title, year, "en-US")
	}
	if err != nil {
		s.logLookupError(title, err)
		return ""
	}
	if tmdbID == 0 {
		s.cache.Set(key, "")
		return ""
	}

	imdbID, err := s.client.externalIMDBID(ctx, tmdbID)
	if err != nil {
		s.logLookupError(title, err)
		return ""
	}

	s.cache.Set(key, imdbID)
	if imdbID != "" {
		log.Printf("[imdb] resolved title=%q year=%d imdbId=%s", title, year, imdbID)
	}
	return imdbID
}

func (s *Service) logLookupError(title string, err error) {
	switch {
	case errors.Is(err, errRateLimited):
		log.Printf("[imdb] rate limited, skipping lookup title=%q", title)
	case errors.Is(err, errUnauthorized):
		log.Printf("[imdb] authentication failed, check TMDB_API_KEY")
	default:
		log.Printf("[imdb] lookup failed title=%q err=%v", title, err)
	}
}

// Stats describes the lookup configuration and cache fill for the health
// endpoint.
func (s *Service) Stats() map[string]any {
	return map[string]any{
		"enabled":            s.enabled,
		"api_key_configured": s.client.isConfigured(),
		"cache": map[string]any{
			"size":     s.cache.Len(),
			"maxsize":  s.cache.MaxSize(),
			"ttl_days": int(s.cache.TTL().Hours() / 24),
		},
	}
}

// cacheKey hashes the normalized title and year so accents and casing do not
// split cache entries.
func cacheKey(title string, year int) string {
	normalized := utils.NormalizeForSearch(title)
	yearStr := ""
	if year > 0 {
		yearStr = strconv.Itoa(year)
	}
	h := sha1.Sum([]byte(normalized + ":" + yearStr))
	return hex.EncodeToString(h[:])
}
