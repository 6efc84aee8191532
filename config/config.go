package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings for the addon. Every field has a default
// so the addon runs with no environment at all (enrichment simply stays off
// until TMDB_API_KEY is provided).
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// ScrapeRate is the minimum interval between two scrapes of musor.tv.
	ScrapeRate time.Duration

	// ScrapePages are the listing pages to scrape, in order.
	ScrapePages []string

	// CatalogTTL is how long a built catalog stays cached per time preset.
	CatalogTTL time.Duration

	// TMDBAPIKey authenticates IMDb ID lookups against TMDB. May be a v3 API
	// key or a v4 bearer token.
	TMDBAPIKey string

	// IMDBLookupEnabled globally toggles enrichment. Even when true, lookups
	// are skipped while TMDBAPIKey is empty.
	IMDBLookupEnabled bool

	// IMDBCacheTTL is how long IMDb lookup results (including confirmed
	// misses) stay cached.
	IMDBCacheTTL time.Duration

	// IMDBRatePerSec caps outbound TMDB requests per second.
	IMDBRatePerSec int

	// Location is the timezone all listing times are interpreted in.
	Location *time.Location
}

const (
	defaultPort           = 7000
	defaultScrapeRateMS   = 30000
	defaultCatalogTTLMin  = 10
	defaultIMDBTTLDays    = 7
	defaultIMDBRatePerSec = 40
	defaultTimezone       = "Europe/Budapest"
)

var defaultPages = []string{
	"https://musor.tv/most/tvben",
	"https://musor.tv/filmek",
}

// Load builds a Config from the environment.
func Load() Config {
	cfg := Config{
		Port:              envInt("PORT", defaultPort),
		ScrapeRate:        time.Duration(envInt("SCRAPE_RATE_MS", defaultScrapeRateMS)) * time.Millisecond,
		ScrapePages:       envList("SCRAPE_PAGES", defaultPages),
		CatalogTTL:        time.Duration(envInt("CACHE_TTL_MIN", defaultCatalogTTLMin)) * time.Minute,
		TMDBAPIKey:        strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
		IMDBLookupEnabled: envBool("IMDB_LOOKUP_ENABLED", true),
		IMDBCacheTTL:      time.Duration(envInt("IMDB_CACHE_TTL_DAYS", defaultIMDBTTLDays)) * 24 * time.Hour,
		IMDBRatePerSec:    envInt("IMDB_RATE_LIMIT_PER_SEC", defaultIMDBRatePerSec),
	}

	tz := envString("ADDON_TZ", defaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("[config] invalid timezone %q, falling back to local: %v", tz, err)
		loc = time.Local
	}
	cfg.Location = loc

	return cfg
}

// ChannelStreams collects STREAM_* environment overrides mapping channel env
// suffixes to stream URLs, e.g. STREAM_RTL_KLUB=https://... Operators use
// these to attach playable streams to catalog channels.
func ChannelStreams() map[string]string {
	streams := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, "STREAM_") {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		streams[strings.TrimPrefix(name, "STREAM_")] = value
	}
	return streams
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1" || v == "yes"
}

func envList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
