package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SCRAPE_RATE_MS", "SCRAPE_PAGES", "CACHE_TTL_MIN",
		"TMDB_API_KEY", "IMDB_LOOKUP_ENABLED", "IMDB_CACHE_TTL_DAYS", "IMDB_RATE_LIMIT_PER_SEC", "ADDON_TZ"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != 7000 {
		t.Errorf("Port = %d, want 7000", cfg.Port)
	}
	if cfg.ScrapeRate != 30*time.Second {
		t.Errorf("ScrapeRate = %v, want 30s", cfg.ScrapeRate)
	}
	if len(cfg.ScrapePages) != 2 {
		t.Errorf("ScrapePages = %v", cfg.ScrapePages)
	}
	if cfg.CatalogTTL != 10*time.Minute {
		t.Errorf("CatalogTTL = %v, want 10m", cfg.CatalogTTL)
	}
	if !cfg.IMDBLookupEnabled {
		t.Error("IMDBLookupEnabled should default to true")
	}
	if cfg.IMDBCacheTTL != 7*24*time.Hour {
		t.Errorf("IMDBCacheTTL = %v, want 168h", cfg.IMDBCacheTTL)
	}
	if cfg.IMDBRatePerSec != 40 {
		t.Errorf("IMDBRatePerSec = %d, want 40", cfg.IMDBRatePerSec)
	}
	if cfg.Location.String() != "Europe/Budapest" {
		t.Errorf("Location = %v, want Europe/Budapest", cfg.Location)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SCRAPE_RATE_MS", "60000")
	t.Setenv("SCRAPE_PAGES", "https://musor.tv/most/tvben, https://musor.tv/most2,")
	t.Setenv("CACHE_TTL_MIN", "5")
	t.Setenv("TMDB_API_KEY", "  secret  ")
	t.Setenv("IMDB_LOOKUP_ENABLED", "false")
	t.Setenv("ADDON_TZ", "UTC")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ScrapeRate != time.Minute {
		t.Errorf("ScrapeRate = %v, want 1m", cfg.ScrapeRate)
	}
	if len(cfg.ScrapePages) != 2 || cfg.ScrapePages[1] != "https://musor.tv/most2" {
		t.Errorf("ScrapePages = %v", cfg.ScrapePages)
	}
	if cfg.CatalogTTL != 5*time.Minute {
		t.Errorf("CatalogTTL = %v, want 5m", cfg.CatalogTTL)
	}
	if cfg.TMDBAPIKey != "secret" {
		t.Errorf("TMDBAPIKey = %q, want trimmed value", cfg.TMDBAPIKey)
	}
	if cfg.IMDBLookupEnabled {
		t.Error("IMDBLookupEnabled = true, want false")
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("ADDON_TZ", "Mars/Olympus_Mons")

	cfg := Load()
	if cfg.Port != 7000 {
		t.Errorf("Port = %d, want default 7000 on parse failure", cfg.Port)
	}
	if cfg.Location == nil {
		t.Error("Location = nil, want local fallback")
	}
}

func TestChannelStreams(t *testing.T) {
	t.Setenv("STREAM_RTL_KLUB", "https://example.org/rtl.m3u8")
	t.Setenv("STREAM_EMPTY", "   ")
	t.Setenv("NOT_A_STREAM", "https://example.org/x")

	streams := ChannelStreams()
	if streams["RTL_KLUB"] != "https://example.org/rtl.m3u8" {
		t.Errorf("streams = %v", streams)
	}
	if _, ok := streams["EMPTY"]; ok {
		t.Error("blank stream value must be skipped")
	}
	if _, ok := streams["NOT_A_STREAM"]; ok {
		t.Error("non-STREAM_ variables must be ignored")
	}
}
