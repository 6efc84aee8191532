// Package catalog turns raw scraped listings into the Stremio catalog:
// fetch, film filter, time-window filter, IMDb enrichment, per-preset
// caching and accent-insensitive search.
package catalog

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"huliveaddon/internal/ttlcache"
	"huliveaddon/models"
	"huliveaddon/utils"

	"github.com/sourcegraph/conc/pool"
)

const (
	// syntheticIDPrefix marks catalog ids built from listing attributes when
	// no IMDb id could be resolved.
	syntheticIDPrefix = "musortv"

	catalogCacheSize = 64

	// enrichConcurrency bounds parallel IMDb lookups within one catalog
	// build; the imdb service's own rate limiter is the hard ceiling.
	enrichConcurrency = 5
)

// Fetcher supplies raw listings; implemented by the scraper service.
type Fetcher interface {
	Fetch(ctx context.Context, force bool) []models.RawListing
}

// Resolver supplies IMDb ids; implemented by the imdb service.
type Resolver interface {
	Enabled() bool
	Lookup(ctx context.Context, title string, year int) string
}

// Service builds and caches catalog entries per time preset.
type Service struct {
	fetcher Fetcher
	imdb    Resolver
	cache   *ttlcache.Cache[[]models.MetaPreview]
	loc     *time.Location
	now     func() time.Time
}

// NewService wires the catalog pipeline. cacheTTL bounds how stale a served
// catalog may be.
func NewService(fetcher Fetcher, imdb Resolver, cacheTTL time.Duration, loc *time.Location) *Service {
	return &Service{
		fetcher: fetcher,
		imdb:    imdb,
		cache:   ttlcache.New[[]models.MetaPreview](catalogCacheSize, cacheTTL),
		loc:     loc,
		now:     time.Now,
	}
}

// Catalog returns catalog entries for a time preset, filtered by an optional
// accent-insensitive search query. The per-preset cache stores entries
// before search filtering so every query shares one cached build.
func (s *Service) Catalog(ctx context.Context, preset, search string) []models.MetaPreview {
	preset = NormalizePreset(preset)
	key := "catalog:" + preset

	metas, ok := s.cache.Get(key)
	if !ok {
		metas = s.build(ctx, preset)
		s.cache.Set(key, metas)
	} else {
		log.Printf("[catalog] cache hit preset=%s entries=%d", preset, len(metas))
	}

	return filterBySearch(metas, search)
}

// build runs one full catalog construction for a preset.
func (s *Service) build(ctx context.Context, preset string) []models.MetaPreview {
	log.Printf("[catalog] cache miss, building preset=%s", preset)

	raw := s.fetcher.Fetch(ctx, false)
	window := ComputeWindow(preset, s.now().In(s.loc))

	var filtered []models.RawListing
	for _, l := range raw {
		if IsProbablyFilm(l.Category) && window.Contains(l.Start) {
			filtered = append(filtered, l)
		}
	}
	log.Printf("[catalog] preset=%s raw=%d filtered=%d", preset, len(raw), len(filtered))

	ids := s.enrich(ctx, filtered)

	metas := make([]models.MetaPreview, 0, len(filtered))
	for i, l := range filtered {
		id := ids[i]
		if id == "" {
			id = SyntheticID(l.Channel, l.Start, l.Title)
		}
		metas = append(metas, models.MetaPreview{
			ID:          id,
			Type:        "movie",
			Name:        l.Title,
			ReleaseInfo: ReleaseLabel(l.Start, l.Channel),
			Poster:      l.Poster,
			Genres:      ParseGenres(l.Category),
		})
	}
	return metas
}

// enrich resolves IMDb ids for listings with bounded concurrency. Results
// are indexed so entry order stays deterministic.
func (s *Service) enrich(ctx context.Context, listings []models.RawListing) []string {
	ids := make([]string, len(listings))
	if !s.imdb.Enabled() {
		return ids
	}

	p := pool.New().WithMaxGoroutines(enrichConcurrency)
	for i, l := range listings {
		p.Go(func() {
			ids[i] = s.imdb.Lookup(ctx, l.Title, yearFromCategory(l.Category))
		})
	}
	p.Wait()
	return ids
}

// FindListing locates the raw listing behind a synthetic catalog id, or nil
// when the programme is no longer in the scrape window.
func (s *Service) FindListing(ctx context.Context, channelSlug string, start int64, titleSlug string) *models.RawListing {
	for _, l := range s.fetcher.Fetch(ctx, false) {
		if !IsProbablyFilm(l.Category) {
			continue
		}
		if utils.Slugify(l.Channel) == channelSlug &&
			l.Start.Unix() == start &&
			utils.Slugify(l.Title) == titleSlug {
			listing := l
			return &listing
		}
	}
	return nil
}

// filterBySearch keeps entries whose normalized title contains the
// normalized query. An empty query keeps everything.
func filterBySearch(metas []models.MetaPreview, search string) []models.MetaPreview {
	needle := utils.NormalizeForSearch(search)
	if needle == "" {
		return metas
	}
	var out []models.MetaPreview
	for _, m := range metas {
		if strings.Contains(utils.NormalizeForSearch(m.Name), needle) {
			out = append(out, m)
		}
	}
	if out == nil {
		out = []models.MetaPreview{}
	}
	return out
}

// SyntheticID builds the fallback catalog id. The (channel, start, title)
// triple is distinct within one scrape result set, so the id is unique.
func SyntheticID(channel string, start time.Time, title string) string {
	return fmt.Sprintf("%s:%s:%d:%s", syntheticIDPrefix, utils.Slugify(channel), start.Unix(), utils.Slugify(title))
}

// ParseSyntheticID splits a synthetic id back into its components.
func ParseSyntheticID(id string) (channelSlug string, start int64, titleSlug string, ok bool) {
	parts := strings.Split(id, ":")
	if len(parts) != 4 || parts[0] != syntheticIDPrefix {
		return "", 0, "", false
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, "", false
	}
	return parts[1], ts, parts[3], true
}

// IsIMDBID reports whether an id looks like an IMDb identifier (tt1234567).
func IsIMDBID(id string) bool {
	if !strings.HasPrefix(id, "tt") || len(id) < 3 {
		return false
	}
	for _, r := range id[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ReleaseLabel renders the catalog's "HH:MM • Channel" byline.
func ReleaseLabel(start time.Time, channel string) string {
	return start.Format("15:04") + " • " + channel
}
