package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"huliveaddon/models"
	"huliveaddon/services/catalog"
	"huliveaddon/services/imdb"
	"huliveaddon/services/scraper"
	"huliveaddon/services/streams"

	"github.com/gorilla/mux"
)

type stubFetcher struct {
	listings []models.RawListing
}

func (f *stubFetcher) Fetch(ctx context.Context, force bool) []models.RawListing {
	return f.listings
}

type stubResolver struct{}

func (stubResolver) Enabled() bool { return false }

func (stubResolver) Lookup(ctx context.Context, title string, year int) string { return "" }

// testListing starts 30 minutes from now so it lands inside every preset
// window built against the real clock.
func testListing() models.RawListing {
	return models.RawListing{
		Title:    "Mátrix",
		Start:    time.Now().Add(30 * time.Minute).Truncate(time.Second),
		Channel:  "RTL Klub",
		Category: "amerikai sci-fi akciófilm (1999)",
		Poster:   "https://musor.tv/i/matrix.jpg",
	}
}

func newTestRouter(listings []models.RawListing, streamOverrides map[string]string) *mux.Router {
	catalogSvc := catalog.NewService(&stubFetcher{listings: listings}, stubResolver{}, time.Minute, time.Local)
	streamSvc := streams.NewService(streamOverrides)

	r := mux.NewRouter()
	r.HandleFunc("/manifest.json", (&ManifestHandler{}).GetManifest).Methods("GET")
	r.HandleFunc("/catalog/{type}/{id}.json", NewCatalogHandler(catalogSvc).GetCatalog).Methods("GET")
	r.HandleFunc("/meta/{type}/{id}.json", NewMetaHandler(catalogSvc).GetMeta).Methods("GET")
	r.HandleFunc("/stream/{type}/{id}.json", NewStreamHandler(streamSvc).GetStream).Methods("GET")
	return r
}

func doGET(t *testing.T, router *mux.Router, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", path, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("GET %s content type = %q", path, ct)
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("GET %s: decoding response: %v", path, err)
		}
	}
	return rec
}

func TestGetManifest(t *testing.T) {
	router := newTestRouter(nil, nil)

	var m models.Manifest
	doGET(t, router, "/manifest.json", &m)

	if m.ID != "hu.live.movies" {
		t.Errorf("manifest id = %q", m.ID)
	}
	if len(m.Resources) != 3 || len(m.Types) != 1 || m.Types[0] != "movie" {
		t.Errorf("manifest resources/types = %v / %v", m.Resources, m.Types)
	}
	if len(m.Catalogs) != 1 || m.Catalogs[0].ID != "hu-live" {
		t.Fatalf("manifest catalogs = %+v", m.Catalogs)
	}

	var timeOptions []string
	for _, extra := range m.Catalogs[0].Extra {
		if extra.Name == "time" {
			timeOptions = extra.Options
		}
	}
	if len(timeOptions) != 3 {
		t.Errorf("time extra options = %v, want now/next2h/tonight", timeOptions)
	}
}

func TestGetCatalog(t *testing.T) {
	router := newTestRouter([]models.RawListing{testListing()}, nil)

	var resp models.CatalogResponse
	doGET(t, router, "/catalog/movie/hu-live.json?time=now", &resp)
	if len(resp.Metas) != 1 || resp.Metas[0].Name != "Mátrix" {
		t.Fatalf("catalog metas = %+v", resp.Metas)
	}
	if !strings.HasPrefix(resp.Metas[0].ID, "musortv:") {
		t.Errorf("expected synthetic id, got %q", resp.Metas[0].ID)
	}
}

func TestGetCatalogSearch(t *testing.T) {
	router := newTestRouter([]models.RawListing{testListing()}, nil)

	var resp models.CatalogResponse
	doGET(t, router, "/catalog/movie/hu-live.json?search=matrix", &resp)
	if len(resp.Metas) != 1 {
		t.Errorf("search=matrix metas = %+v", resp.Metas)
	}

	doGET(t, router, "/catalog/movie/hu-live.json?search=nincstalalat", &resp)
	if resp.Metas == nil || len(resp.Metas) != 0 {
		t.Errorf("no-match search metas = %+v, want empty array", resp.Metas)
	}
}

func TestGetCatalogUnknownID(t *testing.T) {
	router := newTestRouter([]models.RawListing{testListing()}, nil)

	var resp models.CatalogResponse
	doGET(t, router, "/catalog/movie/other-catalog.json", &resp)
	if len(resp.Metas) != 0 {
		t.Errorf("unknown catalog metas = %+v, want empty", resp.Metas)
	}

	doGET(t, router, "/catalog/series/hu-live.json", &resp)
	if len(resp.Metas) != 0 {
		t.Errorf("series catalog metas = %+v, want empty", resp.Metas)
	}
}

func TestGetMetaSynthetic(t *testing.T) {
	listing := testListing()
	router := newTestRouter([]models.RawListing{listing}, nil)
	id := catalog.SyntheticID(listing.Channel, listing.Start, listing.Title)

	var resp models.MetaResponse
	doGET(t, router, "/meta/movie/"+id+".json", &resp)
	if resp.Meta == nil {
		t.Fatal("meta = null for valid synthetic id")
	}
	if resp.Meta.Name != "Mátrix" || resp.Meta.ID != id {
		t.Errorf("meta = %+v", resp.Meta)
	}
	if !strings.Contains(resp.Meta.Description, "RTL Klub") {
		t.Errorf("description missing channel: %q", resp.Meta.Description)
	}
	if !strings.Contains(resp.Meta.Description, "Csatorna") {
		t.Errorf("description missing labels: %q", resp.Meta.Description)
	}
}

func TestGetMetaMisses(t *testing.T) {
	listing := testListing()
	router := newTestRouter([]models.RawListing{listing}, nil)

	var resp models.MetaResponse
	// A programme that fell out of the scrape window.
	doGET(t, router, "/meta/movie/musortv:rtl-klub:1:eltunt-film.json", &resp)
	if resp.Meta != nil {
		t.Errorf("stale id resolved to %+v", resp.Meta)
	}

	doGET(t, router, "/meta/movie/garbage-id.json", &resp)
	if resp.Meta != nil {
		t.Errorf("garbage id resolved to %+v", resp.Meta)
	}

	id := catalog.SyntheticID(listing.Channel, listing.Start, listing.Title)
	doGET(t, router, "/meta/series/"+id+".json", &resp)
	if resp.Meta != nil {
		t.Errorf("series type resolved to %+v", resp.Meta)
	}
}

func TestGetStream(t *testing.T) {
	listing := testListing()
	router := newTestRouter([]models.RawListing{listing}, map[string]string{
		"RTL_KLUB": "https://example.org/rtl.m3u8",
	})
	id := catalog.SyntheticID(listing.Channel, listing.Start, listing.Title)

	var resp models.StreamResponse
	doGET(t, router, "/stream/movie/"+id+".json", &resp)
	if len(resp.Streams) != 1 || resp.Streams[0].URL != "https://example.org/rtl.m3u8" {
		t.Errorf("streams = %+v", resp.Streams)
	}

	// IMDb ids belong to stream provider addons, not us.
	doGET(t, router, "/stream/movie/tt0133093.json", &resp)
	if resp.Streams == nil || len(resp.Streams) != 0 {
		t.Errorf("imdb id streams = %+v, want empty array", resp.Streams)
	}
}

func TestGetStreamUnconfiguredChannel(t *testing.T) {
	listing := testListing()
	router := newTestRouter([]models.RawListing{listing}, nil)
	id := catalog.SyntheticID(listing.Channel, listing.Start, listing.Title)

	var resp models.StreamResponse
	doGET(t, router, "/stream/movie/"+id+".json", &resp)
	if resp.Streams == nil || len(resp.Streams) != 0 {
		t.Errorf("streams = %+v, want empty array", resp.Streams)
	}
}

func TestGetHealth(t *testing.T) {
	s := scraper.New([]string{"https://musor.tv/most/tvben"}, time.Minute, time.Local)
	defer s.Close()
	i := imdb.NewService("", false, time.Hour, 40)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", NewHealthHandler(s, i).GetHealth).Methods("GET")

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if body["ok"] != true {
		t.Errorf("fresh scraper reported unhealthy: %v", body)
	}
	for _, key := range []string{"ts", "scraper", "imdb_lookup"} {
		if _, present := body[key]; !present {
			t.Errorf("health response missing %q: %v", key, body)
		}
	}
}
