package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"huliveaddon/api"
	"huliveaddon/config"
	"huliveaddon/handlers"
	"huliveaddon/services/catalog"
	"huliveaddon/services/imdb"
	"huliveaddon/services/scraper"
	"huliveaddon/services/streams"
	"huliveaddon/utils"

	"golang.org/x/time/rate"
)

func main() {
	cfg := config.Load()

	log.Printf("[main] starting HU live movies addon port=%d scrapeRate=%s catalogTTL=%s imdbLookup=%v",
		cfg.Port, cfg.ScrapeRate, cfg.CatalogTTL, cfg.IMDBLookupEnabled)

	scrape := scraper.New(cfg.ScrapePages, cfg.ScrapeRate, cfg.Location)
	defer scrape.Close()

	imdbSvc := imdb.NewService(cfg.TMDBAPIKey, cfg.IMDBLookupEnabled, cfg.IMDBCacheTTL, cfg.IMDBRatePerSec)
	catalogSvc := catalog.NewService(scrape, imdbSvc, cfg.CatalogTTL, cfg.Location)
	streamSvc := streams.NewService(config.ChannelStreams())
	if n := streamSvc.Count(); n > 0 {
		log.Printf("[main] %d channel streams configured", n)
	}

	router := utils.NewRouter()
	router.Use(api.LoggingMiddleware)
	limiter := api.NewIPRateLimiter(rate.Limit(10), 20)
	router.Use(limiter.Middleware)

	manifestHandler := &handlers.ManifestHandler{}
	catalogHandler := handlers.NewCatalogHandler(catalogSvc)
	metaHandler := handlers.NewMetaHandler(catalogSvc)
	streamHandler := handlers.NewStreamHandler(streamSvc)
	healthHandler := handlers.NewHealthHandler(scrape, imdbSvc)

	router.HandleFunc("/", handlers.GetRoot).Methods(http.MethodGet)
	router.HandleFunc("/favicon.ico", handlers.GetFavicon).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthHandler.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/manifest.json", manifestHandler.GetManifest).Methods(http.MethodGet)
	router.HandleFunc("/catalog/{type}/{id}.json", catalogHandler.GetCatalog).Methods(http.MethodGet)
	router.HandleFunc("/meta/{type}/{id}.json", metaHandler.GetMeta).Methods(http.MethodGet)
	router.HandleFunc("/stream/{type}/{id}.json", streamHandler.GetStream).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[main] server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
	log.Printf("[main] bye")
}
