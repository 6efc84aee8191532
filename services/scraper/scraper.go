package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"huliveaddon/models"

	"github.com/avast/retry-go/v4"
	"github.com/chromedp/chromedp"
)

const (
	navigationTimeout      = 90 * time.Second
	navigationRetries uint = 3
	navigationDelay        = 2 * time.Second

	// Unhealthy after this many consecutive failed scrape cycles.
	maxConsecutiveErrors = 3

	userAgent = "Mozilla/5.0 (compatible; HULiveAddon/1.0; +https://musor.tv)"
)

// dismissCookieScript clicks the musor.tv cookie-consent button when the
// overlay is present. Returns whether a button was clicked.
const dismissCookieScript = `(() => {
	const buttons = document.querySelectorAll('button');
	for (const b of buttons) {
		const text = (b.textContent || '').trim();
		if (text.includes('Elfogadom') || text.includes('Accept')) {
			b.click();
			return true;
		}
	}
	return false;
})()`

// Scraper owns the single headless browser session used to scrape musor.tv
// listing pages. All fetches are serialized: concurrent callers share one
// in-flight scrape instead of triggering parallel browser work, and completed
// results are reused for rateLimit after the last fetch.
type Scraper struct {
	pages     []string
	rateLimit time.Duration
	loc       *time.Location

	// now is the clock; swapped out in tests.
	now func() time.Time

	// fetchPage navigates to a listing page and returns its rendered HTML.
	// Defaults to chromedp navigation; tests replace it.
	fetchPage func(ctx context.Context, url string) (string, error)

	retryAttempts uint
	retryDelay    time.Duration

	mu           sync.Mutex
	inflight     *inflightFetch
	lastFetchAt  time.Time
	lastResult   []models.RawListing
	browserCtx   context.Context
	cancelBrowse context.CancelFunc
	cancelAlloc  context.CancelFunc
	closed       bool

	lastSuccessAt     time.Time
	lastErrorAt       time.Time
	lastError         string
	totalErrors       int
	consecutiveErrors int
}

// inflightFetch lets concurrent callers wait on one scrape and read its
// result once done is closed.
type inflightFetch struct {
	done   chan struct{}
	result []models.RawListing
}

// New creates a Scraper for the given listing pages. The browser is not
// started until the first fetch needs it.
func New(pages []string, rateLimit time.Duration, loc *time.Location) *Scraper {
	s := &Scraper{
		pages:         pages,
		rateLimit:     rateLimit,
		loc:           loc,
		now:           time.Now,
		retryAttempts: navigationRetries,
		retryDelay:    navigationDelay,
	}
	s.fetchPage = s.fetchPageChrome
	return s
}

// Fetch returns the current list of raw listings. When force is false, an
// in-flight scrape or a result newer than the rate limit is reused. When
// force is true a fresh scrape always runs, though it still joins an already
// running one. Fetch never returns an error: scrape failures degrade to the
// last known result, or an empty list when there is none.
func (s *Scraper) Fetch(ctx context.Context, force bool) []models.RawListing {
	s.mu.Lock()
	if fl := s.inflight; fl != nil {
		last := s.lastResult
		s.mu.Unlock()
		log.Printf("[scraper] joining in-flight fetch")
		select {
		case <-fl.done:
			return fl.result
		case <-ctx.Done():
			// Degrade the same way a failed scrape does, so a caller that
			// gives up waiting never observes an artificially empty catalog.
			if last == nil {
				last = []models.RawListing{}
			}
			return last
		}
	}
	if !force && !s.lastFetchAt.IsZero() && s.now().Sub(s.lastFetchAt) < s.rateLimit {
		result := s.lastResult
		s.mu.Unlock()
		log.Printf("[scraper] rate limit active, returning cached result items=%d", len(result))
		return result
	}
	fl := &inflightFetch{done: make(chan struct{})}
	s.inflight = fl
	s.mu.Unlock()

	result, err := s.scrape(ctx)

	s.mu.Lock()
	s.lastFetchAt = s.now()
	if err != nil {
		s.lastErrorAt = s.now()
		s.lastError = err.Error()
		s.totalErrors++
		s.consecutiveErrors++
		log.Printf("[scraper] fetch failed consecutive=%d err=%v", s.consecutiveErrors, err)
		// Degrade to the last good result rather than dropping the catalog.
		if result == nil {
			result = s.lastResult
		}
	} else {
		s.lastSuccessAt = s.now()
		s.consecutiveErrors = 0
	}
	if result == nil {
		result = []models.RawListing{}
	}
	s.lastResult = result
	s.inflight = nil
	s.mu.Unlock()

	fl.result = result
	close(fl.done)
	return result
}

// scrape walks every configured page. A page that fails to load or parse is
// logged and skipped; scrape only reports an error when no page yielded any
// listings.
func (s *Scraper) scrape(ctx context.Context) ([]models.RawListing, error) {
	var results []models.RawListing
	var pagesOK int
	var lastErr error

	for _, url := range s.pages {
		html, err := s.fetchPageWithRetry(ctx, url)
		if err != nil {
			log.Printf("[scraper] failed to scrape url=%s err=%v", url, err)
			lastErr = err
			continue
		}
		listings, err := parsePage(html, s.now().In(s.loc), s.loc)
		if err != nil {
			log.Printf("[scraper] failed to parse url=%s err=%v", url, err)
			lastErr = err
			continue
		}
		log.Printf("[scraper] scraped url=%s listings=%d", url, len(listings))
		results = append(results, listings...)
		pagesOK++
	}

	if pagesOK == 0 {
		if lastErr == nil {
			lastErr = errors.New("no pages configured")
		}
		return nil, fmt.Errorf("all listing pages failed: %w", lastErr)
	}

	deduped := dedupe(results)
	log.Printf("[scraper] fetch complete raw=%d deduped=%d", len(results), len(deduped))
	return deduped, nil
}

// fetchPageWithRetry wraps one page navigation in a bounded retry loop with
// exponential backoff.
func (s *Scraper) fetchPageWithRetry(ctx context.Context, url string) (string, error) {
	var html string
	err := retry.Do(
		func() error {
			var err error
			html, err = s.fetchPage(ctx, url)
			return err
		},
		retry.Attempts(s.retryAttempts),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			log.Printf("[scraper] attempt %d/%d failed url=%s err=%v", attempt+1, s.retryAttempts, url, err)
		}),
	)
	return html, err
}

// fetchPageChrome navigates a fresh tab of the shared browser to the page,
// best-effort dismisses the cookie overlay and returns the rendered HTML.
func (s *Scraper) fetchPageChrome(ctx context.Context, url string) (string, error) {
	browserCtx, err := s.ensureBrowser(ctx)
	if err != nil {
		return "", fmt.Errorf("start browser: %w", err)
	}

	tab, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tab, navigationTimeout)
	defer cancelTimeout()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}

	// Cookie overlay handling is best effort; the listings are readable
	// either way.
	var clicked bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(dismissCookieScript, &clicked)); err != nil {
		log.Printf("[scraper] cookie dismiss failed url=%s err=%v", url, err)
	} else if clicked {
		_ = chromedp.Run(tabCtx, chromedp.Sleep(2*time.Second))
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("read page %s: %w", url, err)
	}
	return html, nil
}

// ensureBrowser lazily starts the shared headless browser.
func (s *Scraper) ensureBrowser(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("scraper closed")
	}
	if s.browserCtx != nil {
		return s.browserCtx, nil
	}

	log.Printf("[scraper] starting headless browser")
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowse := chromedp.NewContext(allocCtx)

	// Launch the browser process now so startup failure is reported here
	// instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowse()
		cancelAlloc()
		return nil, err
	}

	s.browserCtx = browserCtx
	s.cancelBrowse = cancelBrowse
	s.cancelAlloc = cancelAlloc
	log.Printf("[scraper] browser started")
	return browserCtx, nil
}

// Close shuts down the browser session. Safe to call more than once.
func (s *Scraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.cancelBrowse != nil {
		log.Printf("[scraper] closing browser")
		s.cancelBrowse()
		s.cancelAlloc()
		s.browserCtx = nil
	}
}

// Status is the scraper health snapshot served by the health endpoint.
type Status struct {
	Healthy           bool   `json:"healthy"`
	Initialized       bool   `json:"initialized"`
	LastSuccessAt     int64  `json:"last_success_at,omitempty"`
	LastErrorAt       int64  `json:"last_error_at,omitempty"`
	LastError         string `json:"last_error,omitempty"`
	TotalErrors       int    `json:"total_errors"`
	ConsecutiveErrors int    `json:"consecutive_errors"`
}

// Status reports scrape health for external monitoring.
func (s *Scraper) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Healthy:           s.consecutiveErrors < maxConsecutiveErrors,
		Initialized:       s.browserCtx != nil,
		LastError:         s.lastError,
		TotalErrors:       s.totalErrors,
		ConsecutiveErrors: s.consecutiveErrors,
	}
	if !s.lastSuccessAt.IsZero() {
		st.LastSuccessAt = s.lastSuccessAt.UnixMilli()
	}
	if !s.lastErrorAt.IsZero() {
		st.LastErrorAt = s.lastErrorAt.UnixMilli()
	}
	return st
}
