package imdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

var (
	errRateLimited  = errors.New("tmdb rate limit exceeded")
	errUnauthorized = errors.New("tmdb authentication failed")
)

// tmdbClient talks to the TMDB v3 API. It accepts either a v3 API key or a
// v4 bearer token (JWTs start with "eyJ").
type tmdbClient struct {
	apiKey     string
	bearer     bool
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newTMDBClient(apiKey string, ratePerSec int, httpClient *http.Client) *tmdbClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &tmdbClient{
		apiKey:     apiKey,
		bearer:     strings.HasPrefix(apiKey, "eyJ"),
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c.apiKey != ""
}

// searchMovie returns the TMDB ID of the best match for title, or 0 when
// TMDB has no result in the given language.
func (c *tmdbClient) searchMovie(ctx context.Context, title string, year int, language string) (int64, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("language", language)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var resp struct {
		Results []struct {
			ID int64 `json:"id"`
		} `json:"results"`
	}
	if err := c.doGET(ctx, "/search/movie", params, &resp); err != nil {
		return 0, err
	}
	if len(resp.Results) == 0 {
		return 0, nil
	}
	return resp.Results[0].ID, nil
}

// externalIMDBID resolves the IMDb identifier for a TMDB movie. Returns ""
// when TMDB knows the movie but has no IMDb mapping.
func (c *tmdbClient) externalIMDBID(ctx context.Context, tmdbID int64) (string, error) {
	var resp struct {
		IMDBID string `json:"imdb_id"`
	}
	if err := c.doGET(ctx, fmt.Sprintf("/movie/%d/external_ids", tmdbID), nil, &resp); err != nil {
		return "", err
	}
	if !strings.HasPrefix(resp.IMDBID, "tt") {
		return "", nil
	}
	return resp.IMDBID, nil
}

func (c *tmdbClient) doGET(ctx context.Context, path string, params url.Values, out any) error {
	if !c.limiter.Allow() {
		return errRateLimited
	}

	if params == nil {
		params = url.Values{}
	}
	if !c.bearer {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	if c.bearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusTooManyRequests:
		return errRateLimited
	case http.StatusUnauthorized:
		return errUnauthorized
	default:
		return fmt.Errorf("tmdb returned status %d", resp.StatusCode)
	}
}
