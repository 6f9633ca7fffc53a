// Package omdb provides a client for the OMDb movie metadata API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
)

// ErrNotFound is returned when OMDb has no record for the requested
// title or id. Callers treat it the same as an empty search result.
var ErrNotFound = errors.New("omdb: not found")

// SearchResult is one entry from a title search
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Poster string `json:"Poster"`
}

// Movie is a full OMDb record
type Movie struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Genre  string `json:"Genre"`
	Poster string `json:"Poster"`
	IMDBID string `json:"imdbID"`
}

// searchResponse is the wire shape of a search query
type searchResponse struct {
	Search   []SearchResult `json:"Search"`
	Response string         `json:"Response"`
	Error    string         `json:"Error"`
}

// movieResponse is the wire shape of an exact or by-id lookup
type movieResponse struct {
	Movie
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Client defines the interface for OMDb lookups
type Client interface {
	// SearchByTitle returns best-effort search matches, possibly empty
	SearchByTitle(ctx context.Context, title string) ([]SearchResult, error)
	// LookupByID retrieves the full record for an IMDb id
	LookupByID(ctx context.Context, imdbID string) (*Movie, error)
	// LookupByTitle retrieves the full record for an exact title
	LookupByTitle(ctx context.Context, title string) (*Movie, error)
}

// HTTPClient is a real HTTP client for OMDb
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new OMDb HTTP client
func NewHTTPClient(baseURL, apiKey string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a new OMDb client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL, apiKey string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		log:        log,
	}
}

// doRequest executes a GET request against OMDb and decodes the body.
// OMDb reports misses with HTTP 200 and Response "False"; callers check
// that via the decoded struct.
func (c *HTTPClient) doRequest(ctx context.Context, params url.Values, response interface{}) error {
	params.Set("apikey", c.apiKey)
	apiURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	c.log.Debug("OMDb request", "url", c.baseURL, "params", params.Get("s")+params.Get("t")+params.Get("i"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to OMDb: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OMDb returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// SearchByTitle searches OMDb for titles matching the query
func (c *HTTPClient) SearchByTitle(ctx context.Context, title string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("s", title)

	var resp searchResponse
	if err := c.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Response == "False" {
		return nil, ErrNotFound
	}
	return resp.Search, nil
}

// LookupByID retrieves the full record for an IMDb id
func (c *HTTPClient) LookupByID(ctx context.Context, imdbID string) (*Movie, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	return c.lookup(ctx, params)
}

// LookupByTitle retrieves the full record for an exact title
func (c *HTTPClient) LookupByTitle(ctx context.Context, title string) (*Movie, error) {
	params := url.Values{}
	params.Set("t", title)
	return c.lookup(ctx, params)
}

func (c *HTTPClient) lookup(ctx context.Context, params url.Values) (*Movie, error) {
	var resp movieResponse
	if err := c.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Response == "False" {
		return nil, ErrNotFound
	}
	return &resp.Movie, nil
}
