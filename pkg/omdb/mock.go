package omdb

import (
	"context"
	"strings"
)

// MockClient is a mock OMDb client for testing
type MockClient struct {
	searchResults map[string][]SearchResult // lowercased query -> results
	moviesByID    map[string]*Movie
	moviesByTitle map[string]*Movie // lowercased title -> movie
	searchErr     error
	lookupErr     error
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithSearchResults sets the results returned for a search query
func WithSearchResults(query string, results []SearchResult) MockOption {
	return func(m *MockClient) {
		m.searchResults[strings.ToLower(query)] = results
	}
}

// WithMovie registers a full record, retrievable by id and exact title
func WithMovie(movie *Movie) MockOption {
	return func(m *MockClient) {
		if movie.IMDBID != "" {
			m.moviesByID[movie.IMDBID] = movie
		}
		m.moviesByTitle[strings.ToLower(movie.Title)] = movie
	}
}

// WithSearchError sets an error to return from SearchByTitle
func WithSearchError(err error) MockOption {
	return func(m *MockClient) {
		m.searchErr = err
	}
}

// WithLookupError sets an error to return from lookups
func WithLookupError(err error) MockOption {
	return func(m *MockClient) {
		m.lookupErr = err
	}
}

// NewMockClient creates a mock client with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		searchResults: make(map[string][]SearchResult),
		moviesByID:    make(map[string]*Movie),
		moviesByTitle: make(map[string]*Movie),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SearchByTitle returns the registered results for the query
func (m *MockClient) SearchByTitle(ctx context.Context, title string) ([]SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	results, ok := m.searchResults[strings.ToLower(title)]
	if !ok || len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

// LookupByID returns the registered record for the id
func (m *MockClient) LookupByID(ctx context.Context, imdbID string) (*Movie, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	movie, ok := m.moviesByID[imdbID]
	if !ok {
		return nil, ErrNotFound
	}
	return movie, nil
}

// LookupByTitle returns the registered record for the exact title
func (m *MockClient) LookupByTitle(ctx context.Context, title string) (*Movie, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	movie, ok := m.moviesByTitle[strings.ToLower(title)]
	if !ok {
		return nil, ErrNotFound
	}
	return movie, nil
}

// Ensure both clients satisfy the interface
var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
