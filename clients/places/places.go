// Package places wraps the Google Places text-search API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const textSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

// Place is a venue candidate returned by the search.
type Place struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating,omitempty"`
}

// Client finds real venues for a free-text query.
type Client interface {
	FindPlace(ctx context.Context, query string) (*Place, error)
}

// HTTPClient calls the Google Places API.
type HTTPClient struct {
	apiKey string
	http   *http.Client
}

// NewHTTPClient returns a Client backed by the Google Places API.
func NewHTTPClient(apiKey string) *HTTPClient {
	return &HTTPClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

// textSearchResponse mirrors the fields we consume from the Places API.
type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Rating           float64 `json:"rating"`
	} `json:"results"`
}

// FindPlace returns the top text-search result for the query, or nil when
// nothing matches.
func (c *HTTPClient) FindPlace(ctx context.Context, query string) (*Place, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	switch parsed.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("places API error: %s", parsed.Status)
	}
	if len(parsed.Results) == 0 {
		return nil, nil
	}

	top := parsed.Results[0]
	return &Place{
		Name:    top.Name,
		Address: top.FormattedAddress,
		Rating:  top.Rating,
	}, nil
}

// MockClient fabricates a venue for any query.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) FindPlace(_ context.Context, query string) (*Place, error) {
	return &Place{
		Name:    "Mock Place for " + query,
		Address: "123 Mock St",
		Rating:  4.5,
	}, nil
}
