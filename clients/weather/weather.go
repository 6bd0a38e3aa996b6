// Package weather wraps the OpenWeather forecast API into the one-line
// summary the prompt builder needs.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const forecastURL = "https://api.openweathermap.org/data/2.5/forecast"

// Forecast is a coarse summary for a location over a planning horizon.
type Forecast struct {
	Summary string `json:"forecast"`
}

// Client fetches weather forecasts.
type Client interface {
	GetForecast(ctx context.Context, location string, days int) (*Forecast, error)
}

// HTTPClient calls the OpenWeather forecast endpoint.
type HTTPClient struct {
	apiKey string
	http   *http.Client
}

// NewHTTPClient returns a Client backed by OpenWeather.
func NewHTTPClient(apiKey string) *HTTPClient {
	return &HTTPClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

type forecastResponse struct {
	List []struct {
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
	Message any `json:"message"`
}

// GetForecast summarizes the dominant condition over the horizon. The free
// tier caps the forecast at five days; longer horizons use what we get.
func (c *HTTPClient) GetForecast(ctx context.Context, location string, days int) (*Forecast, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	if days > 5 {
		days = 5
	}
	params.Set("cnt", fmt.Sprintf("%d", days*8)) // 3-hour steps

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, forecastURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API error: status %d", resp.StatusCode)
	}

	var parsed forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	counts := map[string]int{}
	for _, entry := range parsed.List {
		for _, w := range entry.Weather {
			counts[w.Main]++
		}
	}
	dominant, best := "Clear", 0
	for cond, n := range counts {
		if n > best {
			dominant, best = cond, n
		}
	}

	return &Forecast{Summary: fmt.Sprintf("Mostly %s", strings.ToLower(dominant))}, nil
}

// MockClient reports eternal sunshine.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GetForecast(_ context.Context, location string, _ int) (*Forecast, error) {
	return &Forecast{Summary: "Sunny in " + location}, nil
}
