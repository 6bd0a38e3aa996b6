// Package claude wraps the Anthropic Messages API for date-idea generation
// and venue selection. A mock implementation keeps development free of API
// costs; the real client is switched on by config.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	messagesURL      = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultModel     = "claude-3-5-sonnet-20241022"
	maxTokens        = 1024
)

// DateIdea is one concept returned by the ideas phase. SearchQuery is what
// gets handed to the places lookup.
type DateIdea struct {
	Concept     string `json:"concept"`
	SearchQuery string `json:"search_query"`
}

// VenueOption is a candidate venue offered to the selection phase.
type VenueOption struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Rating  float64 `json:"rating,omitempty"`
}

// VenueSelection is the model's pick among venue options.
type VenueSelection struct {
	SelectedVenueName string `json:"selected_venue_name"`
	Explanation       string `json:"explanation"`
	SuggestedTime     string `json:"suggested_time"`
}

// Client generates date ideas and picks venues.
type Client interface {
	GenerateIdeas(ctx context.Context, prompt string, maxIdeas int) ([]DateIdea, error)
	PickBestVenue(ctx context.Context, concept string, venues []VenueOption, weather, userContext string) (*VenueSelection, error)
}

// HTTPClient calls the Anthropic Messages API.
type HTTPClient struct {
	apiKey string
	model  string
	http   *http.Client
}

// NewHTTPClient returns a Client backed by the Anthropic API.
func NewHTTPClient(apiKey string) *HTTPClient {
	return &HTTPClient{
		apiKey: apiKey,
		model:  defaultModel,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete sends one user message and returns the concatenated text reply.
func (c *HTTPClient) complete(ctx context.Context, system, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode claude request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build claude request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read claude response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode claude response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("claude API error (%d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("claude API error: status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, part := range parsed.Content {
		if part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// GenerateIdeas asks for up to maxIdeas date concepts as strict JSON.
func (c *HTTPClient) GenerateIdeas(ctx context.Context, prompt string, maxIdeas int) ([]DateIdea, error) {
	system := fmt.Sprintf(
		"You are a date-planning assistant. Respond with JSON only, no prose: "+
			`{"ideas": [{"concept": "...", "search_query": "..."}]} with at most %d ideas.`,
		maxIdeas)

	text, err := c.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var out struct {
		Ideas []DateIdea `json:"ideas"`
	}
	if err := json.Unmarshal(extractJSON(text), &out); err != nil {
		return nil, fmt.Errorf("claude returned unparseable ideas: %w", err)
	}
	if len(out.Ideas) > maxIdeas {
		out.Ideas = out.Ideas[:maxIdeas]
	}
	return out.Ideas, nil
}

// PickBestVenue asks the model to choose among candidate venues.
func (c *HTTPClient) PickBestVenue(ctx context.Context, concept string, venues []VenueOption, weather, userContext string) (*VenueSelection, error) {
	options, err := json.Marshal(venues)
	if err != nil {
		return nil, fmt.Errorf("failed to encode venue options: %w", err)
	}

	system := "You are a date-planning assistant. Respond with JSON only, no prose: " +
		`{"selected_venue_name": "...", "explanation": "...", "suggested_time": "..."}`
	prompt := fmt.Sprintf(
		"Date concept: %s\nVenue options: %s\nWeather: %s\nSchedule context:\n%s\n\nPick the best venue and a suggested time.",
		concept, options, weather, userContext)

	text, err := c.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var sel VenueSelection
	if err := json.Unmarshal(extractJSON(text), &sel); err != nil {
		return nil, fmt.Errorf("claude returned unparseable venue selection: %w", err)
	}
	if sel.SelectedVenueName == "" {
		return nil, fmt.Errorf("claude venue selection missing selected_venue_name")
	}
	return &sel, nil
}

// extractJSON strips markdown code fences the model sometimes wraps around
// its JSON reply.
func extractJSON(text string) []byte {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	return []byte(trimmed)
}
