package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Tavily calls the Tavily search API. Highest-priority backend: its results
// are pre-digested for LLM consumption.
type Tavily struct {
	apiKey string
	depth  string
	client *http.Client
}

func NewTavily(apiKey string) *Tavily {
	return &Tavily{
		apiKey: apiKey,
		depth:  "advanced",
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Tavily) Name() string { return "tavily" }

func (t *Tavily) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if t.apiKey == "" {
		return nil, errors.New("tavily: API key not configured")
	}

	body := map[string]any{
		"query":        query,
		"api_key":      t.apiKey,
		"search_depth": t.depth,
		"max_results":  limit,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.tavily.com/search", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, Result{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Content,
			Source:  "Tavily",
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
