package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// GoogleCustom calls the Google Custom Search JSON API. Needs both an API
// key and a search engine id; fails fast without them.
type GoogleCustom struct {
	apiKey   string
	engineID string
	client   *http.Client
}

func NewGoogleCustom(apiKey, engineID string) *GoogleCustom {
	return &GoogleCustom{
		apiKey:   apiKey,
		engineID: engineID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GoogleCustom) Name() string { return "google" }

func (g *GoogleCustom) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if g.apiKey == "" || g.engineID == "" {
		return nil, errors.New("google: API key or engine id not configured")
	}
	if limit > 10 {
		limit = 10
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/customsearch/v1?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google http %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
			Source:  "Google",
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
