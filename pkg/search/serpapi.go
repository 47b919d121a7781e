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

// SerpAPI proxies Google results through serpapi.com.
type SerpAPI struct {
	apiKey string
	client *http.Client
}

func NewSerpAPI(apiKey string) *SerpAPI {
	return &SerpAPI{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if s.apiKey == "" {
		return nil, errors.New("serpapi: API key not configured")
	}

	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("google_domain", "google.com")
	params.Set("gl", "us")
	params.Set("hl", "en")
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://serpapi.com/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi http %d", resp.StatusCode)
	}

	var payload struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(payload.OrganicResults))
	for _, r := range payload.OrganicResults {
		results = append(results, Result{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
			Source:  "SerpAPI",
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
