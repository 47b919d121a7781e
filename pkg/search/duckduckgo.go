package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DuckDuckGo uses the free instant-answer API. No key required, but coverage
// is limited to abstracts and related topics.
type DuckDuckGo struct {
	client *http.Client
}

func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{client: &http.Client{Timeout: 10 * time.Second}}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	endpoint := fmt.Sprintf("https://api.duckduckgo.com/?q=%s&format=json&no_html=1&skip_disambig=1",
		url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	var payload struct {
		Abstract       string `json:"Abstract"`
		AbstractURL    string `json:"AbstractURL"`
		AbstractSource string `json:"AbstractSource"`
		RelatedTopics  []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	var results []Result
	if payload.Abstract != "" {
		results = append(results, Result{
			Title:   payload.AbstractSource,
			Link:    payload.AbstractURL,
			Snippet: payload.Abstract,
			Source:  payload.AbstractSource,
		})
	}

	for _, topic := range payload.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		title := topic.Text
		if head, _, found := strings.Cut(topic.Text, " - "); found {
			title = head
		}
		results = append(results, Result{
			Title:   title,
			Link:    topic.FirstURL,
			Snippet: topic.Text,
			Source:  hostOf(topic.FirstURL),
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
