package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Wikipedia is the encyclopedic last-resort backend. Always available,
// never current.
type Wikipedia struct {
	client *http.Client
}

func NewWikipedia() *Wikipedia {
	return &Wikipedia{client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

func (w *Wikipedia) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit > 5 {
		limit = 5
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://en.wikipedia.org/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia http %d", resp.StatusCode)
	}

	var payload struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(payload.Query.Search))
	for _, item := range payload.Query.Search {
		snippet := strings.ReplaceAll(item.Snippet, `<span class="searchmatch">`, "")
		snippet = strings.ReplaceAll(snippet, "</span>", "")
		results = append(results, Result{
			Title:   item.Title,
			Link:    "https://en.wikipedia.org/wiki/" + url.PathEscape(item.Title),
			Snippet: snippet,
			Source:  "Wikipedia",
		})
	}
	return results, nil
}
