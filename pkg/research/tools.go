package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/superyhee/strands-deepsearch-agent/pkg/agent"
	"github.com/superyhee/strands-deepsearch-agent/pkg/search"
)

// MemorySearcher looks up findings from earlier research sessions.
type MemorySearcher interface {
	Search(ctx context.Context, query string, topK int) (string, error)
}

// NewResearchToolset registers the tools exposed to the researcher agent.
// The memory tool is omitted when mem is nil, which is the case for runs
// without a database.
func NewResearchToolset(resolver *search.Resolver, fetcher *search.PageFetcher, mem MemorySearcher) *agent.Registry {
	reg := agent.NewRegistry()

	reg.Register(agent.Tool{
		Name:        "web_search",
		Description: "Search the web for current information on a topic. Returns titles, snippets and source URLs.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
				"num_results": map[string]any{
					"type":        "integer",
					"description": "Number of results to return (1-10, default 5)",
				},
			},
			"required": []string{"query"},
		},
		Fn: func(ctx context.Context, params map[string]any) (string, error) {
			query := stringParam(params, "query")
			if strings.TrimSpace(query) == "" {
				return "", fmt.Errorf("web_search: query parameter is required")
			}
			outcome := resolver.Resolve(ctx, query, intParam(params, "num_results", 5))
			if outcome.Status == "failed" {
				return search.DegradedMessage(query), nil
			}
			return search.FormatResults(outcome.Results, query), nil
		},
	})

	reg.Register(agent.Tool{
		Name:        "fetch_page",
		Description: "Fetch a web page and return its main content as Markdown.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The page URL to fetch",
				},
				"max_chars": map[string]any{
					"type":        "integer",
					"description": "Maximum characters of content to return (default 4000)",
				},
			},
			"required": []string{"url"},
		},
		Fn: func(ctx context.Context, params map[string]any) (string, error) {
			pageURL := stringParam(params, "url")
			if strings.TrimSpace(pageURL) == "" {
				return "", fmt.Errorf("fetch_page: url parameter is required")
			}
			return fetcher.Fetch(ctx, pageURL, intParam(params, "max_chars", 0)), nil
		},
	})

	if mem != nil {
		reg.Register(agent.Tool{
			Name:        "research_memory",
			Description: "Search findings from previous research sessions on related topics.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The topic to look up in past research",
					},
					"top_k": map[string]any{
						"type":        "integer",
						"description": "Number of passages to return (default 3)",
					},
				},
				"required": []string{"query"},
			},
			Fn: func(ctx context.Context, params map[string]any) (string, error) {
				query := stringParam(params, "query")
				if strings.TrimSpace(query) == "" {
					return "", fmt.Errorf("research_memory: query parameter is required")
				}
				return mem.Search(ctx, query, intParam(params, "top_k", 3))
			},
		})
	}

	return reg
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}
