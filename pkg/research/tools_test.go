package research

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/superyhee/strands-deepsearch-agent/pkg/search"
)

type stubBackend struct {
	name    string
	results []search.Result
	err     error
}

func (b *stubBackend) Name() string { return b.name }

func (b *stubBackend) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	return b.results, b.err
}

type stubMemory struct {
	answer string
}

func (m *stubMemory) Search(ctx context.Context, query string, topK int) (string, error) {
	return m.answer, nil
}

func TestWebSearchTool(t *testing.T) {
	backend := &stubBackend{name: "stub", results: []search.Result{
		{Title: "Go iterators", Link: "https://go.dev/blog/range-functions", Snippet: "about iterators", Source: "go.dev"},
	}}
	resolver := search.NewResolver(nil, backend)
	reg := NewResearchToolset(resolver, search.NewPageFetcher(), nil)

	fn, ok := reg.Get("web_search")
	if !ok {
		t.Fatal("web_search not registered")
	}

	out, err := fn(context.Background(), map[string]any{"query": "go iterators", "num_results": float64(3)})
	if err != nil {
		t.Fatalf("web_search returned error: %v", err)
	}
	if !strings.Contains(out, "Go iterators") || !strings.Contains(out, "https://go.dev/blog/range-functions") {
		t.Errorf("formatted output missing result fields:\n%s", out)
	}
}

func TestWebSearchToolDegradesWhenAllBackendsFail(t *testing.T) {
	resolver := search.NewResolver(nil, &stubBackend{name: "down", err: fmt.Errorf("unreachable")})
	reg := NewResearchToolset(resolver, search.NewPageFetcher(), nil)
	fn, _ := reg.Get("web_search")

	out, err := fn(context.Background(), map[string]any{"query": "anything"})
	if err != nil {
		t.Fatalf("total search failure must not surface as an error, got: %v", err)
	}
	if !strings.Contains(out, "Search temporarily unavailable") {
		t.Errorf("expected degraded message, got:\n%s", out)
	}
}

func TestWebSearchToolRequiresQuery(t *testing.T) {
	resolver := search.NewResolver(nil)
	reg := NewResearchToolset(resolver, search.NewPageFetcher(), nil)
	fn, _ := reg.Get("web_search")

	if _, err := fn(context.Background(), map[string]any{}); err == nil {
		t.Error("missing query should be an error")
	}
}

func TestMemoryToolRegistration(t *testing.T) {
	resolver := search.NewResolver(nil)
	fetcher := search.NewPageFetcher()

	withoutMem := NewResearchToolset(resolver, fetcher, nil)
	if _, ok := withoutMem.Get("research_memory"); ok {
		t.Error("research_memory registered without a memory backend")
	}

	withMem := NewResearchToolset(resolver, fetcher, &stubMemory{answer: "past findings"})
	fn, ok := withMem.Get("research_memory")
	if !ok {
		t.Fatal("research_memory not registered")
	}
	out, err := fn(context.Background(), map[string]any{"query": "topic"})
	if err != nil {
		t.Fatalf("research_memory error: %v", err)
	}
	if out != "past findings" {
		t.Errorf("research_memory output = %q", out)
	}
}

func TestToolsetDefinitions(t *testing.T) {
	reg := NewResearchToolset(search.NewResolver(nil), search.NewPageFetcher(), &stubMemory{})
	defs := reg.Definitions()
	if len(defs) != 3 {
		t.Fatalf("definitions = %d, want 3", len(defs))
	}
	names := map[string]bool{}
	for _, d := range defs {
		names[d.Function.Name] = true
	}
	for _, want := range []string{"web_search", "fetch_page", "research_memory"} {
		if !names[want] {
			t.Errorf("missing tool definition %q", want)
		}
	}
}
