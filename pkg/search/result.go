package search

import (
	"fmt"
	"strings"
	"time"
)

// Result is one normalized search result. All text fields are sanitized and
// length-bounded regardless of which backend produced them.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Outcome is the non-exceptional result of a resolve call. Status is
// "success" when any backend produced results, "failed" when every backend
// was exhausted. A failed outcome is a valid answer, not an error.
type Outcome struct {
	Status      string   `json:"status"`
	Results     []Result `json:"results"`
	MethodUsed  string   `json:"method_used"`
	ErrorDetail string   `json:"error_detail,omitempty"`
}

// normalize sanitizes and bounds every field of a raw result.
func normalize(r Result) Result {
	return Result{
		Title:   orNA(truncateRunes(Sanitize(r.Title), MaxTitleLen)),
		Link:    strings.TrimSpace(r.Link),
		Snippet: orNA(truncateRunes(Sanitize(r.Snippet), MaxSnippetLen)),
		Source:  orNA(truncateRunes(Sanitize(r.Source), MaxSourceLen)),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// FormatResults renders a multi-result markdown summary bounded by
// MaxSummaryLen, appending an explicit marker when truncated.
func FormatResults(results []Result, query string) string {
	if len(results) == 0 {
		return fmt.Sprintf("No search results found for query: %s", Sanitize(query))
	}

	seen := make(map[string]bool)
	var sources []string
	for _, r := range results {
		if r.Source != "" && !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Search Results Summary\n")
	fmt.Fprintf(&b, "**Query**: %s\n", Sanitize(query))
	fmt.Fprintf(&b, "**Results Count**: %d\n", len(results))
	fmt.Fprintf(&b, "**Sources**: %s\n", strings.Join(sources, ", "))
	fmt.Fprintf(&b, "**Search Time**: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("## Detailed Results\n\n")

	for i, r := range results {
		fmt.Fprintf(&b, "### Result %d: %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "**Source**: %s\n", r.Source)
		fmt.Fprintf(&b, "**URL**: %s\n", r.Link)
		fmt.Fprintf(&b, "**Summary**: %s\n\n---\n\n", r.Snippet)
	}

	formatted := b.String()
	if len([]rune(formatted)) > MaxSummaryLen {
		formatted = truncateRunes(formatted, MaxSummaryLen) + truncationMarker
	}
	return formatted
}

// Domains extracts the distinct hosts linked by the results, capped at max.
func Domains(results []Result, max int) []string {
	seen := make(map[string]bool)
	var domains []string
	for _, r := range results {
		host := hostOf(r.Link)
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		domains = append(domains, host)
		if len(domains) >= max {
			break
		}
	}
	return domains
}

func hostOf(link string) string {
	rest, ok := strings.CutPrefix(link, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(link, "http://")
	}
	if !ok {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
