package search

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Plain ASCII", "hello world", "hello world"},
		{"Control characters removed", "hello\x00\x07world", "hello world"},
		{"Newlines and tabs collapse", "a\n\n\tb", "a b"},
		{"Whitespace runs collapse", "a     b", "a b"},
		{"Leading and trailing trimmed", "   padded   ", "padded"},
		{"CJK preserved", "人工智能的发展", "人工智能的发展"},
		{"CJK punctuation preserved", "研究：结论。", "研究：结论。"},
		{"Mixed ASCII and CJK", "AI 人工智能 2024", "AI 人工智能 2024"},
		{"Emoji removed", "results 🚀 here", "results here"},
		{"Accented latin removed", "café", "caf"},
		{"Zero width removed", "a​b", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"messy\x00 \t\n input 🚀 with 中文 and spaces   ",
		"人工智能：发展与挑战",
		strings.Repeat("word ", 200),
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestSanitizeOutputAllowed(t *testing.T) {
	out := Sanitize("mixed\x01 content 🎉 with ünïcode and 中文")
	for _, r := range out {
		if !allowedRune(r) {
			t.Errorf("Sanitize output contains disallowed rune %U", r)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"Shorter than limit", "abc", 10, "abc"},
		{"Exact limit", "abc", 3, "abc"},
		{"Truncated", "abcdef", 3, "abc"},
		{"Multibyte safe", "中文字符串", 2, "中文"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.input, tt.n); got != tt.expected {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
			}
		})
	}
}

func TestNormalizeBounds(t *testing.T) {
	raw := Result{
		Title:   strings.Repeat("t", MaxTitleLen+50),
		Link:    "  https://example.com/page  ",
		Snippet: strings.Repeat("s", MaxSnippetLen+50),
		Source:  strings.Repeat("x", MaxSourceLen+50),
	}
	got := normalize(raw)

	if n := len([]rune(got.Title)); n != MaxTitleLen {
		t.Errorf("Title length = %d, want %d", n, MaxTitleLen)
	}
	if n := len([]rune(got.Snippet)); n != MaxSnippetLen {
		t.Errorf("Snippet length = %d, want %d", n, MaxSnippetLen)
	}
	if n := len([]rune(got.Source)); n != MaxSourceLen {
		t.Errorf("Source length = %d, want %d", n, MaxSourceLen)
	}
	if got.Link != "https://example.com/page" {
		t.Errorf("Link = %q, want trimmed URL", got.Link)
	}
}

func TestNormalizeEmptyFields(t *testing.T) {
	got := normalize(Result{Link: "https://example.com"})
	if got.Title != "N/A" || got.Snippet != "N/A" || got.Source != "N/A" {
		t.Errorf("empty fields should become N/A, got %+v", got)
	}
}

func TestFormatResultsTruncation(t *testing.T) {
	var results []Result
	for i := 0; i < 20; i++ {
		results = append(results, Result{
			Title:   strings.Repeat("t", 150),
			Link:    "https://example.com",
			Snippet: strings.Repeat("s", 400),
			Source:  "example",
		})
	}

	formatted := FormatResults(results, "long query")
	if !strings.HasSuffix(formatted, truncationMarker) {
		t.Error("overlong summary should end with the truncation marker")
	}
	body := strings.TrimSuffix(formatted, truncationMarker)
	if n := len([]rune(body)); n > MaxSummaryLen {
		t.Errorf("summary body length = %d, want <= %d", n, MaxSummaryLen)
	}
}

func TestFormatResultsEmpty(t *testing.T) {
	got := FormatResults(nil, "nothing here")
	if !strings.Contains(got, "No search results found") {
		t.Errorf("FormatResults(nil) = %q, want a no-results message", got)
	}
}
