package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

const pageUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PageFetcher retrieves a single page and converts its markup to text.
type PageFetcher struct {
	client *http.Client
}

func NewPageFetcher() *PageFetcher {
	return &PageFetcher{client: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch downloads the URL, strips boilerplate elements, converts the rest to
// markdown and sanitizes it. Failures produce a descriptive string rather
// than an error so an agent using this as a tool never crashes on a bad URL.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = 4000
	}

	content, title, err := f.fetch(ctx, pageURL)
	if err != nil {
		return fmt.Sprintf("Error fetching page content from %s: %v", pageURL, err)
	}

	truncated := len([]rune(content)) > maxChars
	content = truncateRunes(content, maxChars)

	var b strings.Builder
	fmt.Fprintf(&b, "## Web Content: %s\n", title)
	fmt.Fprintf(&b, "**Source**: %s\n", pageURL)
	fmt.Fprintf(&b, "**Retrieved**: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(content)
	if truncated {
		b.WriteString("\n\n[Content truncated due to length limit]")
	}
	return b.String()
}

func (f *PageFetcher) fetch(ctx context.Context, pageURL string) (content, title string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(pageURL), nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", pageUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, nav, header, footer, iframe").Remove()

	html, err := doc.Html()
	if err != nil {
		return "", "", fmt.Errorf("serialize html: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", "", fmt.Errorf("convert to markdown: %w", err)
	}

	title = Sanitize(doc.Find("title").First().Text())
	if title == "" {
		title = "Web Page"
	}
	return Sanitize(markdown), title, nil
}
