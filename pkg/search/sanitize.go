package search

import "strings"

// Field ceilings applied during normalization, and the overall ceiling for a
// formatted multi-result summary. Downstream model APIs reject overlong or
// oddly-encoded tool output, so these are deliberately conservative.
const (
	MaxTitleLen   = 200
	MaxSnippetLen = 500
	MaxSourceLen  = 100
	MaxSummaryLen = 2500

	truncationMarker = "\n\n[Search results truncated due to length limit]"
)

// Sanitize strips control and non-printable characters, restricts text to
// printable ASCII plus the CJK blocks, and collapses whitespace runs.
// It is pure and idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range text {
		if !allowedRune(r) {
			r = ' '
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// allowedRune reports whether r survives sanitization. The set is printable
// ASCII plus the CJK ideograph, CJK punctuation and fullwidth-form blocks,
// matching what strict downstream text encoders accept.
func allowedRune(r rune) bool {
	switch {
	case r >= 0x20 && r <= 0x7E: // printable ASCII
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Extension A
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK Symbols and Punctuation
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // Halfwidth and Fullwidth Forms
		return true
	}
	return false
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
