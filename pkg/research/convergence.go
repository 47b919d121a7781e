package research

import "strings"

// defaultGapIndicators are the phrases an analysis may contain to signal
// that the collected evidence is incomplete. Matching is case-insensitive
// substring search, which keeps the controller deterministic and free of
// extra model calls.
var defaultGapIndicators = []string{
	"additional research needed",
	"more information required",
	"knowledge gap",
	"insufficient information",
	"知识空白",
	"不够清晰",
	"额外研究",
}

// ConvergenceController decides whether another refinement round is
// warranted based on gap indicators in an analysis text.
type ConvergenceController struct {
	indicators []string
}

// NewConvergenceController returns a controller using the given gap
// indicators, or the default vocabulary when none are supplied.
func NewConvergenceController(indicators ...string) *ConvergenceController {
	if len(indicators) == 0 {
		indicators = defaultGapIndicators
	}
	lowered := make([]string, 0, len(indicators))
	for _, ind := range indicators {
		ind = strings.ToLower(strings.TrimSpace(ind))
		if ind != "" {
			lowered = append(lowered, ind)
		}
	}
	return &ConvergenceController{indicators: lowered}
}

// NeedsMoreResearch reports whether the analysis contains any gap
// indicator. An empty analysis never triggers another round.
func (c *ConvergenceController) NeedsMoreResearch(analysis string) bool {
	analysis = strings.ToLower(analysis)
	if strings.TrimSpace(analysis) == "" {
		return false
	}
	for _, ind := range c.indicators {
		if strings.Contains(analysis, ind) {
			return true
		}
	}
	return false
}
