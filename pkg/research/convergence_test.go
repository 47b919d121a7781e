package research

import "testing"

func TestNeedsMoreResearch(t *testing.T) {
	c := NewConvergenceController()

	tests := []struct {
		name     string
		analysis string
		expected bool
	}{
		{"Empty analysis", "", false},
		{"Whitespace only", "   \n\t", false},
		{"Complete analysis", "The findings fully answer the question. All sources agree.", false},
		{"Explicit gap phrase", "The sources conflict; additional research needed on pricing.", true},
		{"Uppercase gap phrase", "CONCLUSION: INSUFFICIENT INFORMATION TO PROCEED.", true},
		{"Mixed case", "There is a Knowledge Gap around adoption rates.", true},
		{"Phrase inside sentence", "Overall solid, though more information required about timelines.", true},
		{"Chinese gap phrase", "分析显示存在知识空白，需要补充资料。", true},
		{"Chinese clarity phrase", "目前的结论不够清晰。", true},
		{"Chinese extra research", "建议进行额外研究。", true},
		{"Near miss wording", "We could do more studies someday.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.NeedsMoreResearch(tt.analysis); got != tt.expected {
				t.Errorf("NeedsMoreResearch(%q) = %v, want %v", tt.analysis, got, tt.expected)
			}
		})
	}
}

func TestCustomIndicators(t *testing.T) {
	c := NewConvergenceController("needs follow-up", "  UNRESOLVED  ")

	if !c.NeedsMoreResearch("Several points remain unresolved.") {
		t.Error("custom indicator should match case-insensitively with trimmed phrase")
	}
	if c.NeedsMoreResearch("additional research needed") {
		t.Error("default vocabulary should not apply when custom indicators are set")
	}
}
