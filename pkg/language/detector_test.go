package language

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"English question", "what are the latest developments in artificial intelligence", "english"},
		{"Chinese query", "人工智能的最新发展趋势是什么", "chinese"},
		{"Japanese query", "人工知能の最新の動向はどうですか", "japanese"},
		{"Korean query", "인공지능의 최신 동향은 무엇입니까", "korean"},
		{"Russian query", "каковы последние тенденции в искусственном интеллекте", "russian"},
		{"Empty defaults to english", "", "english"},
		{"Whitespace defaults to english", "   ", "english"},
		{"Digits only default to english", "12345 67890", "english"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Detect(tt.input)
			if got != tt.expected {
				t.Errorf("Detect(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDetectConfidence(t *testing.T) {
	_, conf := Detect("the quick brown fox jumps over the lazy dog")
	if conf < ConfidenceFloor {
		t.Errorf("clear English text scored %.2f, want >= %.2f", conf, ConfidenceFloor)
	}
	if conf > 1 {
		t.Errorf("confidence %.2f exceeds 1", conf)
	}

	_, emptyConf := Detect("")
	if emptyConf != 0 {
		t.Errorf("empty input confidence = %.2f, want 0", emptyConf)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"chinese", "中文"},
		{"english", "English"},
		{"japanese", "日本語"},
		{"korean", "한국어"},
		{"unknown", "Unknown"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.code); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.code, got, tt.expected)
		}
	}
}

func TestSupported(t *testing.T) {
	codes := Supported()
	if len(codes) != 8 {
		t.Fatalf("Supported() returned %d languages, want 8", len(codes))
	}
	seen := make(map[string]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate language code %q", c)
		}
		seen[c] = true
	}
	for _, want := range []string{"english", "chinese", "japanese", "korean", "spanish", "french", "german", "russian"} {
		if !seen[want] {
			t.Errorf("Supported() missing %q", want)
		}
	}
}

func TestClassifyQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected QueryType
	}{
		{"How-to", "how to build a distributed cache", QueryHowTo},
		{"Definition", "what is quantum computing", QueryDefinition},
		{"Causal", "why did the housing market crash", QueryCausal},
		{"Plain question", "when was the transistor invented", QueryQuestion},
		{"Trend", "latest developments in renewable energy", QueryTrend},
		{"Comparative", "postgres vs mysql performance", QueryComparative},
		{"Market", "electric vehicle industry outlook", QueryMarket},
		{"General fallback", "history of the silk road", QueryGeneral},
		{"Chinese how-to", "如何学习机器学习", QueryHowTo},
		{"Chinese trend", "新能源汽车发展趋势", QueryTrend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyQuery(tt.query); got != tt.expected {
				t.Errorf("ClassifyQuery(%q) = %q, want %q", tt.query, got, tt.expected)
			}
		})
	}
}
