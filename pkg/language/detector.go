// Package language scores query text against fixed per-language signal
// tables (character ranges plus stop words) to choose the output language
// for a research session. The tables are static configuration; detection
// is a pure function over them.
package language

import (
	"strings"
	"unicode"
)

const (
	// DefaultLanguage is returned when no language clears the confidence floor.
	DefaultLanguage = "english"
	// ConfidenceFloor is the minimum combined score required to accept a detection.
	ConfidenceFloor = 0.3

	patternWeight = 0.7
	wordWeight    = 0.3
)

type charRange struct {
	lo, hi rune
}

type profile struct {
	code string
	// ranges are Unicode blocks characteristic of the language's script.
	ranges []charRange
	// extra holds accented letters that the base Latin range misses.
	extra string
	// stopWords are high-frequency function words.
	stopWords []string
}

var profiles = []profile{
	{
		code: "chinese",
		ranges: []charRange{
			{0x4E00, 0x9FFF}, // CJK Unified Ideographs
			{0x3400, 0x4DBF}, // CJK Extension A
			{0xF900, 0xFAFF}, // CJK Compatibility Ideographs
		},
		stopWords: []string{"的", "是", "在", "有", "和", "了", "不", "我", "你", "他", "她", "它", "这", "那", "什么", "怎么", "为什么"},
	},
	{
		code: "japanese",
		ranges: []charRange{
			{0x3040, 0x309F}, // Hiragana
			{0x30A0, 0x30FF}, // Katakana
			{0x4E00, 0x9FFF}, // Kanji, shared with Chinese
		},
		stopWords: []string{"の", "に", "は", "を", "が", "で", "と", "から", "まで", "です", "である", "した", "する"},
	},
	{
		code: "korean",
		ranges: []charRange{
			{0xAC00, 0xD7AF}, // Hangul Syllables
			{0x1100, 0x11FF}, // Hangul Jamo
			{0x3130, 0x318F}, // Hangul Compatibility Jamo
		},
		stopWords: []string{"이", "가", "을", "를", "에", "에서", "와", "과", "의", "는", "은", "도", "만", "까지"},
	},
	{
		code:      "english",
		ranges:    []charRange{{'a', 'z'}, {'A', 'Z'}},
		stopWords: []string{"the", "be", "to", "of", "and", "a", "in", "that", "have", "i", "it", "for", "not", "on", "with", "he", "as", "you", "do", "at"},
	},
	{
		code:      "spanish",
		ranges:    []charRange{{'a', 'z'}, {'A', 'Z'}},
		extra:     "áéíóúüñÁÉÍÓÚÜÑ¿¡",
		stopWords: []string{"el", "la", "de", "que", "y", "a", "en", "un", "es", "se", "no", "te", "lo", "le", "da", "su", "por", "son", "con", "para"},
	},
	{
		code:      "french",
		ranges:    []charRange{{'a', 'z'}, {'A', 'Z'}},
		extra:     "àâäéèêëïîôöùûüÿçÀÂÄÉÈÊËÏÎÔÖÙÛÜŸÇ",
		stopWords: []string{"le", "de", "et", "à", "un", "il", "être", "en", "avoir", "que", "pour", "dans", "ce", "son", "une", "sur", "avec", "ne", "se"},
	},
	{
		code:      "german",
		ranges:    []charRange{{'a', 'z'}, {'A', 'Z'}},
		extra:     "äöüßÄÖÜ",
		stopWords: []string{"der", "die", "und", "in", "den", "von", "zu", "das", "mit", "sich", "des", "auf", "für", "ist", "im", "dem", "nicht", "ein", "eine", "als"},
	},
	{
		code:      "russian",
		ranges:    []charRange{{0x0430, 0x044F}, {0x0410, 0x042F}, {'ё', 'ё'}, {'Ё', 'Ё'}},
		stopWords: []string{"в", "и", "не", "на", "я", "быть", "тот", "он", "оно", "она", "они", "с", "а", "как", "это", "по", "но", "мы", "этот"},
	},
}

var displayNames = map[string]string{
	"chinese":  "中文",
	"english":  "English",
	"japanese": "日本語",
	"korean":   "한국어",
	"spanish":  "Español",
	"french":   "Français",
	"german":   "Deutsch",
	"russian":  "Русский",
}

// Detect returns the best-scoring language for the text and its confidence.
// Falls back to DefaultLanguage when no score clears the confidence floor.
func Detect(text string) (string, float64) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return DefaultLanguage, 0
	}

	best, bestScore := DefaultLanguage, 0.0
	for _, p := range profiles {
		score := p.score(text)
		if score > bestScore {
			best, bestScore = p.code, score
		}
	}

	if bestScore < ConfidenceFloor {
		return DefaultLanguage, bestScore
	}
	return best, bestScore
}

func (p profile) score(text string) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}

	matched := 0
	for _, r := range runes {
		if p.matches(r) {
			matched++
		}
	}
	patternScore := float64(matched) / float64(len(runes))

	words := splitWords(text)
	wordScore := 0.0
	if len(words) > 0 {
		hits := 0
		for _, w := range words {
			for _, sw := range p.stopWords {
				if w == sw {
					hits++
					break
				}
			}
		}
		wordScore = float64(hits) / float64(len(words))
	}

	combined := patternScore*patternWeight + wordScore*wordWeight
	if combined > 1 {
		combined = 1
	}
	return combined
}

func (p profile) matches(r rune) bool {
	for _, cr := range p.ranges {
		if r >= cr.lo && r <= cr.hi {
			return true
		}
	}
	return p.extra != "" && strings.ContainsRune(p.extra, r)
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// DisplayName returns the native-script name for a language code.
func DisplayName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	if code == "" {
		return code
	}
	return strings.ToUpper(code[:1]) + code[1:]
}

// Supported lists every language code the detector can return.
func Supported() []string {
	codes := make([]string, 0, len(profiles))
	for _, p := range profiles {
		codes = append(codes, p.code)
	}
	return codes
}
