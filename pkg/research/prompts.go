package research

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/superyhee/strands-deepsearch-agent/pkg/language"
)

const researcherSystemPrompt = `You are a meticulous research specialist. Your job is to
gather comprehensive, factual information on a topic using the tools available to you.

Guidelines:
- Use the web_search tool to find current, relevant sources. Vary your queries to cover
  different aspects of the topic.
- Use the fetch_page tool to read promising sources in depth when search snippets are
  not enough.
- If a research_memory tool is available, consult it for findings from earlier sessions
  before searching the open web.
- Record concrete facts, figures, dates and named sources. Quote sparingly and always
  attribute.
- Present findings as organized notes with source URLs, not as a polished report.`

const analystSystemPrompt = `You are a rigorous research analyst. You receive raw research
findings and produce a structured analysis.

Guidelines:
- Identify the key themes, verified facts and points of disagreement in the findings.
- Assess the credibility and recency of the sources.
- Be explicit about what remains unknown. When the findings cannot support a complete
  answer, state plainly that additional research is needed and list the open questions.
- Do not invent facts that are absent from the findings.`

const writerSystemPrompt = `You are a professional report writer. You turn an analysis and
its supporting findings into a clear, well-structured final report.

Guidelines:
- Use Markdown with a title, section headings and a short executive summary.
- Ground every claim in the supplied findings; cite source URLs inline where available.
- Close with a references section listing the sources used.
- Write fluently for an informed general reader.`

func languageInstruction(lang string) string {
	if lang == "" {
		return ""
	}
	return fmt.Sprintf("\n\nRespond entirely in %s.", language.DisplayName(lang))
}

func researchPrompt(query, lang string) string {
	return fmt.Sprintf(`Research the following topic thoroughly:

%s

Search for current information from multiple angles, read the most promising sources,
and return your findings as organized notes with source URLs.%s`, query, languageInstruction(lang))
}

func refinePrompt(query, analysis, lang string) string {
	return fmt.Sprintf(`An analysis of earlier research on the topic below identified gaps
that need to be filled.

Topic: %s

Analysis with identified gaps:
%s

Focus your searches on the open questions and missing information called out in the
analysis. Return only the new findings, with source URLs.%s`, query, analysis, languageInstruction(lang))
}

func analysisPrompt(query, findings, lang string) string {
	return fmt.Sprintf(`Analyze the following research findings for the topic: %s

Findings:
%s

Produce a structured analysis covering key themes, verified facts, source credibility
and remaining gaps. If the findings are insufficient to answer the topic, say that
additional research is needed and list the open questions.%s`, query, findings, languageInstruction(lang))
}

func reportPrompt(query, analysis, findings, lang string) string {
	return fmt.Sprintf(`Write the final research report for the topic: %s

Analysis:
%s

Supporting findings:
%s

Produce a complete Markdown report with a title, executive summary, detailed sections
and a references list.%s`, query, analysis, findings, languageInstruction(lang))
}

// initializationInfo renders the banner emitted with the first status
// event: detected language, query classification and run parameters.
func initializationInfo(query, lang string, confidence float64, maxLoops int, model string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌐 Language: %s (confidence %.2f)\n", language.DisplayName(lang), confidence)
	fmt.Fprintf(&b, "🔍 Query type: %s\n", language.ClassifyQuery(query))
	fmt.Fprintf(&b, "🤖 Model: %s\n", model)
	fmt.Fprintf(&b, "🔄 Max research loops: %d", maxLoops)
	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"']+`)

// deriveSearchSummary extracts the distinct source URLs cited in the
// findings text, preserving first-seen order. It backs the search summary
// surfaced alongside research progress events.
func deriveSearchSummary(findings string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	seen := make(map[string]struct{})
	var urls []string
	for _, u := range urlPattern.FindAllString(findings, -1) {
		u = strings.TrimRight(u, ".,;")
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
		if len(urls) >= limit {
			break
		}
	}
	return urls
}

// preview truncates text for inclusion in progress event payloads.
func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
