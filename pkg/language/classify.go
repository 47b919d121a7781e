package language

import "strings"

// QueryType buckets a research query into a coarse category used for the
// initialization summary and search-strategy hints.
type QueryType string

const (
	QueryHowTo       QueryType = "How-to / Process Inquiry"
	QueryDefinition  QueryType = "Definition / Concept Research"
	QueryCausal      QueryType = "Causal Analysis"
	QueryQuestion    QueryType = "General Question"
	QueryTrend       QueryType = "Trend Analysis"
	QueryComparative QueryType = "Comparative Analysis"
	QueryMarket      QueryType = "Market / Business Research"
	QueryGeneral     QueryType = "General Topic Research"
)

var (
	howWords      = []string{"how", "如何", "怎么", "どう", "어떻게"}
	whatWords     = []string{"what", "什么", "なに", "무엇"}
	whyWords      = []string{"why", "为什么", "なぜ", "왜"}
	questionWords = []string{
		"what", "how", "why", "when", "where", "who", "which",
		"什么", "如何", "怎么", "为什么", "哪里", "谁", "哪个",
		"なに", "どう", "なぜ", "いつ", "どこ", "だれ", "どの",
		"무엇", "어떻게", "왜", "언제", "어디", "누구", "어느",
	}
	trendWords = []string{
		"trend", "development", "future", "latest", "recent",
		"趋势", "发展", "未来", "最新", "最近",
	}
	compareWords = []string{
		"compare", "vs", "versus", "difference",
		"比较", "对比", "区别",
	}
	marketWords = []string{
		"market", "industry", "business", "company",
		"市场", "行业", "商业", "公司",
	}
)

// ClassifyQuery returns the query-type bucket for a research query.
func ClassifyQuery(query string) QueryType {
	q := strings.ToLower(query)

	if containsAny(q, questionWords) {
		switch {
		case containsAny(q, howWords):
			return QueryHowTo
		case containsAny(q, whatWords):
			return QueryDefinition
		case containsAny(q, whyWords):
			return QueryCausal
		default:
			return QueryQuestion
		}
	}

	switch {
	case containsAny(q, trendWords):
		return QueryTrend
	case containsAny(q, compareWords):
		return QueryComparative
	case containsAny(q, marketWords):
		return QueryMarket
	}
	return QueryGeneral
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
