package analysis

import (
	"regexp"
	"sort"
	"strings"

	"newslens/internal/domain"
	"newslens/internal/ports"
)

const (
	topKeywords      = 10
	minKeywordLength = 4
)

var punctExpr = regexp.MustCompile(`[^\w\s]`)

// KeywordExtractor counts word frequencies and keeps the most common terms.
type KeywordExtractor struct {
	stopWords map[string]struct{}
}

var _ ports.KeywordExtractor = (*KeywordExtractor)(nil)

// NewKeywordExtractor builds an extractor; a nil stop-word list selects the
// built-in defaults.
func NewKeywordExtractor(stopWords []string) *KeywordExtractor {
	if stopWords == nil {
		stopWords = defaultStopWords
	}
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &KeywordExtractor{stopWords: set}
}

// Extract returns up to ten keywords ordered by descending frequency. Ties
// keep first-encountered order.
func (e *KeywordExtractor) Extract(text string) []domain.Keyword {
	text = punctExpr.ReplaceAllString(strings.ToLower(text), "")

	counts := map[string]int{}
	var order []string
	for _, word := range strings.Fields(text) {
		if len(word) < minKeywordLength {
			continue
		}
		if _, stop := e.stopWords[word]; stop {
			continue
		}
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topKeywords {
		order = order[:topKeywords]
	}

	keywords := make([]domain.Keyword, 0, len(order))
	for _, word := range order {
		keywords = append(keywords, domain.Keyword{Word: word, Frequency: counts[word]})
	}
	return keywords
}
