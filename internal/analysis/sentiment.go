package analysis

import (
	"context"
	"math"
	"regexp"
	"strings"

	"newslens/internal/domain"
	"newslens/internal/ports"
)

var sentenceExpr = regexp.MustCompile(`[.!?]+`)

// LexiconSentiment scores text by counting matches against fixed positive
// and negative word lists. It is the always-available fallback strategy.
type LexiconSentiment struct {
	positive []string
	negative []string
	keywords []string
}

var _ ports.SentimentProvider = (*LexiconSentiment)(nil)

// NewLexiconSentiment builds the lexicon analyzer; nil lists select the
// built-in defaults.
func NewLexiconSentiment(positive, negative []string) *LexiconSentiment {
	if positive == nil {
		positive = defaultPositiveWords
	}
	if negative == nil {
		negative = defaultNegativeWords
	}
	return &LexiconSentiment{
		positive: positive,
		negative: negative,
		keywords: defaultContextKeywords,
	}
}

// Available always reports true; the lexicon needs no configuration.
func (s *LexiconSentiment) Available() bool { return true }

// Method tags persisted rows produced by this analyzer.
func (s *LexiconSentiment) Method() string { return "local" }

// AnalyzeSentiment scores the combined title and body text.
func (s *LexiconSentiment) AnalyzeSentiment(_ context.Context, title, text string) (domain.SentimentResult, error) {
	combined := strings.TrimSpace(title + " " + text)
	return domain.SentimentResult{
		SentimentScores:   s.score(combined),
		KeywordSentiments: s.keywordSentiments(combined),
	}, nil
}

// score implements the counting heuristic. With no lexicon match at all it
// emits a fixed degenerate default that intentionally does not sum to 1.
func (s *LexiconSentiment) score(text string) domain.SentimentScores {
	var posCount, negCount int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if containsAny(word, s.positive) {
			posCount++
		}
		if containsAny(word, s.negative) {
			negCount++
		}
	}

	total := posCount + negCount
	if total == 0 {
		return domain.SentimentScores{
			Overall:    domain.SentimentNeutral,
			Positive:   0.5,
			Negative:   0.5,
			Neutral:    1.0,
			Confidence: 0.3,
		}
	}

	positive := float64(posCount) / float64(total)
	negative := float64(negCount) / float64(total)

	overall := domain.SentimentNeutral
	switch {
	case positive > negative:
		overall = domain.SentimentPositive
	case negative > positive:
		overall = domain.SentimentNegative
	}

	return domain.SentimentScores{
		Overall:    overall,
		Positive:   positive,
		Negative:   negative,
		Neutral:    math.Max(0, 1-positive-negative),
		Confidence: math.Abs(positive - negative),
	}
}

// keywordSentiments scores the sentences surrounding each financial keyword
// that occurs in the text.
func (s *LexiconSentiment) keywordSentiments(text string) map[string]domain.KeywordSentiment {
	sentences := sentenceExpr.Split(text, -1)
	result := map[string]domain.KeywordSentiment{}

	for _, keyword := range s.keywords {
		var relevant []string
		for _, sentence := range sentences {
			if strings.Contains(strings.ToLower(sentence), keyword) {
				relevant = append(relevant, sentence)
			}
		}
		if len(relevant) == 0 {
			continue
		}

		scores := s.score(strings.Join(relevant, ". "))
		result[keyword] = domain.KeywordSentiment{
			Sentiment:  scores.Overall,
			Score:      scores.Positive - scores.Negative,
			Confidence: scores.Confidence,
			Mentions:   len(relevant),
		}
	}
	return result
}

func containsAny(word string, list []string) bool {
	for _, entry := range list {
		if strings.Contains(word, entry) {
			return true
		}
	}
	return false
}
