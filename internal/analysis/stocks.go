package analysis

import (
	"context"
	"regexp"
	"strings"

	"newslens/internal/domain"
	"newslens/internal/ports"
)

const (
	baseRelevance     = 0.5
	keywordRelevance  = 0.1
	headlineRelevance = 0.2
	headlineWindow    = 100
)

// corporate suffixes ignored when matching a company name in prose, so that
// "Apple" still counts as a mention of "Apple Inc.".
var nameSuffixes = []string{"inc.", "inc", "corporation", "corp.", "corp", "co.", "ltd.", "ltd"}

type trackedMatcher struct {
	stock      TrackedStock
	matchName  string
	symbolExpr *regexp.Regexp
	nameExpr   *regexp.Regexp
}

// LocalStockDetector finds tickers from a fixed symbol table by whole-word
// matching and scores each mention's relevance from surrounding context.
type LocalStockDetector struct {
	matchers []trackedMatcher
	keywords []string
}

var _ ports.StockProvider = (*LocalStockDetector)(nil)

// NewLocalStockDetector builds the detector; nil arguments select the
// built-in symbol table and financial keyword list.
func NewLocalStockDetector(stocks []TrackedStock, keywords []string) *LocalStockDetector {
	if stocks == nil {
		stocks = defaultTrackedStocks
	}
	if keywords == nil {
		keywords = defaultFinancialKeywords
	}

	matchers := make([]trackedMatcher, 0, len(stocks))
	for _, stock := range stocks {
		name := trimNameSuffix(stock.Name)
		matchers = append(matchers, trackedMatcher{
			stock:      stock,
			matchName:  strings.ToLower(name),
			symbolExpr: wholeWordExpr(stock.Symbol),
			nameExpr:   wholeWordExpr(name),
		})
	}
	return &LocalStockDetector{matchers: matchers, keywords: keywords}
}

// Available always reports true; detection is purely local.
func (d *LocalStockDetector) Available() bool { return true }

// DetectStocks scans the combined title and body text for tracked symbols.
func (d *LocalStockDetector) DetectStocks(_ context.Context, title, text string) ([]domain.DetectedStock, error) {
	combined := strings.TrimSpace(title + " " + text)
	lower := strings.ToLower(combined)

	var detected []domain.DetectedStock
	for _, m := range d.matchers {
		count := len(m.symbolExpr.FindAllStringIndex(combined, -1)) +
			len(m.nameExpr.FindAllStringIndex(combined, -1))
		if count == 0 {
			continue
		}

		detected = append(detected, domain.DetectedStock{
			Symbol:    m.stock.Symbol,
			Name:      m.stock.Name,
			Count:     count,
			Relevance: d.relevance(lower, m),
			Context:   contextType(lower, m),
		})
	}
	return detected, nil
}

// relevance starts at 0.5, adds 0.1 per financial keyword present anywhere
// in the text and 0.2 for a mention within the first 100 characters, capped
// at 1.0.
func (d *LocalStockDetector) relevance(lower string, m trackedMatcher) float64 {
	score := baseRelevance
	for _, keyword := range d.keywords {
		if strings.Contains(lower, keyword) {
			score += keywordRelevance
		}
	}

	head := lower
	if len(head) > headlineWindow {
		head = head[:headlineWindow]
	}
	if strings.Contains(head, strings.ToLower(m.stock.Symbol)) || strings.Contains(head, m.matchName) {
		score += headlineRelevance
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func contextType(lower string, m trackedMatcher) domain.ContextType {
	switch {
	case strings.Contains(lower, strings.ToLower(m.stock.Symbol)) || strings.Contains(lower, m.matchName):
		return domain.ContextDirect
	case strings.Contains(lower, "tech") || strings.Contains(lower, "technology"):
		return domain.ContextSector
	case strings.Contains(lower, "market") || strings.Contains(lower, "stocks"):
		return domain.ContextMarket
	default:
		return domain.ContextIndirect
	}
}

func trimNameSuffix(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, suffix := range nameSuffixes {
		if len(trimmed) > len(suffix) && strings.EqualFold(trimmed[len(trimmed)-len(suffix):], suffix) {
			return strings.TrimSpace(trimmed[:len(trimmed)-len(suffix)])
		}
	}
	return trimmed
}

func wholeWordExpr(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}
