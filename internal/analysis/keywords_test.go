package analysis

import (
	"strings"
	"testing"
)

func TestExtractKeywordsFiltersNoise(t *testing.T) {
	t.Parallel()

	e := NewKeywordExtractor(nil)
	keywords := e.Extract("The market and the economy: a big test of market resilience!")

	for _, kw := range keywords {
		if len(kw.Word) < 4 {
			t.Fatalf("short token %q slipped through", kw.Word)
		}
		if kw.Word == "the" || kw.Word == "and" {
			t.Fatalf("stop word %q slipped through", kw.Word)
		}
	}

	if len(keywords) == 0 || keywords[0].Word != "market" {
		t.Fatalf("expected market first, got %+v", keywords)
	}
	if keywords[0].Frequency != 2 {
		t.Fatalf("expected frequency 2 for market, got %d", keywords[0].Frequency)
	}
}

func TestExtractKeywordsTopTen(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	words := []string{"alpha", "bravo", "charlie", "delta", "echoes", "foxtrot", "golfing", "hotel", "india", "juliet", "kilos", "limas"}
	for i, word := range words {
		// word i appears len(words)-i times
		for j := 0; j < len(words)-i; j++ {
			sb.WriteString(word)
			sb.WriteString(" ")
		}
	}

	keywords := NewKeywordExtractor(nil).Extract(sb.String())
	if len(keywords) != 10 {
		t.Fatalf("expected 10 keywords, got %d", len(keywords))
	}
	if keywords[0].Word != "alpha" || keywords[0].Frequency != 12 {
		t.Fatalf("unexpected top keyword: %+v", keywords[0])
	}
	for i := 1; i < len(keywords); i++ {
		if keywords[i].Frequency > keywords[i-1].Frequency {
			t.Fatalf("keywords not sorted by frequency: %+v", keywords)
		}
	}
}

func TestExtractKeywordsTiesKeepFirstSeenOrder(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordExtractor(nil).Extract("zulu apple zulu apple banana")
	if len(keywords) != 3 {
		t.Fatalf("expected 3 keywords, got %d", len(keywords))
	}
	if keywords[0].Word != "zulu" || keywords[1].Word != "apple" {
		t.Fatalf("tie order not preserved: %+v", keywords)
	}
}

func TestExtractKeywordsStripsPunctuation(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordExtractor(nil).Extract("Breaking: stocks, stocks... STOCKS!")
	if len(keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}
	if keywords[0].Word != "stocks" || keywords[0].Frequency != 3 {
		t.Fatalf("expected stocks x3, got %+v", keywords[0])
	}
}
