package analysis

import (
	"context"
	"testing"

	"newslens/internal/domain"
)

func TestLexiconSentimentNeutralDefault(t *testing.T) {
	t.Parallel()

	s := NewLexiconSentiment(nil, nil)
	result, err := s.AnalyzeSentiment(context.Background(), "Weather report", "Cloudy with a chance of rain tomorrow")
	if err != nil {
		t.Fatalf("AnalyzeSentiment error: %v", err)
	}

	if result.Overall != domain.SentimentNeutral {
		t.Fatalf("expected neutral, got %s", result.Overall)
	}
	if result.Positive != 0.5 || result.Negative != 0.5 || result.Neutral != 1.0 || result.Confidence != 0.3 {
		t.Fatalf("unexpected degenerate default: %+v", result.SentimentScores)
	}
}

func TestLexiconSentimentPositiveDominant(t *testing.T) {
	t.Parallel()

	s := NewLexiconSentiment(nil, nil)
	result, err := s.AnalyzeSentiment(context.Background(), "", "Shares surge after excellent growth and strong results")
	if err != nil {
		t.Fatalf("AnalyzeSentiment error: %v", err)
	}

	if result.Overall != domain.SentimentPositive {
		t.Fatalf("expected positive, got %s", result.Overall)
	}
	if result.Positive != 1.0 || result.Negative != 0.0 {
		t.Fatalf("unexpected scores: %+v", result.SentimentScores)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", result.Confidence)
	}
	if result.Neutral != 0.0 {
		t.Fatalf("expected neutral 0.0, got %f", result.Neutral)
	}
}

func TestLexiconSentimentBalancedIsNeutral(t *testing.T) {
	t.Parallel()

	s := NewLexiconSentiment(nil, nil)
	result, err := s.AnalyzeSentiment(context.Background(), "", "A great quarter despite the terrible outlook")
	if err != nil {
		t.Fatalf("AnalyzeSentiment error: %v", err)
	}

	if result.Overall != domain.SentimentNeutral {
		t.Fatalf("expected neutral on balance, got %s", result.Overall)
	}
	if result.Confidence != 0.0 {
		t.Fatalf("expected zero confidence, got %f", result.Confidence)
	}
}

func TestLexiconSentimentScoresBounded(t *testing.T) {
	t.Parallel()

	s := NewLexiconSentiment(nil, nil)
	result, err := s.AnalyzeSentiment(context.Background(), "", "crash loss decline crisis failure drop risk")
	if err != nil {
		t.Fatalf("AnalyzeSentiment error: %v", err)
	}

	for name, v := range map[string]float64{
		"positive":   result.Positive,
		"negative":   result.Negative,
		"neutral":    result.Neutral,
		"confidence": result.Confidence,
	} {
		if v < 0 || v > 1 {
			t.Fatalf("%s score %f out of [0,1]", name, v)
		}
	}
	if result.Overall != domain.SentimentNegative {
		t.Fatalf("expected negative, got %s", result.Overall)
	}
}

func TestLexiconKeywordSentiments(t *testing.T) {
	t.Parallel()

	s := NewLexiconSentiment(nil, nil)
	result, err := s.AnalyzeSentiment(context.Background(), "",
		"The stock surged on strong demand. Revenue fell short and the loss widened.")
	if err != nil {
		t.Fatalf("AnalyzeSentiment error: %v", err)
	}

	stock, ok := result.KeywordSentiments["stock"]
	if !ok {
		t.Fatalf("missing breakdown for stock: %+v", result.KeywordSentiments)
	}
	if stock.Sentiment != domain.SentimentPositive {
		t.Fatalf("expected positive stock context, got %s", stock.Sentiment)
	}
	if stock.Mentions != 1 {
		t.Fatalf("expected 1 mention, got %d", stock.Mentions)
	}

	revenue, ok := result.KeywordSentiments["revenue"]
	if !ok {
		t.Fatalf("missing breakdown for revenue: %+v", result.KeywordSentiments)
	}
	if revenue.Sentiment != domain.SentimentNegative {
		t.Fatalf("expected negative revenue context, got %s", revenue.Sentiment)
	}

	if _, ok := result.KeywordSentiments["trading"]; ok {
		t.Fatal("unexpected breakdown for absent keyword")
	}
}
