package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newslens/internal/config"
	"newslens/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.LLMConfig{
		Endpoint: serverURL,
		Model:    "deepseek-chat",
		APIKey:   "test-key",
	})
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestClientUnavailableWithoutKey(t *testing.T) {
	t.Parallel()

	c := NewClient(config.LLMConfig{Endpoint: "https://example.com", Model: "m"})
	if c.Available() {
		t.Fatal("client without api key must be unavailable")
	}

	if _, err := c.AnalyzeSentiment(context.Background(), "t", "x"); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}

func TestAnalyzeSentimentParsesFencedJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		chatReply(t, w, "```json\n{\"overall\":\"positive\",\"positive\":0.8,\"negative\":0.1,\"neutral\":0.1,\"confidence\":1.7,\"keywordSentiments\":{\"earnings\":{\"sentiment\":\"positive\",\"score\":0.6,\"confidence\":0.9}},\"reasoning\":\"strong quarter\"}\n```")
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).AnalyzeSentiment(context.Background(), "Record earnings", "body")
	if err != nil {
		t.Fatalf("AnalyzeSentiment error: %v", err)
	}

	if result.Overall != domain.SentimentPositive {
		t.Fatalf("expected positive, got %s", result.Overall)
	}
	if result.Positive != 0.8 {
		t.Fatalf("unexpected positive score: %f", result.Positive)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("confidence not clamped: %f", result.Confidence)
	}
	if result.Reasoning != "strong quarter" {
		t.Fatalf("unexpected reasoning: %q", result.Reasoning)
	}
	if ks, ok := result.KeywordSentiments["earnings"]; !ok || ks.Sentiment != domain.SentimentPositive {
		t.Fatalf("unexpected keyword sentiments: %+v", result.KeywordSentiments)
	}
}

func TestAnalyzeSentimentRejectsMalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "sorry, cannot help with that")
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).AnalyzeSentiment(context.Background(), "t", "x"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestAnalyzeSentimentSurfacesHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).AnalyzeSentiment(context.Background(), "t", "x"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestDetectStocksParsesResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"stocks":[{"symbol":"aapl","name":"Apple Inc.","relevance":0.9},{"symbol":"","name":"junk","relevance":0.5}]}`)
	}))
	defer server.Close()

	detected, err := newTestClient(server.URL).DetectStocks(context.Background(), "Apple event", "body")
	if err != nil {
		t.Fatalf("DetectStocks error: %v", err)
	}

	if len(detected) != 1 {
		t.Fatalf("expected 1 detection, got %+v", detected)
	}
	got := detected[0]
	if got.Symbol != "AAPL" || got.Relevance != 0.9 {
		t.Fatalf("unexpected detection: %+v", got)
	}
	if got.Context != domain.ContextDeepSeek {
		t.Fatalf("unexpected context: %s", got.Context)
	}
	if got.Count != 1 {
		t.Fatalf("unexpected count: %d", got.Count)
	}
}
