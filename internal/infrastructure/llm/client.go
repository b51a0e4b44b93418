package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newslens/internal/config"
	"newslens/internal/domain"
	"newslens/internal/ports"
)

const (
	maxInputChars = 2000
	temperature   = 0.3
	maxTokens     = 2000
)

// Client talks to an OpenAI-compatible chat-completions API and implements
// both the sentiment and the stock-detection provider ports. With no API
// key configured it reports itself unavailable and the pipeline falls back
// to the local analyzers.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var (
	_ ports.SentimentProvider = (*Client)(nil)
	_ ports.StockProvider     = (*Client)(nil)
)

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Available reports whether credentials are configured.
func (c *Client) Available() bool {
	return c != nil && c.apiKey != "" && c.endpoint != "" && c.model != ""
}

// Method tags persisted sentiment rows produced by this provider.
func (c *Client) Method() string { return "deepseek" }

const sentimentSystemPrompt = "You are a financial news sentiment analyst. " +
	"Respond with strict JSON only, no markdown."

// AnalyzeSentiment asks the model for structured sentiment scores plus a
// per-keyword breakdown and free-text reasoning.
func (c *Client) AnalyzeSentiment(ctx context.Context, title, text string) (domain.SentimentResult, error) {
	prompt := fmt.Sprintf(`Analyze the sentiment of this news article. Return JSON with this shape:
{
  "overall": "positive|negative|neutral",
  "positive": 0.0,
  "negative": 0.0,
  "neutral": 0.0,
  "confidence": 0.0,
  "keywordSentiments": {"keyword": {"sentiment": "positive|negative|neutral", "score": 0.0, "confidence": 0.0}},
  "reasoning": "short explanation"
}
All scores are between 0 and 1.

Title: %s
Content: %s`, title, truncate(text, maxInputChars))

	raw, err := c.chat(ctx, sentimentSystemPrompt, prompt)
	if err != nil {
		return domain.SentimentResult{}, err
	}

	var wire struct {
		Overall           string                             `json:"overall"`
		Positive          float64                            `json:"positive"`
		Negative          float64                            `json:"negative"`
		Neutral           float64                            `json:"neutral"`
		Confidence        float64                            `json:"confidence"`
		KeywordSentiments map[string]domain.KeywordSentiment `json:"keywordSentiments"`
		Reasoning         string                             `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &wire); err != nil {
		return domain.SentimentResult{}, fmt.Errorf("decode sentiment response: %w", err)
	}

	result := domain.SentimentResult{
		SentimentScores: domain.SentimentScores{
			Overall:    overallSentiment(wire.Overall),
			Positive:   clamp01(wire.Positive),
			Negative:   clamp01(wire.Negative),
			Neutral:    clamp01(wire.Neutral),
			Confidence: clamp01(wire.Confidence),
		},
		KeywordSentiments: wire.KeywordSentiments,
		Reasoning:         wire.Reasoning,
	}
	if result.KeywordSentiments == nil {
		result.KeywordSentiments = map[string]domain.KeywordSentiment{}
	}
	return result, nil
}

const stockSystemPrompt = "You identify stock tickers mentioned in news and rate their relevance. " +
	"Respond with strict JSON only, no markdown."

// DetectStocks asks the model for tickers referenced by the article.
func (c *Client) DetectStocks(ctx context.Context, title, text string) ([]domain.DetectedStock, error) {
	prompt := fmt.Sprintf(`List the stocks this article refers to. Return JSON with this shape:
{"stocks": [{"symbol": "AAPL", "name": "Apple Inc.", "relevance": 0.0}]}
Relevance is between 0 and 1. Common symbols include AAPL, GOOGL, MSFT, TSLA, NVDA, META, AMZN, NFLX.

Title: %s
Content: %s`, title, truncate(text, maxInputChars))

	raw, err := c.chat(ctx, stockSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var wire struct {
		Stocks []struct {
			Symbol    string  `json:"symbol"`
			Name      string  `json:"name"`
			Relevance float64 `json:"relevance"`
		} `json:"stocks"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &wire); err != nil {
		return nil, fmt.Errorf("decode stock response: %w", err)
	}

	detected := make([]domain.DetectedStock, 0, len(wire.Stocks))
	for _, s := range wire.Stocks {
		if s.Symbol == "" {
			continue
		}
		detected = append(detected, domain.DetectedStock{
			Symbol:    strings.ToUpper(s.Symbol),
			Name:      s.Name,
			Count:     1,
			Relevance: clamp01(s.Relevance),
			Context:   domain.ContextDeepSeek,
		})
	}
	return detected, nil
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty chat response")
	}
	return chatResp.Choices[0].Message.Content, nil
}

func overallSentiment(value string) domain.Sentiment {
	switch domain.Sentiment(strings.ToLower(value)) {
	case domain.SentimentPositive:
		return domain.SentimentPositive
	case domain.SentimentNegative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
