package domain

import "time"

// Feed is a subscribed remote RSS/Atom source.
type Feed struct {
	ID          string
	URL         string
	Title       string
	Description string
	Category    string
	Language    string
	IsActive    bool
	LastFetched time.Time
	CreatedAt   time.Time
}

// Article is one ingested feed item, keyed by its source URL.
type Article struct {
	ID          string
	FeedID      string
	Title       string
	Content     string
	Summary     string
	URL         string
	Author      string
	PublishedAt time.Time
	ImageURL    string
	CreatedAt   time.Time
}

// NormalizedFeed is the in-memory result of fetching one remote feed.
type NormalizedFeed struct {
	Title       string
	Description string
	Language    string
	Items       []NormalizedItem
}

// NormalizedItem is a single feed entry after normalization.
type NormalizedItem struct {
	Title       string
	Link        string
	PubDate     time.Time
	Author      string
	Content     string
	Snippet     string
	ImageURL    string
}

// Keyword is one extracted term with its in-article frequency.
type Keyword struct {
	ID        string
	ArticleID string
	Word      string
	Frequency int
}

// Sentiment is the overall polarity label of an analysis.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SentimentScores holds the bounded [0,1] component scores. The components
// need not sum to 1; the lexicon fallback emits a fixed degenerate default
// when no lexicon word matches.
type SentimentScores struct {
	Overall    Sentiment
	Positive   float64
	Negative   float64
	Neutral    float64
	Confidence float64
}

// KeywordSentiment is the per-keyword sub-score breakdown.
type KeywordSentiment struct {
	Sentiment  Sentiment `json:"sentiment"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Mentions   int       `json:"mentions,omitempty"`
}

// SentimentResult is the analyzer output before persistence.
type SentimentResult struct {
	SentimentScores
	KeywordSentiments map[string]KeywordSentiment
	Reasoning         string
}

// SentimentAnalysis is the persisted record; at most one exists per article.
type SentimentAnalysis struct {
	ID        string
	ArticleID string
	SentimentScores
	KeywordSentiments map[string]KeywordSentiment
	Method            string
	CreatedAt         time.Time
}

// Stock is a shared dimension row, lazily created on first mention.
type Stock struct {
	ID       string
	Symbol   string
	Name     string
	Exchange string
	Sector   string
	Industry string
}

// ContextType classifies how a stock was referenced in an article.
type ContextType string

const (
	ContextDirect   ContextType = "direct"
	ContextSector   ContextType = "sector"
	ContextMarket   ContextType = "market"
	ContextIndirect ContextType = "indirect"
	ContextDeepSeek ContextType = "deepseek_detected"
)

// DetectedStock is a single detection before the Stock row is resolved.
type DetectedStock struct {
	Symbol    string
	Name      string
	Count     int
	Relevance float64
	Context   ContextType
}

// StockMention links an article to a stock; at most one row exists per
// (article, stock) pair.
type StockMention struct {
	ID             string
	ArticleID      string
	StockID        string
	RelevanceScore float64
	MentionCount   int
	ContextType    ContextType
	CreatedAt      time.Time
}

// RefreshResult reports the outcome of refreshing a single feed.
type RefreshResult struct {
	FeedID      string
	FeedTitle   string
	Success     bool
	NewArticles int
	Err         string
}
