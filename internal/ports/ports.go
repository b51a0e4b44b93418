package ports

import (
	"context"
	"errors"
	"time"

	"newslens/internal/domain"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// FeedRepository persists subscribed feeds.
type FeedRepository interface {
	CreateFeed(ctx context.Context, feed domain.Feed) error
	GetFeed(ctx context.Context, id string) (domain.Feed, error)
	ListActiveFeeds(ctx context.Context) ([]domain.Feed, error)
	TouchLastFetched(ctx context.Context, id string, at time.Time) error
}

// ArticleRepository persists admitted articles. URL equality is the sole
// identity key: InsertArticle reports inserted=false both when the URL was
// already stored and when a concurrent insert won the race.
type ArticleRepository interface {
	GetArticle(ctx context.Context, id string) (domain.Article, error)
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
	InsertArticle(ctx context.Context, article domain.Article) (inserted bool, err error)
}

// KeywordRepository stores the append-only keyword set of an article.
type KeywordRepository interface {
	InsertKeywords(ctx context.Context, keywords []domain.Keyword) error
}

// SentimentRepository stores at most one analysis per article. Re-analysis
// requires an explicit delete first; there is no upsert.
type SentimentRepository interface {
	InsertSentiment(ctx context.Context, analysis domain.SentimentAnalysis) error
	DeleteSentiment(ctx context.Context, articleID string) error
}

// StockRepository maintains the stock dimension table and mention links.
// EnsureStock is insert-or-get by symbol; InsertMention silently ignores a
// duplicate (article, stock) pair.
type StockRepository interface {
	EnsureStock(ctx context.Context, stock domain.Stock) (domain.Stock, error)
	InsertMention(ctx context.Context, mention domain.StockMention) error
}

// FeedFetcher retrieves and normalizes one remote feed document.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (domain.NormalizedFeed, error)
}

// KeywordExtractor produces the top keywords of an article's text.
type KeywordExtractor interface {
	Extract(text string) []domain.Keyword
}

// SentimentProvider scores the sentiment of an article. Available reports
// whether the provider is configured; the pipeline falls back per article
// when it is not, or when a single call fails.
type SentimentProvider interface {
	Available() bool
	Method() string
	AnalyzeSentiment(ctx context.Context, title, text string) (domain.SentimentResult, error)
}

// StockProvider detects stock mentions in an article.
type StockProvider interface {
	Available() bool
	DetectStocks(ctx context.Context, title, text string) ([]domain.DetectedStock, error)
}

// Scheduler controls when the periodic refresh executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
