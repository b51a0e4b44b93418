package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newslens/internal/domain"
	"newslens/internal/ports"
)

const (
	defaultExchange = "NASDAQ"
	defaultSector   = "Technology"
	defaultCategory = "general"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Feeds      ports.FeedRepository
	Articles   ports.ArticleRepository
	Keywords   ports.KeywordRepository
	Sentiments ports.SentimentRepository
	Stocks     ports.StockRepository

	Fetcher   ports.FeedFetcher
	Extractor ports.KeywordExtractor

	// Remote providers are optional; the fallbacks are not. Fallback
	// happens per article, never as a permanent downgrade.
	Sentiment         ports.SentimentProvider
	SentimentFallback ports.SentimentProvider
	StockDetector     ports.StockProvider
	StockFallback     ports.StockProvider

	FeedDelay time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Pipeline implements the feed-refresh and article-analysis workflow.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{deps: deps}
}

// RefreshAll refreshes every active feed sequentially, pausing between
// feeds. One feed's failure is recorded in its result and never aborts the
// remaining feeds.
func (p *Pipeline) RefreshAll(ctx context.Context) ([]domain.RefreshResult, error) {
	feeds, err := p.deps.Feeds.ListActiveFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active feeds: %w", err)
	}

	results := make([]domain.RefreshResult, 0, len(feeds))
	for i, feed := range feeds {
		result := domain.RefreshResult{FeedID: feed.ID, FeedTitle: feed.Title}

		newArticles, err := p.refresh(ctx, feed)
		if err != nil {
			p.deps.Logger.Error("refresh feed failed", "feed", feed.URL, "error", err)
			result.Err = err.Error()
		} else {
			result.Success = true
			result.NewArticles = newArticles
		}
		results = append(results, result)

		if i < len(feeds)-1 {
			p.pause(ctx)
		}
	}
	return results, nil
}

// RefreshFeed refreshes a single feed on demand and returns the number of
// newly admitted articles.
func (p *Pipeline) RefreshFeed(ctx context.Context, feedID string) (int, error) {
	feed, err := p.deps.Feeds.GetFeed(ctx, feedID)
	if err != nil {
		return 0, fmt.Errorf("load feed %s: %w", feedID, err)
	}
	return p.refresh(ctx, feed)
}

// AddFeed validates the URL by fetching it, creates the subscription, and
// ingests the initial batch of articles.
func (p *Pipeline) AddFeed(ctx context.Context, url, title, category string) (domain.Feed, error) {
	parsed, err := p.deps.Fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.Feed{}, err
	}

	if title == "" {
		title = parsed.Title
	}
	if category == "" {
		category = defaultCategory
	}

	now := p.deps.Now()
	feed := domain.Feed{
		ID:          uuid.NewString(),
		URL:         url,
		Title:       title,
		Description: parsed.Description,
		Category:    category,
		Language:    parsed.Language,
		IsActive:    true,
		LastFetched: now,
		CreatedAt:   now,
	}
	if err := p.deps.Feeds.CreateFeed(ctx, feed); err != nil {
		return domain.Feed{}, fmt.Errorf("create feed: %w", err)
	}

	admitted := p.ingest(ctx, feed.ID, parsed.Items)
	p.deps.Logger.Info("feed added", "feed", url, "articles", admitted)
	return feed, nil
}

// ReanalyzeSentiment deletes an article's prior sentiment row and scores it
// again. The two steps are deliberate; there is no upsert for this table.
func (p *Pipeline) ReanalyzeSentiment(ctx context.Context, articleID string) error {
	article, err := p.deps.Articles.GetArticle(ctx, articleID)
	if err != nil {
		return fmt.Errorf("load article %s: %w", articleID, err)
	}
	if err := p.deps.Sentiments.DeleteSentiment(ctx, articleID); err != nil {
		return fmt.Errorf("delete sentiment: %w", err)
	}

	result, method := p.scoreSentiment(ctx, article.Title, article.Content)
	if err := p.deps.Sentiments.InsertSentiment(ctx, p.sentimentRow(article.ID, result, method)); err != nil {
		return fmt.Errorf("insert sentiment: %w", err)
	}
	return nil
}

// refresh runs one full fetch → admit → analyze pass for a feed and stamps
// lastFetched on success.
func (p *Pipeline) refresh(ctx context.Context, feed domain.Feed) (int, error) {
	parsed, err := p.deps.Fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		return 0, err
	}

	admitted := p.ingest(ctx, feed.ID, parsed.Items)

	if err := p.deps.Feeds.TouchLastFetched(ctx, feed.ID, p.deps.Now()); err != nil {
		return admitted, fmt.Errorf("update last fetched: %w", err)
	}
	return admitted, nil
}

// ingest admits the genuinely new items and fans each admitted article out
// to the analyzers. A single item's failure is logged and skipped.
func (p *Pipeline) ingest(ctx context.Context, feedID string, items []domain.NormalizedItem) int {
	urls := make([]string, 0, len(items))
	for _, item := range items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}

	existing, err := p.deps.Articles.ExistingURLs(ctx, urls)
	if err != nil {
		p.deps.Logger.Error("load existing urls", "error", err)
		existing = map[string]bool{}
	}

	admitted := 0
	for _, item := range items {
		if item.Link == "" {
			p.deps.Logger.Warn("skip item without link", "title", item.Title)
			continue
		}
		if existing[item.Link] {
			continue
		}

		article := domain.Article{
			ID:          uuid.NewString(),
			FeedID:      feedID,
			Title:       item.Title,
			Content:     item.Content,
			Summary:     item.Snippet,
			URL:         item.Link,
			Author:      item.Author,
			PublishedAt: item.PubDate,
			ImageURL:    item.ImageURL,
			CreatedAt:   p.deps.Now(),
		}

		inserted, err := p.deps.Articles.InsertArticle(ctx, article)
		if err != nil {
			p.deps.Logger.Error("admit article", "url", item.Link, "error", err)
			continue
		}
		if !inserted {
			continue
		}

		p.analyze(ctx, article)
		admitted++
	}
	return admitted
}

// analyze runs the three analyzers for one admitted article. Each analyzer
// failure is logged and isolated from the other two.
func (p *Pipeline) analyze(ctx context.Context, article domain.Article) {
	p.extractKeywords(ctx, article)
	p.analyzeSentiment(ctx, article)
	p.detectStocks(ctx, article)
}

func (p *Pipeline) extractKeywords(ctx context.Context, article domain.Article) {
	keywords := p.deps.Extractor.Extract(article.Title + " " + article.Summary)
	if len(keywords) == 0 {
		return
	}
	for i := range keywords {
		keywords[i].ID = uuid.NewString()
		keywords[i].ArticleID = article.ID
	}
	if err := p.deps.Keywords.InsertKeywords(ctx, keywords); err != nil {
		p.deps.Logger.Error("store keywords", "article", article.URL, "error", err)
	}
}

func (p *Pipeline) analyzeSentiment(ctx context.Context, article domain.Article) {
	result, method := p.scoreSentiment(ctx, article.Title, article.Content)
	if err := p.deps.Sentiments.InsertSentiment(ctx, p.sentimentRow(article.ID, result, method)); err != nil {
		p.deps.Logger.Error("store sentiment", "article", article.URL, "error", err)
	}
}

// scoreSentiment tries the remote provider when it reports itself
// available and falls back to the lexicon analyzer for this article on any
// failure.
func (p *Pipeline) scoreSentiment(ctx context.Context, title, text string) (domain.SentimentResult, string) {
	if remote := p.deps.Sentiment; remote != nil && remote.Available() {
		result, err := remote.AnalyzeSentiment(ctx, title, text)
		if err == nil {
			return result, remote.Method()
		}
		p.deps.Logger.Warn("remote sentiment failed, using fallback", "error", err)
	}

	result, err := p.deps.SentimentFallback.AnalyzeSentiment(ctx, title, text)
	if err != nil {
		// The lexicon analyzer cannot fail in practice; keep the
		// degenerate neutral default as a last resort.
		p.deps.Logger.Error("fallback sentiment failed", "error", err)
		result = domain.SentimentResult{SentimentScores: domain.SentimentScores{
			Overall: domain.SentimentNeutral, Positive: 0.5, Negative: 0.5, Neutral: 1.0, Confidence: 0.3,
		}}
	}
	return result, p.deps.SentimentFallback.Method()
}

func (p *Pipeline) detectStocks(ctx context.Context, article domain.Article) {
	detected := p.detect(ctx, article.Title, article.Content)

	for _, d := range detected {
		stock, err := p.deps.Stocks.EnsureStock(ctx, domain.Stock{
			ID:       uuid.NewString(),
			Symbol:   d.Symbol,
			Name:     d.Name,
			Exchange: defaultExchange,
			Sector:   defaultSector,
		})
		if err != nil {
			p.deps.Logger.Error("ensure stock", "symbol", d.Symbol, "error", err)
			continue
		}

		mention := domain.StockMention{
			ID:             uuid.NewString(),
			ArticleID:      article.ID,
			StockID:        stock.ID,
			RelevanceScore: d.Relevance,
			MentionCount:   d.Count,
			ContextType:    d.Context,
			CreatedAt:      p.deps.Now(),
		}
		if err := p.deps.Stocks.InsertMention(ctx, mention); err != nil {
			p.deps.Logger.Error("store stock mention", "symbol", d.Symbol, "article", article.URL, "error", err)
		}
	}
}

func (p *Pipeline) detect(ctx context.Context, title, text string) []domain.DetectedStock {
	if remote := p.deps.StockDetector; remote != nil && remote.Available() {
		detected, err := remote.DetectStocks(ctx, title, text)
		if err == nil {
			return detected
		}
		p.deps.Logger.Warn("remote stock detection failed, using fallback", "error", err)
	}

	detected, err := p.deps.StockFallback.DetectStocks(ctx, title, text)
	if err != nil {
		p.deps.Logger.Error("fallback stock detection failed", "error", err)
		return nil
	}
	return detected
}

func (p *Pipeline) sentimentRow(articleID string, result domain.SentimentResult, method string) domain.SentimentAnalysis {
	return domain.SentimentAnalysis{
		ID:                uuid.NewString(),
		ArticleID:         articleID,
		SentimentScores:   result.SentimentScores,
		KeywordSentiments: result.KeywordSentiments,
		Method:            method,
		CreatedAt:         p.deps.Now(),
	}
}

// pause enforces the fixed inter-feed delay without outliving the context.
func (p *Pipeline) pause(ctx context.Context) {
	if p.deps.FeedDelay <= 0 {
		return
	}
	select {
	case <-time.After(p.deps.FeedDelay):
	case <-ctx.Done():
	}
}
