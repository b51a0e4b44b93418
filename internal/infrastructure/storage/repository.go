package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"newslens/internal/domain"
	"newslens/internal/ports"
)

// SQLRepository persists feeds, articles, and analysis records through
// database/sql. The dialect difference between Postgres and SQLite is
// limited to placeholders, duplicate-key detection, and the bootstrap DDL.
type SQLRepository struct {
	db          *sql.DB
	sb          sq.StatementBuilderType
	isDuplicate func(error) bool
	schema      string
}

var (
	_ ports.FeedRepository      = (*SQLRepository)(nil)
	_ ports.ArticleRepository   = (*SQLRepository)(nil)
	_ ports.KeywordRepository   = (*SQLRepository)(nil)
	_ ports.SentimentRepository = (*SQLRepository)(nil)
	_ ports.StockRepository     = (*SQLRepository)(nil)
)

// EnsureSchema creates the tables when they do not exist yet.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// CreateFeed inserts a new subscription.
func (r *SQLRepository) CreateFeed(ctx context.Context, feed domain.Feed) error {
	_, err := r.sb.Insert("feeds").
		Columns("id", "url", "title", "description", "category", "language", "is_active", "last_fetched", "created_at").
		Values(feed.ID, feed.URL, feed.Title, feed.Description, feed.Category, feed.Language, feed.IsActive, feed.LastFetched, feed.CreatedAt).
		RunWith(r.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	return nil
}

// GetFeed looks up one feed by id.
func (r *SQLRepository) GetFeed(ctx context.Context, id string) (domain.Feed, error) {
	row := r.sb.Select(feedColumns...).From("feeds").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).QueryRowContext(ctx)
	return scanFeed(row)
}

// ListActiveFeeds returns every feed eligible for refreshing.
func (r *SQLRepository) ListActiveFeeds(ctx context.Context) ([]domain.Feed, error) {
	rows, err := r.sb.Select(feedColumns...).From("feeds").
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at ASC").
		RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query feeds: %w", err)
	}
	defer rows.Close()

	var feeds []domain.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return feeds, nil
}

// TouchLastFetched records a successful refresh time.
func (r *SQLRepository) TouchLastFetched(ctx context.Context, id string, at time.Time) error {
	_, err := r.sb.Update("feeds").
		Set("last_fetched", at).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("touch feed %s: %w", id, err)
	}
	return nil
}

// GetArticle looks up one article by id.
func (r *SQLRepository) GetArticle(ctx context.Context, id string) (domain.Article, error) {
	row := r.sb.Select(articleColumns...).From("articles").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).QueryRowContext(ctx)
	return scanArticle(row)
}

// ExistingURLs returns a map with the URLs that are already stored.
func (r *SQLRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	if len(urls) == 0 {
		return map[string]bool{}, nil
	}

	rows, err := r.sb.Select("url").From("articles").
		Where(sq.Eq{"url": urls}).
		RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query article urls: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// InsertArticle admits an article. A duplicate-key violation on the unique
// url means a concurrent refresh already admitted it and is reported as
// inserted=false, not as an error.
func (r *SQLRepository) InsertArticle(ctx context.Context, a domain.Article) (bool, error) {
	_, err := r.sb.Insert("articles").
		Columns("id", "feed_id", "title", "content", "summary", "url", "author", "published_at", "image_url", "created_at").
		Values(a.ID, a.FeedID, a.Title, a.Content, a.Summary, a.URL, a.Author, a.PublishedAt, a.ImageURL, a.CreatedAt).
		RunWith(r.db).ExecContext(ctx)
	if err != nil {
		if r.isDuplicate(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert article: %w", err)
	}
	return true, nil
}

// InsertKeywords stores an article's keyword set; duplicates are ignored.
func (r *SQLRepository) InsertKeywords(ctx context.Context, keywords []domain.Keyword) error {
	for _, kw := range keywords {
		_, err := r.sb.Insert("keywords").
			Columns("id", "article_id", "word", "frequency").
			Values(kw.ID, kw.ArticleID, kw.Word, kw.Frequency).
			RunWith(r.db).ExecContext(ctx)
		if err != nil && !r.isDuplicate(err) {
			return fmt.Errorf("insert keyword %q: %w", kw.Word, err)
		}
	}
	return nil
}

// InsertSentiment stores the single analysis row of an article. A second
// insert for the same article fails; re-analysis deletes first.
func (r *SQLRepository) InsertSentiment(ctx context.Context, s domain.SentimentAnalysis) error {
	breakdown, err := json.Marshal(s.KeywordSentiments)
	if err != nil {
		return fmt.Errorf("marshal keyword sentiments: %w", err)
	}

	_, err = r.sb.Insert("sentiment_analyses").
		Columns("id", "article_id", "overall_sentiment", "positive_score", "negative_score",
			"neutral_score", "confidence_score", "keyword_sentiments", "analysis_method", "created_at").
		Values(s.ID, s.ArticleID, string(s.Overall), s.Positive, s.Negative,
			s.Neutral, s.Confidence, string(breakdown), s.Method, s.CreatedAt).
		RunWith(r.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert sentiment: %w", err)
	}
	return nil
}

// DeleteSentiment removes the prior analysis so an article can be rescored.
func (r *SQLRepository) DeleteSentiment(ctx context.Context, articleID string) error {
	_, err := r.sb.Delete("sentiment_analyses").
		Where(sq.Eq{"article_id": articleID}).
		RunWith(r.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete sentiment: %w", err)
	}
	return nil
}

// EnsureStock looks a stock up by symbol and lazily creates it. Two
// concurrent creates of the same symbol resolve to the winner's row.
func (r *SQLRepository) EnsureStock(ctx context.Context, stock domain.Stock) (domain.Stock, error) {
	existing, err := r.getStockBySymbol(ctx, stock.Symbol)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return domain.Stock{}, err
	}

	_, err = r.sb.Insert("stocks").
		Columns("id", "symbol", "name", "exchange", "sector", "industry").
		Values(stock.ID, stock.Symbol, stock.Name, stock.Exchange, stock.Sector, stock.Industry).
		RunWith(r.db).ExecContext(ctx)
	if err != nil {
		if r.isDuplicate(err) {
			return r.getStockBySymbol(ctx, stock.Symbol)
		}
		return domain.Stock{}, fmt.Errorf("insert stock %s: %w", stock.Symbol, err)
	}
	return stock, nil
}

// InsertMention links an article to a stock; a duplicate (article, stock)
// pair is silently dropped.
func (r *SQLRepository) InsertMention(ctx context.Context, m domain.StockMention) error {
	_, err := r.sb.Insert("stock_mentions").
		Columns("id", "article_id", "stock_id", "relevance_score", "mention_count", "context_type", "created_at").
		Values(m.ID, m.ArticleID, m.StockID, m.RelevanceScore, m.MentionCount, string(m.ContextType), m.CreatedAt).
		RunWith(r.db).ExecContext(ctx)
	if err != nil && !r.isDuplicate(err) {
		return fmt.Errorf("insert stock mention: %w", err)
	}
	return nil
}

func (r *SQLRepository) getStockBySymbol(ctx context.Context, symbol string) (domain.Stock, error) {
	var s domain.Stock
	row := r.sb.Select("id", "symbol", "name", "exchange", "sector", "industry").From("stocks").
		Where(sq.Eq{"symbol": symbol}).
		RunWith(r.db).QueryRowContext(ctx)
	err := row.Scan(&s.ID, &s.Symbol, &s.Name, &s.Exchange, &s.Sector, &s.Industry)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Stock{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Stock{}, fmt.Errorf("scan stock: %w", err)
	}
	return s, nil
}

var feedColumns = []string{"id", "url", "title", "description", "category", "language", "is_active", "last_fetched", "created_at"}

var articleColumns = []string{"id", "feed_id", "title", "content", "summary", "url", "author", "published_at", "image_url", "created_at"}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (domain.Feed, error) {
	var f domain.Feed
	err := row.Scan(&f.ID, &f.URL, &f.Title, &f.Description, &f.Category, &f.Language, &f.IsActive, &f.LastFetched, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Feed{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Feed{}, fmt.Errorf("scan feed: %w", err)
	}
	return f, nil
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var a domain.Article
	err := row.Scan(&a.ID, &a.FeedID, &a.Title, &a.Content, &a.Summary, &a.URL, &a.Author, &a.PublishedAt, &a.ImageURL, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}
	return a, nil
}
