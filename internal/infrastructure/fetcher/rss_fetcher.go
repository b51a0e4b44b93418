package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"newslens/internal/domain"
	"newslens/internal/ports"
)

const (
	snippetLength   = 200
	defaultUA       = "newslens/1.0"
	placeholderFeed = "Unknown Feed"
	placeholderItem = "Untitled"
)

// FetchError wraps any failure to retrieve or parse a remote feed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RSSFetcher retrieves RSS/Atom documents and normalizes them into the
// in-memory feed representation. It has no side effects.
type RSSFetcher struct {
	client *http.Client
	parser *gofeed.Parser
}

var _ ports.FeedFetcher = (*RSSFetcher)(nil)

// NewRSSFetcher wires an HTTP client; nil selects a 20-second timeout.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSFetcher{client: client, parser: gofeed.NewParser()}
}

// Fetch downloads and normalizes one feed. Network failures, non-2xx
// responses, and unparsable bodies all surface as *FetchError.
func (f *RSSFetcher) Fetch(ctx context.Context, url string) (domain.NormalizedFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NormalizedFeed{}, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", defaultUA)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.NormalizedFeed{}, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.NormalizedFeed{}, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return domain.NormalizedFeed{}, &FetchError{URL: url, Err: fmt.Errorf("parse document: %w", err)}
	}

	return normalize(feed), nil
}

func normalize(feed *gofeed.Feed) domain.NormalizedFeed {
	title := feed.Title
	if title == "" {
		title = placeholderFeed
	}

	items := make([]domain.NormalizedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, normalizeItem(item))
	}

	return domain.NormalizedFeed{
		Title:       title,
		Description: feed.Description,
		Language:    feed.Language,
		Items:       items,
	}
}

func normalizeItem(item *gofeed.Item) domain.NormalizedItem {
	title := item.Title
	if title == "" {
		title = placeholderItem
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}

	return domain.NormalizedItem{
		Title:    title,
		Link:     item.Link,
		PubDate:  itemDate(item),
		Author:   itemAuthor(item),
		Content:  content,
		Snippet:  Snippet(content, snippetLength),
		ImageURL: imageEnclosure(item),
	}
}

// itemDate prefers the published timestamp, then the updated one, and
// defaults to now when the source carries neither or the value was
// unparsable.
func itemDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Now()
}

// itemAuthor falls through author, then Dublin Core creator, then empty.
func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return item.DublinCoreExt.Creator[0]
	}
	return ""
}

// imageEnclosure carries an enclosure through only when its declared MIME
// type indicates an image.
func imageEnclosure(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// Snippet strips markup from HTML-ish text and truncates it to maxLen
// runes, appending an ellipsis when truncated.
func Snippet(text string, maxLen int) string {
	if text == "" {
		return ""
	}

	clean := text
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		clean = doc.Text()
	}
	clean = strings.Join(strings.Fields(clean), " ")

	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}
