package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mr1hm/safemap/internal/models"
)

const maxFeedItems = 10

// RSS reads the configured news feed. A missing feed URL is reported as
// ErrNoAPIKey so the chain treats it like any unconfigured provider.
func (c *Client) RSS(ctx context.Context) ([]models.NewsArticle, error) {
	if c.cfg.NewsRSSURL == "" {
		return nil, ErrNoAPIKey
	}

	feed, err := c.Feed(ctx, "rss", c.cfg.NewsRSSURL)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}

	articles := make([]models.NewsArticle, 0, len(items))
	for _, item := range items {
		articles = append(articles, ArticleFromItem(feed, item))
	}
	return articles, nil
}

// Feed fetches and parses an RSS or Atom feed with the client's retry policy.
func (c *Client) Feed(ctx context.Context, provider, feedURL string) (*gofeed.Feed, error) {
	parser := gofeed.NewParser()
	parser.Client = c.http
	parser.UserAgent = userAgent

	var feed *gofeed.Feed
	err := c.retry(ctx, provider, func() error {
		f, err := parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			var httpErr gofeed.HTTPError
			if errors.As(err, &httpErr) {
				return statusFailure(provider, httpErr.StatusCode)
			}
			return fmt.Errorf("error parsing %s feed: %w", provider, err)
		}
		feed = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feed, nil
}

func ArticleFromItem(feed *gofeed.Feed, item *gofeed.Item) models.NewsArticle {
	a := models.NewsArticle{
		Title:       item.Title,
		Description: item.Description,
		Source:      feed.Title,
		URL:         item.Link,
		PublishedAt: item.Published,
	}
	if item.PublishedParsed != nil {
		a.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	if item.Image != nil && item.Image.URL != "" {
		img := item.Image.URL
		a.URLToImage = &img
	}
	return a
}
