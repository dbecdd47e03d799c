package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/mr1hm/safemap/internal/models"
)

// NewsResult is the outcome of the provider chain. Placeholder marks display
// filler that must not be scored.
type NewsResult struct {
	Articles    []models.NewsArticle `json:"articles"`
	Source      string               `json:"source"`
	Placeholder bool                 `json:"placeholder"`
}

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Link        string  `json:"link"`
		PubDate     string  `json:"pubDate"`
		SourceID    string  `json:"source_id"`
		ImageURL    *string `json:"image_url"`
	} `json:"results"`
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		URL         string  `json:"url"`
		URLToImage  *string `json:"urlToImage"`
		PublishedAt string  `json:"publishedAt"`
	} `json:"articles"`
}

type newsProvider struct {
	name  string
	fetch func(ctx context.Context, country, q string) ([]models.NewsArticle, error)
}

// News walks NewsData.io, NewsAPI top-headlines and the RSS feed in order and
// returns the first non-empty answer. When all of them fail it returns the
// placeholder articles, never an error.
func (c *Client) News(ctx context.Context, country, q string) NewsResult {
	key := "news:" + strings.ToLower(country) + ":" + strings.ToLower(q)
	res, err := cached(ctx, c, key, c.newsTTL, func() (NewsResult, error) {
		return c.liveNews(ctx, country, q)
	})
	if err != nil {
		slog.Warn("all news providers failed, using placeholders", "country", country, "error", err)
		return NewsResult{Articles: PlaceholderArticles(), Source: PlaceholderSource, Placeholder: true}
	}
	return res
}

func (c *Client) liveNews(ctx context.Context, country, q string) (NewsResult, error) {
	providers := []newsProvider{
		{name: "newsdata", fetch: c.NewsData},
		{name: "newsapi", fetch: c.TopHeadlines},
		{name: "rss", fetch: func(ctx context.Context, _, _ string) ([]models.NewsArticle, error) {
			return c.RSS(ctx)
		}},
	}

	var errs []error
	for _, p := range providers {
		articles, err := p.fetch(ctx, country, q)
		if err == nil && len(articles) == 0 {
			err = ErrNoResults
		}
		if err == nil {
			return NewsResult{Articles: articles, Source: p.name}, nil
		}

		if !errors.Is(err, ErrNoAPIKey) {
			slog.Warn("news provider failed", "source", p.name, "country", country, "error", err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
	}

	return NewsResult{}, errors.Join(errs...)
}

// NewsData queries NewsData.io for country (alpha-2) and q.
func (c *Client) NewsData(ctx context.Context, country, q string) ([]models.NewsArticle, error) {
	if c.cfg.NewsDataKey == "" {
		return nil, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("apikey", c.cfg.NewsDataKey)
	params.Set("country", strings.ToLower(country))
	params.Set("q", q)

	var data newsDataResponse
	if err := c.GetJSON(ctx, "newsdata", c.cfg.NewsDataURL+"?"+params.Encode(), &data); err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, 0, len(data.Results))
	for _, r := range data.Results {
		articles = append(articles, models.NewsArticle{
			Title:       r.Title,
			Description: r.Description,
			Source:      r.SourceID,
			URL:         r.Link,
			PublishedAt: r.PubDate,
			URLToImage:  r.ImageURL,
		})
	}
	return articles, nil
}

// TopHeadlines queries NewsAPI.org top-headlines.
func (c *Client) TopHeadlines(ctx context.Context, country, q string) ([]models.NewsArticle, error) {
	params := url.Values{}
	params.Set("country", strings.ToLower(country))
	params.Set("q", q)
	return c.newsAPI(ctx, "top-headlines", params)
}

// ScopedQuery narrows a NewsAPI search to one location the way the alerts
// feed does. An empty location leaves the query unchanged.
func ScopedQuery(query, location string) string {
	if location == "" {
		return query
	}
	return "(" + query + ") AND " + location
}

// Everything searches all NewsAPI.org articles for query, newest first. The
// alerts feed uses it.
func (c *Client) Everything(ctx context.Context, query string, pageSize int) ([]models.NewsArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(pageSize))
	return c.newsAPI(ctx, "everything", params)
}

func (c *Client) newsAPI(ctx context.Context, endpoint string, params url.Values) ([]models.NewsArticle, error) {
	if c.cfg.NewsAPIKey == "" {
		return nil, ErrNoAPIKey
	}
	params.Set("apiKey", c.cfg.NewsAPIKey)

	rawURL := strings.TrimRight(c.cfg.NewsAPIURL, "/") + "/" + endpoint + "?" + params.Encode()

	var data newsAPIResponse
	if err := c.GetJSON(ctx, "newsapi", rawURL, &data); err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, 0, len(data.Articles))
	for _, a := range data.Articles {
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			URLToImage:  a.URLToImage,
		})
	}
	return articles, nil
}
