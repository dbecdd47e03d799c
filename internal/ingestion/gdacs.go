package ingestion

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/mr1hm/safemap/internal/sources"
)

// gdacsFetch reads the GDACS RSS feed. Items carry their country in the
// gdacs:country extension.
func gdacsFetch(client *sources.Client, url string) FetchFunc {
	return func(ctx context.Context) ([]Candidate, error) {
		feed, err := client.Feed(ctx, "gdacs", url)
		if err != nil {
			return nil, err
		}

		candidates := make([]Candidate, 0, len(feed.Items))
		for _, item := range feed.Items {
			a := sources.ArticleFromItem(feed, item)
			a.Source = "GDACS"
			candidates = append(candidates, Candidate{
				Article:  a,
				Location: gdacsField(item, "country"),
				Source:   "gdacs",
			})
		}
		return candidates, nil
	}
}

func gdacsField(item *gofeed.Item, name string) string {
	if vals := item.Extensions["gdacs"][name]; len(vals) > 0 {
		return strings.TrimSpace(vals[0].Value)
	}
	return ""
}
