package ingestion

import (
	"context"
	"log/slog"

	"github.com/mr1hm/safemap/internal/config"
	"github.com/mr1hm/safemap/internal/sources"
)

const newsPageSize = 20

// DefaultPollers returns a poller for every alert source that is enabled
// and configured.
func DefaultPollers(cfg *config.Config, client *sources.Client) []Poller {
	interval := cfg.Alerts.PollInterval

	var pollers []Poller
	if cfg.Providers.NewsAPIKey != "" {
		pollers = append(pollers, Poller{Name: "newsapi", Interval: interval, Fetch: newsAPIFetch(client, cfg.Alerts.Query, "")})
		for _, country := range cfg.Alerts.NewsCountries {
			pollers = append(pollers, Poller{
				Name:     "newsapi:" + country,
				Interval: interval,
				Fetch:    newsAPIFetch(client, cfg.Alerts.Query, country),
			})
		}
	} else {
		slog.Info("NEWS_API_KEY not set, news alert poller disabled")
	}
	if cfg.Alerts.GDACSEnabled && cfg.Alerts.GDACSURL != "" {
		pollers = append(pollers, Poller{Name: "gdacs", Interval: interval, Fetch: gdacsFetch(client, cfg.Alerts.GDACSURL)})
	}
	if cfg.Alerts.USGSEnabled && cfg.Alerts.USGSURL != "" {
		pollers = append(pollers, Poller{Name: "usgs", Interval: interval, Fetch: usgsFetch(client, cfg.Alerts.USGSURL)})
	}
	return pollers
}

// newsAPIFetch searches NewsAPI for query. A non-empty location scopes the
// search to it and tags every candidate with it.
func newsAPIFetch(client *sources.Client, query, location string) FetchFunc {
	query = sources.ScopedQuery(query, location)
	return func(ctx context.Context) ([]Candidate, error) {
		articles, err := client.Everything(ctx, query, newsPageSize)
		if err != nil {
			return nil, err
		}

		candidates := make([]Candidate, 0, len(articles))
		for _, a := range articles {
			candidates = append(candidates, Candidate{Article: a, Location: location, Source: "newsapi"})
		}
		return candidates, nil
	}
}
