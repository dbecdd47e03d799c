package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/sources"
)

type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
}

type usgsProperties struct {
	Mag     float64 `json:"mag"`
	Place   string  `json:"place"`
	Time    int64   `json:"time"` // unix millis
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Tsunami int     `json:"tsunami"` // 0 or 1
}

// usgsFetch turns USGS earthquake features into articles the keyword
// classifier can grade: the description spells out "Magnitude X.Y earthquake".
func usgsFetch(client *sources.Client, url string) FetchFunc {
	return func(ctx context.Context) ([]Candidate, error) {
		var data usgsResponse
		if err := client.GetJSON(ctx, "usgs", url, &data); err != nil {
			return nil, err
		}

		candidates := make([]Candidate, 0, len(data.Features))
		for _, f := range data.Features {
			candidates = append(candidates, Candidate{
				Article:  quakeArticle(f),
				Location: placeCountry(f.Properties.Place),
				Source:   "usgs",
			})
		}
		return candidates, nil
	}
}

func quakeArticle(f usgsFeature) models.NewsArticle {
	p := f.Properties

	desc := fmt.Sprintf("Magnitude %.1f earthquake", p.Mag)
	if p.Place != "" {
		desc += ", " + p.Place
	}
	desc += "."
	if p.Tsunami == 1 {
		desc += " USGS tsunami flag raised."
	}

	title := p.Title
	if title == "" {
		title = fmt.Sprintf("M %.1f earthquake", p.Mag)
	}

	url := p.URL
	if url == "" && f.ID != "" {
		url = "https://earthquake.usgs.gov/earthquakes/eventpage/" + f.ID
	}

	return models.NewsArticle{
		Title:       title,
		Description: desc,
		Source:      "USGS",
		URL:         url,
		PublishedAt: time.UnixMilli(p.Time).UTC().Format(time.RFC3339),
	}
}

// placeCountry returns the trailing region of a USGS place string,
// e.g. "Japan" for "45 km ENE of Hasaki, Japan".
func placeCountry(place string) string {
	if i := strings.LastIndex(place, ","); i >= 0 {
		return strings.TrimSpace(place[i+1:])
	}
	return strings.TrimSpace(place)
}
