package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr1hm/safemap/internal/config"
	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/scoring"
)

const gdacsSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:gdacs="http://www.gdacs.org">
<channel>
  <title>GDACS RSS information</title>
  <item>
    <title>Red flood alert in Bangladesh</title>
    <description>Flooding affects several districts.</description>
    <link>https://www.gdacs.org/report.aspx?eventtype=FL&amp;eventid=1</link>
    <pubDate>Wed, 01 May 2024 10:00:00 GMT</pubDate>
    <gdacs:alertlevel>Red</gdacs:alertlevel>
    <gdacs:country>Bangladesh</gdacs:country>
  </item>
  <item>
    <title>Green tropical cyclone alert</title>
    <description>Open ocean system.</description>
    <link>https://www.gdacs.org/report.aspx?eventtype=TC&amp;eventid=2</link>
  </item>
</channel>
</rss>`

func TestGDACSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(gdacsSample))
	}))
	defer srv.Close()

	got, err := gdacsFetch(testClient(config.ProvidersConfig{}), srv.URL)(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	flood := got[0]
	if flood.Location != "Bangladesh" || flood.Article.Source != "GDACS" {
		t.Errorf("unexpected candidate %+v", flood)
	}
	if flood.Article.PublishedAt != "2024-05-01T10:00:00Z" {
		t.Errorf("unexpected published date %q", flood.Article.PublishedAt)
	}
	c := scoring.ClassifyAlert(flood.Article)
	if c.Severity != models.AlertSeverityHigh || c.Type != models.AlertTypeDisaster {
		t.Errorf("expected HIGH/Disaster, got %+v", c)
	}

	if got[1].Location != "" {
		t.Errorf("expected no location without extension, got %q", got[1].Location)
	}
	if c := scoring.ClassifyAlert(got[1].Article); c.Severity != models.AlertSeverityHigh {
		t.Errorf("cyclone should be HIGH, got %s", c.Severity)
	}
}

const usgsSample = `{
  "type": "FeatureCollection",
  "features": [
    {"id": "us7000abcd", "properties": {"mag": 7.2, "place": "45 km ENE of Hasaki, Japan", "time": 1714557600000, "title": "M 7.2 - 45 km ENE of Hasaki, Japan", "url": "https://earthquake.usgs.gov/earthquakes/eventpage/us7000abcd", "tsunami": 1}},
    {"id": "us7000efgh", "properties": {"mag": 4.6, "place": "Fiji region", "time": 1714557600000, "title": "M 4.6 - Fiji region", "url": "", "tsunami": 0}}
  ]
}`

func TestUSGSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(usgsSample))
	}))
	defer srv.Close()

	got, err := usgsFetch(testClient(config.ProvidersConfig{}), srv.URL)(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	big := got[0]
	if big.Location != "Japan" {
		t.Errorf("expected Japan, got %q", big.Location)
	}
	if big.Article.Description != "Magnitude 7.2 earthquake, 45 km ENE of Hasaki, Japan. USGS tsunami flag raised." {
		t.Errorf("unexpected description %q", big.Article.Description)
	}
	if big.Article.PublishedAt != "2024-05-01T10:00:00Z" {
		t.Errorf("unexpected published date %q", big.Article.PublishedAt)
	}
	if c := scoring.ClassifyAlert(big.Article); c.Severity != models.AlertSeverityCritical || c.Type != models.AlertTypeDisaster {
		t.Errorf("expected CRITICAL/Disaster, got %+v", c)
	}

	small := got[1]
	if small.Location != "Fiji region" {
		t.Errorf("expected Fiji region, got %q", small.Location)
	}
	if small.Article.URL != "https://earthquake.usgs.gov/earthquakes/eventpage/us7000efgh" {
		t.Errorf("expected event page fallback, got %q", small.Article.URL)
	}
	if c := scoring.ClassifyAlert(small.Article); c.Severity != models.AlertSeverityLow || c.Type != models.AlertTypeDisaster {
		t.Errorf("expected LOW/Disaster, got %+v", c)
	}
}

func TestPlaceCountry(t *testing.T) {
	tests := map[string]string{
		"45 km ENE of Hasaki, Japan": "Japan",
		"Fiji region":                "Fiji region",
		"10 km S of Volcano, Hawaii": "Hawaii",
		"":                           "",
	}
	for in, want := range tests {
		if got := placeCountry(in); got != want {
			t.Errorf("placeCountry(%q) = %q, expected %q", in, got, want)
		}
	}
}
