package scoring

import (
	"github.com/google/uuid"

	"github.com/mr1hm/safemap/internal/models"
)

var severityRules = []keywordRule[models.AlertSeverity]{
	{keywords: []string{"war", "tsunami", "magnitude 7", "nuclear"}, effect: models.AlertSeverityCritical},
	{keywords: []string{"flood", "hurricane", "conflict", "outbreak", "cyclone"}, effect: models.AlertSeverityHigh},
	{keywords: []string{"protest", "storm", "wildfire", "unrest"}, effect: models.AlertSeverityMedium},
}

var typeRules = []keywordRule[models.AlertType]{
	{keywords: []string{"war", "conflict", "protest"}, effect: models.AlertTypePolitical},
	{keywords: []string{"outbreak", "virus"}, effect: models.AlertTypeHealth},
	{keywords: []string{"crime", "shooting"}, effect: models.AlertTypeCrime},
	{keywords: []string{"earthquake", "tsunami", "wildfire", "flood"}, effect: models.AlertTypeDisaster},
}

// alertNamespace scopes the deterministic alert IDs.
var alertNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://safemap.ai/alerts"))

// ClassifyAlert assigns a severity and a type to an article. The two rule
// lists run independently over the same lower-cased text and match
// substrings, except that "warn" never counts as "war".
func ClassifyAlert(a models.NewsArticle) models.Classification {
	text := articleText(a.Title, a.Description)
	return models.Classification{
		Severity: firstMatch(text, severityRules, containsAnyKeyword, models.AlertSeverityLow),
		Type:     firstMatch(text, typeRules, containsAnyKeyword, models.AlertTypeWeather),
	}
}

// AlertID derives a stable ID from the article URL, or from its title when
// the provider gave no URL.
func AlertID(a models.NewsArticle) string {
	key := a.URL
	if key == "" {
		key = a.Title
	}
	return uuid.NewSHA1(alertNamespace, []byte(key)).String()
}

// BuildAlert classifies an article and fills the display fields. location
// defaults to "Global".
func BuildAlert(a models.NewsArticle, location string) models.Alert {
	cls := ClassifyAlert(a)
	if location == "" {
		location = "Global"
	}
	title := a.Title
	if title == "" {
		title = "Unknown Alert"
	}
	source := a.Source
	if source == "" {
		source = "Global News"
	}
	return models.Alert{
		ID:               AlertID(a),
		Title:            title,
		Description:      a.Description,
		Severity:         cls.Severity,
		Type:             cls.Type,
		Source:           source,
		URL:              a.URL,
		PublishedAt:      a.PublishedAt,
		URLToImage:       a.URLToImage,
		AffectedLocation: location,
	}
}
