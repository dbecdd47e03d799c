package sources

import "github.com/mr1hm/safemap/internal/models"

const PlaceholderSource = "placeholder"

// PlaceholderArticles is the display filler used when every news provider
// failed. Callers must not feed it into sentiment scoring.
func PlaceholderArticles() []models.NewsArticle {
	return []models.NewsArticle{
		{
			Title:       "Global Safety Index Released",
			Description: "The annual global safety report highlights improvements in urban security and disaster preparedness worldwide.",
			Source:      "SafeMap Intelligence",
			URL:         "https://safemap.example.com",
			PublishedAt: "2024-01-01T12:00:00Z",
		},
		{
			Title:       "Weather Advisories Updated",
			Description: "Meteorological departments have updated regional weather advisories ahead of the changing season.",
			Source:      "Global Weather Network",
			URL:         "https://safemap.example.com/weather",
			PublishedAt: "2024-01-01T14:00:00Z",
		},
	}
}

func PlaceholderAlerts() []*models.Alert {
	return []*models.Alert{
		{
			ID:               "alert-1",
			Title:            "Severe Storm Watch",
			Description:      "A severe storm watch is in effect for the Great Lakes region.",
			Severity:         models.AlertSeverityMedium,
			Type:             models.AlertTypeWeather,
			Source:           "Global Weather Network",
			URL:              "https://safemap.example.com",
			PublishedAt:      "2024-01-01T12:00:00Z",
			AffectedLocation: "Great Lakes",
		},
		{
			ID:               "alert-2",
			Title:            "Global Safety Index Released",
			Description:      "Recent stability surveys show improvement in northern regions.",
			Severity:         models.AlertSeverityLow,
			Type:             models.AlertTypePolitical,
			Source:           "SafeMap Intelligence",
			URL:              "https://safemap.example.com",
			PublishedAt:      "2024-01-01T14:30:00Z",
			AffectedLocation: "Global",
		},
	}
}
