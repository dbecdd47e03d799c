package models

import "time"

type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "LOW"
	AlertSeverityMedium   AlertSeverity = "MEDIUM"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

// Rank orders severities so filters can ask for "at least HIGH".
func (s AlertSeverity) Rank() int {
	switch s {
	case AlertSeverityCritical:
		return 4
	case AlertSeverityHigh:
		return 3
	case AlertSeverityMedium:
		return 2
	case AlertSeverityLow:
		return 1
	default:
		return 0
	}
}

type AlertType string

const (
	AlertTypeDisaster  AlertType = "Disaster"
	AlertTypeWeather   AlertType = "Weather"
	AlertTypePolitical AlertType = "Political"
	AlertTypeHealth    AlertType = "Health"
	AlertTypeCrime     AlertType = "Crime"
)

// Classification is the (severity, type) pair derived from one article.
type Classification struct {
	Severity AlertSeverity `json:"severity"`
	Type     AlertType     `json:"type"`
}

type Alert struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Severity         AlertSeverity `json:"severity"`
	Type             AlertType     `json:"type"`
	Source           string        `json:"source"`
	URL              string        `json:"url"`
	PublishedAt      string        `json:"publishedAt"`
	URLToImage       *string       `json:"urlToImage"`
	AffectedLocation string        `json:"affectedLocation"`
	CreatedAt        time.Time     `json:"-"` // when we ingested it
}
