package scoring

import (
	"slices"
	"strings"

	"github.com/mr1hm/safemap/internal/models"
)

const (
	neutralSentiment = 70
	positiveWeight   = 2
	negativeWeight   = 3
)

var (
	positiveKeywords = []string{
		"peace", "stable", "safe", "tourism", "development",
		"growth", "agreement", "ceasefire", "recovery",
	}
	negativeKeywords = []string{
		"war", "conflict", "attack", "bomb", "protest", "riot", "flood",
		"earthquake", "tsunami", "hurricane", "epidemic", "explosion",
		"shooting", "terror",
	}
	criticalKeywords = []string{"war", "tsunami", "earthquake", "terror"}
)

// Sentiment scores a batch of articles on the political/stability scale.
// Each keyword counts at most once per article. HasCritical is set as soon
// as any article mentions a critical keyword and never resets.
func Sentiment(articles []models.NewsArticle) models.SentimentResult {
	score := neutralSentiment
	hasCritical := false

	for _, a := range articles {
		text := articleText(a.Title, a.Description)
		for _, kw := range positiveKeywords {
			if strings.Contains(text, kw) {
				score += positiveWeight
			}
		}
		for _, kw := range negativeKeywords {
			if !strings.Contains(text, kw) {
				continue
			}
			score -= negativeWeight
			if slices.Contains(criticalKeywords, kw) {
				hasCritical = true
			}
		}
	}

	return models.SentimentResult{
		Score:       clampScore(score),
		HasCritical: hasCritical,
	}
}
