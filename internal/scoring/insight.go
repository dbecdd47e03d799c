package scoring

const (
	InsightCritical  = "WARNING: Critical events detected in regional news. Travel not recommended."
	InsightWeather   = "Caution advised due to severe weather conditions in the area."
	InsightPolitical = "Increased civil or geopolitical tensions found in recent reports. Remain vigilant."
	InsightStable    = "Conditions are stable. Favorable environment for travel."
)

// Insight picks the verdict for a place. Critical news outranks severe
// weather, which outranks political tension.
func Insight(hasCriticalNews bool, weatherRisk, politicalScore int) string {
	switch {
	case hasCriticalNews:
		return InsightCritical
	case weatherRisk > 70:
		return InsightWeather
	case politicalScore < 50:
		return InsightPolitical
	default:
		return InsightStable
	}
}
