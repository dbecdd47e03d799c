package scoring

import (
	"math"
	"strings"
)

const (
	baseWeatherRisk   = 20
	severeWeatherRisk = 95

	// Used in place of NaN readings; they match the "weather unavailable"
	// observation and contribute no risk.
	neutralTemperature = 25.0
	neutralWind        = 0.0
)

var (
	severeConditions        = []string{"storm", "tornado", "hurricane", "cyclone"}
	precipitationConditions = []string{"snow", "rain", "thunder"}
)

// WeatherRisk maps an observation to a 0-100 risk-direction score.
// windSpeed is in m/s; condition matching is case-insensitive.
func WeatherRisk(temp, windSpeed float64, condition string) int {
	cond := strings.ToLower(condition)
	if containsAny(cond, severeConditions) {
		return severeWeatherRisk
	}

	if math.IsNaN(temp) {
		temp = neutralTemperature
	}
	if math.IsNaN(windSpeed) {
		windSpeed = neutralWind
	}

	risk := baseWeatherRisk
	if containsAny(cond, precipitationConditions) {
		risk += 15
	}

	switch {
	case temp < 0 || temp > 40:
		risk += 40
	case temp < 5 || temp > 35:
		risk += 15
	}

	windKmh := windSpeed * 3.6
	switch {
	case windKmh > 50:
		risk += 30
	case windKmh > 30:
		risk += 10
	}

	return clampScore(risk)
}
