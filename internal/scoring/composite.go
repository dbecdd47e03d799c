package scoring

import (
	"math"

	"github.com/mr1hm/safemap/internal/models"
)

const (
	disasterWeight  = 0.25
	crimeWeight     = 0.25
	airWeight       = 0.20
	politicalWeight = 0.20
	weatherWeight   = 0.10

	// criticalNewsCap bounds the overall score whenever critical news is present.
	criticalNewsCap = 40
)

// Composite combines the six signals into the overall 0-100 safety score.
func Composite(in models.CompositeInput) int {
	return Calculate(in).Overall
}

// Calculate returns the overall score together with its weighted terms and
// the safety-direction sub-scores.
//
// DisasterRisk and WeatherRisk arrive risk-direction and are inverted here.
// CrimeLevel, AirQuality and PoliticalRisk are already safety-direction and
// are used as-is, PoliticalRisk included despite its name.
func Calculate(in models.CompositeInput) models.ScoreBreakdown {
	disasterRisk := clampScore(in.DisasterRisk)
	crime := clampScore(in.CrimeLevel)
	air := clampScore(in.AirQuality)
	political := clampScore(in.PoliticalRisk)
	weatherRisk := clampScore(in.WeatherRisk)

	c := models.Contributions{
		Disaster:  float64(100-disasterRisk) * disasterWeight,
		Crime:     float64(crime) * crimeWeight,
		Air:       float64(air) * airWeight,
		Political: float64(political) * politicalWeight,
		Weather:   float64(100-weatherRisk) * weatherWeight,
	}
	total := c.Disaster + c.Crime + c.Air + c.Political + c.Weather

	overall := clampScore(int(math.Round(total)))
	capped := false
	if in.HasCriticalNews && overall > criticalNewsCap {
		overall = criticalNewsCap
		capped = true
	}

	return models.ScoreBreakdown{
		Overall:       overall,
		Disaster:      100 - disasterRisk,
		AirQuality:    air,
		Crime:         crime,
		Political:     political,
		Weather:       100 - weatherRisk,
		Capped:        capped,
		Contributions: c,
	}
}
