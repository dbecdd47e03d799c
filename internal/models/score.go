package models

// BaseScore is the static safety profile of a country or region.
// Overall, Air, Crime and Political are safety-direction (higher is safer).
// Disaster is risk-direction (higher is more dangerous).
type BaseScore struct {
	Overall   int `json:"overall"`
	Disaster  int `json:"disaster"`
	Air       int `json:"air"`
	Crime     int `json:"crime"`
	Political int `json:"political"`
}

type SentimentResult struct {
	Score       int  `json:"score"`
	HasCritical bool `json:"hasCritical"`
}

// CompositeInput holds the six signals combined into the overall score.
// DisasterRisk and WeatherRisk are risk-direction, the rest safety-direction.
type CompositeInput struct {
	DisasterRisk    int  `json:"disasterRisk"`
	CrimeLevel      int  `json:"crimeLevel"`
	AirQuality      int  `json:"airQuality"`
	PoliticalRisk   int  `json:"politicalRisk"`
	WeatherRisk     int  `json:"weatherRisk"`
	HasCriticalNews bool `json:"hasCriticalNews"`
}

// Contributions are the weighted, unrounded terms of the composite formula.
type Contributions struct {
	Disaster  float64 `json:"disaster"`
	Crime     float64 `json:"crime"`
	Air       float64 `json:"air"`
	Political float64 `json:"political"`
	Weather   float64 `json:"weather"`
}

// ScoreBreakdown is the composite result with every sub-score in
// safety-direction.
type ScoreBreakdown struct {
	Overall       int           `json:"overall"`
	Disaster      int           `json:"disaster"`
	AirQuality    int           `json:"airQuality"`
	Crime         int           `json:"crime"`
	Political     int           `json:"political"`
	Weather       int           `json:"weather"`
	Capped        bool          `json:"capped"`
	Contributions Contributions `json:"contributions"`
}

type SafetyScoreResult struct {
	Country     string            `json:"country"`
	City        string            `json:"city"`
	Overall     int               `json:"overall"`
	Disaster    int               `json:"disaster"`
	AirQuality  int               `json:"airQuality"`
	Crime       int               `json:"crime"`
	Political   int               `json:"political"`
	Weather     int               `json:"weather"`
	NewsAlerts  []NewsArticle     `json:"newsAlerts"`
	WeatherData WeatherReport     `json:"weatherData"`
	LastUpdated string            `json:"lastUpdated"`
	AIInsight   string            `json:"aiInsight"`
	Sources     map[string]string `json:"sources"`
}
