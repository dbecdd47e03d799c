package models

type WeatherObservation struct {
	Temperature float64 `json:"temperature"` // °C
	WindSpeed   float64 `json:"windSpeed"`   // m/s
	Humidity    int     `json:"humidity"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
}

// WeatherReport is an observation together with the risk derived from it.
type WeatherReport struct {
	WeatherObservation
	WeatherRisk int  `json:"weatherRisk"`
	Degraded    bool `json:"degraded,omitempty"`
}

type NewsArticle struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
	URLToImage  *string `json:"urlToImage"`
}
