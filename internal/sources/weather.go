package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mr1hm/safemap/internal/models"
)

type owmResponse struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// UnavailableWeather is reported when no weather provider is configured.
// Its risk is computed normally.
func UnavailableWeather() models.WeatherObservation {
	return models.WeatherObservation{
		Temperature: 25,
		WindSpeed:   0,
		Humidity:    60,
		Condition:   "Clear",
		Description: "clear sky",
	}
}

// ErrorWeather is reported when the provider failed. Its risk is pinned to
// ErrorWeatherRisk instead of being computed.
func ErrorWeather() models.WeatherObservation {
	return models.WeatherObservation{
		Temperature: 22,
		WindSpeed:   5,
		Humidity:    50,
		Condition:   "Unknown",
		Description: "weather data unavailable",
	}
}

const ErrorWeatherRisk = 50

// Weather returns the current observation for city in the given alpha-2
// country. It returns ErrNoAPIKey when OpenWeather is not configured.
func (c *Client) Weather(ctx context.Context, city, country string) (models.WeatherObservation, error) {
	if c.cfg.OpenWeatherKey == "" {
		return models.WeatherObservation{}, ErrNoAPIKey
	}

	key := "weather:" + strings.ToLower(city) + ":" + strings.ToLower(country)
	return cached(ctx, c, key, c.weatherTTL, func() (models.WeatherObservation, error) {
		return c.fetchWeather(ctx, city, country)
	})
}

func (c *Client) fetchWeather(ctx context.Context, city, country string) (models.WeatherObservation, error) {
	q := url.Values{}
	q.Set("q", city+","+country)
	q.Set("appid", c.cfg.OpenWeatherKey)
	q.Set("units", "metric")

	var data owmResponse
	if err := c.GetJSON(ctx, "openweather", c.cfg.OpenWeatherURL+"?"+q.Encode(), &data); err != nil {
		return models.WeatherObservation{}, fmt.Errorf("fetch weather for %s,%s: %w", city, country, err)
	}

	return normalizeWeather(data), nil
}

// normalizeWeather fills every missing field with its own default.
func normalizeWeather(data owmResponse) models.WeatherObservation {
	obs := models.WeatherObservation{
		Temperature: 25,
		Humidity:    50,
		WindSpeed:   0,
		Condition:   "Clear",
		Description: "clear sky",
	}

	if data.Main != nil {
		if data.Main.Temp != nil {
			obs.Temperature = *data.Main.Temp
		}
		if data.Main.Humidity != nil {
			obs.Humidity = *data.Main.Humidity
		}
	}
	if data.Wind != nil && data.Wind.Speed != nil {
		obs.WindSpeed = *data.Wind.Speed
	}
	if len(data.Weather) > 0 {
		if data.Weather[0].Main != "" {
			obs.Condition = data.Weather[0].Main
		}
		if data.Weather[0].Description != "" {
			obs.Description = data.Weather[0].Description
		}
	}

	return obs
}
