// Package safety assembles a SafetyScoreResult for a place: it resolves the
// country baseline, fetches live weather and news in parallel, degrades each
// signal to its fallback when a provider is absent or failing, and hands the
// normalized inputs to the scoring engine.
package safety

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/scoring"
	"github.com/mr1hm/safemap/internal/sources"
)

const (
	DefaultCountry = "us"
	DefaultCity    = "New York"

	scoreNewsQuery = "safety OR conflict"
	maxNewsAlerts  = 3
)

// Where each signal came from, reported in SafetyScoreResult.Sources.
const (
	SourceOpenWeather = "openweather"
	SourceUnavailable = "unavailable"
	SourceError       = "error"
)

type WeatherProvider interface {
	Weather(ctx context.Context, city, country string) (models.WeatherObservation, error)
}

type NewsProvider interface {
	News(ctx context.Context, country, q string) sources.NewsResult
}

type Request struct {
	Country string
	City    string
	Region  string // optional, used when the country has no curated profile
}

type Service struct {
	weather WeatherProvider
	news    NewsProvider
	timeout time.Duration
	now     func() time.Time
}

// NewService wires the providers. Either may be nil, in which case that
// signal is always reported as unavailable. timeout bounds each provider
// call separately.
func NewService(weather WeatherProvider, news NewsProvider, timeout time.Duration) *Service {
	return &Service{
		weather: weather,
		news:    news,
		timeout: timeout,
		now:     time.Now,
	}
}

// Score never fails: every missing signal is replaced by its fallback.
func (s *Service) Score(ctx context.Context, req Request) models.SafetyScoreResult {
	rawCountry := req.Country
	if strings.TrimSpace(rawCountry) == "" {
		rawCountry = DefaultCountry
	}
	// country is what the providers are queried with; the profile is
	// resolved from the caller's own code so that a miss falls back to the
	// region or the default baseline.
	country, ok := scoring.NormalizeCountryCode(rawCountry)
	profileCode := country
	if !ok {
		profileCode = strings.ToUpper(strings.TrimSpace(rawCountry))
		slog.Warn("unknown country code, fetching with fallback", "country", profileCode, "fallback", country)
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		city = DefaultCity
	}

	profile, profileSource := scoring.LookupProfile(profileCode, req.Region)

	var (
		report        models.WeatherReport
		weatherSource string
		news          sources.NewsResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, weatherSource = s.Weather(gctx, city, country)
		return nil // degraded, never fatal
	})
	g.Go(func() error {
		news = s.News(gctx, country, scoreNewsQuery)
		return nil
	})
	_ = g.Wait()

	// Placeholders are for display only.
	scored := news.Articles
	if news.Placeholder {
		scored = nil
	}
	sentiment := scoring.Sentiment(scored)

	breakdown := scoring.Calculate(models.CompositeInput{
		DisasterRisk:    profile.Disaster,
		CrimeLevel:      profile.Crime,
		AirQuality:      profile.Air,
		PoliticalRisk:   sentiment.Score,
		WeatherRisk:     report.WeatherRisk,
		HasCriticalNews: sentiment.HasCritical,
	})

	alerts := news.Articles
	if len(alerts) > maxNewsAlerts {
		alerts = alerts[:maxNewsAlerts]
	}

	result := models.SafetyScoreResult{
		Country:     profileCode,
		City:        city,
		Overall:     breakdown.Overall,
		Disaster:    breakdown.Disaster,
		AirQuality:  breakdown.AirQuality,
		Crime:       breakdown.Crime,
		Political:   breakdown.Political,
		Weather:     breakdown.Weather,
		NewsAlerts:  append([]models.NewsArticle(nil), alerts...),
		WeatherData: report,
		LastUpdated: s.now().UTC().Format(time.RFC3339),
		AIInsight:   scoring.Insight(sentiment.HasCritical, report.WeatherRisk, sentiment.Score),
		Sources: map[string]string{
			"profile": string(profileSource),
			"weather": weatherSource,
			"news":    news.Source,
		},
	}

	slog.Info("safety score computed",
		"country", profileCode,
		"city", city,
		"overall", result.Overall,
		"capped", breakdown.Capped,
		"weather_source", weatherSource,
		"news_source", news.Source,
	)

	return result
}

// Weather returns the weather report for a place and the name of the source
// that produced it.
func (s *Service) Weather(ctx context.Context, city, country string) (models.WeatherReport, string) {
	if s.weather == nil {
		return unavailableReport(), SourceUnavailable
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	obs, err := s.weather.Weather(ctx, city, country)
	switch {
	case err == nil:
		return models.WeatherReport{
			WeatherObservation: obs,
			WeatherRisk:        scoring.WeatherRisk(obs.Temperature, obs.WindSpeed, obs.Condition),
		}, SourceOpenWeather
	case errors.Is(err, sources.ErrNoAPIKey):
		return unavailableReport(), SourceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("weather provider timed out", "city", city, "country", country)
		return unavailableReport(), SourceUnavailable
	default:
		slog.Error("weather provider failed", "city", city, "country", country, "error", err)
		return models.WeatherReport{
			WeatherObservation: sources.ErrorWeather(),
			WeatherRisk:        sources.ErrorWeatherRisk,
			Degraded:           true,
		}, SourceError
	}
}

// News runs the provider chain under the per-provider timeout.
func (s *Service) News(ctx context.Context, country, q string) sources.NewsResult {
	if s.news == nil {
		return sources.NewsResult{
			Articles:    sources.PlaceholderArticles(),
			Source:      sources.PlaceholderSource,
			Placeholder: true,
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.news.News(ctx, country, q)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func unavailableReport() models.WeatherReport {
	obs := sources.UnavailableWeather()
	return models.WeatherReport{
		WeatherObservation: obs,
		WeatherRisk:        scoring.WeatherRisk(obs.Temperature, obs.WindSpeed, obs.Condition),
		Degraded:           true,
	}
}
