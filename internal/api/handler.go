package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/safemap/internal/broadcast"
	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/repository"
	"github.com/mr1hm/safemap/internal/safety"
	"github.com/mr1hm/safemap/internal/scoring"
	"github.com/mr1hm/safemap/internal/sources"
	"github.com/mr1hm/safemap/internal/worker"
)

type Scorer interface {
	Score(ctx context.Context, req safety.Request) models.SafetyScoreResult
	Weather(ctx context.Context, city, country string) (models.WeatherReport, string)
	News(ctx context.Context, country, q string) sources.NewsResult
}

// AlertSearcher finds recent articles for the live alerts fallback.
type AlertSearcher interface {
	Everything(ctx context.Context, query string, pageSize int) ([]models.NewsArticle, error)
}

type Deps struct {
	Safety      Scorer
	Alerts      repository.AlertRepository
	Broadcaster *broadcast.Broadcaster
	Search      AlertSearcher // optional
	AlertsQuery string
	Stats       func() worker.Stats // optional
}

type Handler struct {
	safety      Scorer
	repo        repository.AlertRepository
	broadcaster *broadcast.Broadcaster
	search      AlertSearcher
	alertsQuery string
	stats       func() worker.Stats
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		safety:      d.Safety,
		repo:        d.Alerts,
		broadcaster: d.Broadcaster,
		search:      d.Search,
		alertsQuery: d.AlertsQuery,
		stats:       d.Stats,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/safety-score", h.getSafetyScore)
	api.GET("/weather", h.getWeather)
	api.GET("/news", h.getNews)
	api.GET("/countries", h.listCountries)
	api.GET("/countries/:code", h.getCountry)
	api.GET("/alerts", h.getAlerts)
	api.GET("/alerts/stream", h.streamAlerts)
	api.POST("/classify", h.classify)
	api.POST("/score", h.score)
}

func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if h.stats != nil {
		resp["ingestion"] = h.stats()
	}
	if h.broadcaster != nil {
		resp["subscribers"] = h.broadcaster.SubscriberCount()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"countries": scoring.Profiles(),
		"regions":   scoring.Regions(),
	})
}

type countryResponse struct {
	Code string `json:"code"`
	models.BaseScore
	Source scoring.ProfileSource `json:"source"`
}

func (h *Handler) getCountry(c *gin.Context) {
	raw := c.Param("code")
	code, ok := scoring.NormalizeCountryCode(raw)
	if !ok {
		// keep the caller's code so an unknown country resolves to the
		// region or default profile instead of the fallback country
		code = strings.ToUpper(strings.TrimSpace(raw))
	}

	profile, source := scoring.LookupProfile(code, c.Query("region"))
	c.JSON(http.StatusOK, countryResponse{Code: code, BaseScore: profile, Source: source})
}
