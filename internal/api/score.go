package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/safety"
	"github.com/mr1hm/safemap/internal/scoring"
)

const defaultNewsQuery = "safety"

func (h *Handler) getSafetyScore(c *gin.Context) {
	result := h.safety.Score(c.Request.Context(), safety.Request{
		Country: c.Query("country"),
		City:    c.Query("city"),
		Region:  c.Query("region"),
	})
	c.JSON(http.StatusOK, result)
}

type weatherResponse struct {
	models.WeatherReport
	City    string `json:"city"`
	Country string `json:"country"`
	Source  string `json:"source"`
}

func (h *Handler) getWeather(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	rawCountry := strings.TrimSpace(c.Query("country"))
	if city == "" || rawCountry == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city and country are required"})
		return
	}

	country, _ := scoring.NormalizeCountryCode(rawCountry)
	report, source := h.safety.Weather(c.Request.Context(), city, country)
	c.JSON(http.StatusOK, weatherResponse{
		WeatherReport: report,
		City:          city,
		Country:       country,
		Source:        source,
	})
}

func (h *Handler) getNews(c *gin.Context) {
	country, _ := scoring.NormalizeCountryCode(c.DefaultQuery("country", safety.DefaultCountry))
	q := c.DefaultQuery("q", defaultNewsQuery)

	c.JSON(http.StatusOK, h.safety.News(c.Request.Context(), country, q))
}

type classifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title or description is required"})
		return
	}

	c.JSON(http.StatusOK, scoring.ClassifyAlert(models.NewsArticle{
		Title:       req.Title,
		Description: req.Description,
	}))
}

type scoreResponse struct {
	models.ScoreBreakdown
	AIInsight string `json:"aiInsight"`
}

func (h *Handler) score(c *gin.Context) {
	var in models.CompositeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b := scoring.Calculate(in)
	// derive the insight from the clamped inputs the breakdown used
	insight := scoring.Insight(in.HasCriticalNews, 100-b.Weather, b.Political)

	c.JSON(http.StatusOK, scoreResponse{ScoreBreakdown: b, AIInsight: insight})
}
