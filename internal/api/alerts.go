package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/repository"
	"github.com/mr1hm/safemap/internal/scoring"
	"github.com/mr1hm/safemap/internal/sources"
)

const (
	liveAlertsPageSize = 20
	streamHeartbeat    = 30 * time.Second
)

type alertsResponse struct {
	Alerts []models.Alert `json:"alerts"`
	Source string         `json:"source"` // store, live or placeholder
}

func (h *Handler) getAlerts(c *gin.Context) {
	filter := repository.Filter{
		Limit:    repository.DefaultLimit,
		Location: strings.TrimSpace(c.Query("country")),
	}

	if s := c.Query("severity"); s != "" {
		if sev, ok := parseSeverity(s); ok {
			filter.Severity = &sev
		}
	}
	if s := c.Query("min_severity"); s != "" {
		if sev, ok := parseSeverity(s); ok {
			filter.MinSeverity = &sev
		}
	}
	if t := c.Query("type"); t != "" {
		if at, ok := parseAlertType(t); ok {
			filter.Type = &at
		}
	}
	if s := c.Query("since"); s != "" {
		if t, ok := parseSince(s); ok {
			filter.Since = &t
		}
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= repository.MaxLimit {
			filter.Limit = lim
		}
	}

	alerts, err := h.repo.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		slog.Error("error listing alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch alerts",
		})
		return
	}
	if len(alerts) > 0 {
		c.JSON(http.StatusOK, alertsResponse{Alerts: alerts, Source: "store"})
		return
	}

	c.JSON(http.StatusOK, h.fallbackAlerts(c, filter))
}

// fallbackAlerts classifies a live search when the store has nothing to
// show, and falls back to the placeholder alerts after that.
func (h *Handler) fallbackAlerts(c *gin.Context, filter repository.Filter) alertsResponse {
	if h.search != nil && h.alertsQuery != "" {
		query := sources.ScopedQuery(h.alertsQuery, filter.Location)

		articles, err := h.search.Everything(c.Request.Context(), query, liveAlertsPageSize)
		if err != nil {
			slog.Warn("live alerts search failed", "error", err)
		}
		if len(articles) > 0 {
			alerts := make([]models.Alert, 0, len(articles))
			for _, a := range articles {
				alerts = append(alerts, scoring.BuildAlert(a, filter.Location))
			}
			return alertsResponse{Alerts: applyFilter(alerts, filter), Source: "live"}
		}
	}

	placeholders := sources.PlaceholderAlerts()
	alerts := make([]models.Alert, 0, len(placeholders))
	for _, a := range placeholders {
		alerts = append(alerts, *a)
	}
	return alertsResponse{Alerts: applyFilter(alerts, filter), Source: sources.PlaceholderSource}
}

// applyFilter is the in-memory counterpart of the repository filter for
// alerts that were never stored. Location and Since do not apply to them.
func applyFilter(alerts []models.Alert, f repository.Filter) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if f.Severity != nil && a.Severity != *f.Severity {
			continue
		}
		if f.MinSeverity != nil && a.Severity.Rank() < f.MinSeverity.Rank() {
			continue
		}
		if f.Type != nil && a.Type != *f.Type {
			continue
		}
		out = append(out, a)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func (h *Handler) streamAlerts(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert stream disabled"})
		return
	}

	var minSeverity models.AlertSeverity
	if s := c.Query("min_severity"); s != "" {
		sev, ok := parseSeverity(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_severity"})
			return
		}
		minSeverity = sev
	}

	sub := h.broadcaster.Subscribe(minSeverity)
	defer h.broadcaster.Unsubscribe(sub.ID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-sub.C:
			if !ok {
				return
			}
			c.SSEvent("alert", a)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}

func parseSeverity(s string) (models.AlertSeverity, bool) {
	sev := models.AlertSeverity(strings.ToUpper(strings.TrimSpace(s)))
	return sev, sev.Rank() > 0
}

func parseAlertType(s string) (models.AlertType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disaster":
		return models.AlertTypeDisaster, true
	case "weather":
		return models.AlertTypeWeather, true
	case "political":
		return models.AlertTypePolitical, true
	case "health":
		return models.AlertTypeHealth, true
	case "crime":
		return models.AlertTypeCrime, true
	default:
		return "", false
	}
}

// parseSince accepts RFC3339 timestamps and plain dates.
func parseSince(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
