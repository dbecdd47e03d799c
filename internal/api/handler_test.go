package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/safemap/internal/broadcast"
	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/repository"
	"github.com/mr1hm/safemap/internal/safety"
	"github.com/mr1hm/safemap/internal/scoring"
	"github.com/mr1hm/safemap/internal/sources"
	"github.com/mr1hm/safemap/internal/worker"
)

// mockRepo implements repository.AlertRepository for testing
type mockRepo struct {
	alerts  []models.Alert
	err     error
	lastOpt repository.Filter
}

func (m *mockRepo) Add(ctx context.Context, a *models.Alert) error {
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	for _, a := range m.alerts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := m.GetByID(ctx, id)
	return err == nil, nil
}

func (m *mockRepo) ListAlerts(ctx context.Context, opts repository.Filter) ([]models.Alert, error) {
	m.lastOpt = opts
	if m.err != nil {
		return nil, m.err
	}
	results := applyFilter(m.alerts, opts)
	if opts.Location != "" {
		var filtered []models.Alert
		for _, a := range results {
			if strings.EqualFold(a.AffectedLocation, opts.Location) {
				filtered = append(filtered, a)
			}
		}
		results = filtered
	}
	return results, nil
}

func (m *mockRepo) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	return 0, nil
}

type mockScorer struct {
	gotReq     safety.Request
	gotCity    string
	gotCountry string
	gotQ       string
}

func (m *mockScorer) Score(ctx context.Context, req safety.Request) models.SafetyScoreResult {
	m.gotReq = req
	return models.SafetyScoreResult{Country: "JP", City: "Tokyo", Overall: 73, AIInsight: scoring.InsightStable}
}

func (m *mockScorer) Weather(ctx context.Context, city, country string) (models.WeatherReport, string) {
	m.gotCity, m.gotCountry = city, country
	return models.WeatherReport{
		WeatherObservation: sources.UnavailableWeather(),
		WeatherRisk:        20,
	}, safety.SourceUnavailable
}

func (m *mockScorer) News(ctx context.Context, country, q string) sources.NewsResult {
	m.gotCountry, m.gotQ = country, q
	return sources.NewsResult{Articles: sources.PlaceholderArticles(), Source: sources.PlaceholderSource, Placeholder: true}
}

type mockSearch struct {
	articles []models.NewsArticle
	err      error
	gotQuery string
}

func (m *mockSearch) Everything(ctx context.Context, query string, pageSize int) ([]models.NewsArticle, error) {
	m.gotQuery = query
	return m.articles, m.err
}

func setupTestRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if d.Safety == nil {
		d.Safety = &mockScorer{}
	}
	if d.Alerts == nil {
		d.Alerts = &mockRepo{}
	}
	handler := NewHandler(d)
	handler.RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(Deps{
		Stats:       func() worker.Stats { return worker.Stats{Processed: 4, Failed: 1} },
		Broadcaster: broadcast.NewBroadcaster(),
	})

	w := doRequest(router, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Status    string       `json:"status"`
		Ingestion worker.Stats `json:"ingestion"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" || resp.Ingestion.Processed != 4 {
		t.Errorf("unexpected health body %s", w.Body.String())
	}
}

func TestGetSafetyScore(t *testing.T) {
	scorer := &mockScorer{}
	router := setupTestRouter(Deps{Safety: scorer})

	w := doRequest(router, "GET", "/api/safety-score?country=jpn&city=Tokyo&region=Asia", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if scorer.gotReq != (safety.Request{Country: "jpn", City: "Tokyo", Region: "Asia"}) {
		t.Errorf("unexpected request %+v", scorer.gotReq)
	}

	var result models.SafetyScoreResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Overall != 73 || result.AIInsight != scoring.InsightStable {
		t.Errorf("unexpected result %+v", result)
	}
	if !strings.Contains(w.Body.String(), `"aiInsight"`) || !strings.Contains(w.Body.String(), `"airQuality"`) {
		t.Errorf("expected camelCase keys, got %s", w.Body.String())
	}
}

func TestGetWeather_RequiresCityAndCountry(t *testing.T) {
	router := setupTestRouter(Deps{})

	for _, path := range []string{"/api/weather", "/api/weather?city=Paris", "/api/weather?country=fr"} {
		w := doRequest(router, "GET", path, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestGetWeather(t *testing.T) {
	scorer := &mockScorer{}
	router := setupTestRouter(Deps{Safety: scorer})

	w := doRequest(router, "GET", "/api/weather?city=Paris&country=fra", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if scorer.gotCity != "Paris" || scorer.gotCountry != "FR" {
		t.Errorf("expected Paris/FR, got %s/%s", scorer.gotCity, scorer.gotCountry)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["weatherRisk"] != float64(20) || resp["condition"] != "Clear" || resp["source"] != safety.SourceUnavailable {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestGetNews_Defaults(t *testing.T) {
	scorer := &mockScorer{}
	router := setupTestRouter(Deps{Safety: scorer})

	w := doRequest(router, "GET", "/api/news", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if scorer.gotCountry != "US" || scorer.gotQ != "safety" {
		t.Errorf("expected US/safety, got %s/%s", scorer.gotCountry, scorer.gotQ)
	}

	var resp sources.NewsResult
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(resp.Articles))
	}
}

func TestCountries(t *testing.T) {
	router := setupTestRouter(Deps{})

	w := doRequest(router, "GET", "/api/countries", "")
	var list struct {
		Countries []scoring.CountryProfile `json:"countries"`
		Regions   []string                 `json:"regions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(list.Countries) < 50 || len(list.Regions) != 5 {
		t.Errorf("expected full tables, got %d countries / %d regions", len(list.Countries), len(list.Regions))
	}

	tests := []struct {
		path   string
		code   string
		source string
	}{
		{"/api/countries/jp", "JP", "country"},
		{"/api/countries/JPN", "JP", "country"},
		{"/api/countries/xk?region=Europe", "XK", "region"},
		{"/api/countries/xk", "XK", "default"},
		{"/api/countries/zzz", "ZZZ", "default"},
	}
	for _, tt := range tests {
		w := doRequest(router, "GET", tt.path, "")
		var resp map[string]any
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["code"] != tt.code || resp["source"] != tt.source {
			t.Errorf("%s: got %s", tt.path, w.Body.String())
		}
	}
}

func TestGetAlerts_FromStore(t *testing.T) {
	repo := &mockRepo{alerts: []models.Alert{
		{ID: "a1", Title: "Flood", Severity: models.AlertSeverityHigh, Type: models.AlertTypeDisaster, AffectedLocation: "Japan"},
		{ID: "a2", Title: "Protest", Severity: models.AlertSeverityMedium, Type: models.AlertTypePolitical, AffectedLocation: "Global"},
		{ID: "a3", Title: "War", Severity: models.AlertSeverityCritical, Type: models.AlertTypePolitical, AffectedLocation: "Global"},
	}}
	router := setupTestRouter(Deps{Alerts: repo})

	w := doRequest(router, "GET", "/api/alerts?type=political&min_severity=high&limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp alertsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Source != "store" || len(resp.Alerts) != 1 || resp.Alerts[0].ID != "a3" {
		t.Errorf("unexpected response %s", w.Body.String())
	}
	if repo.lastOpt.Limit != 5 {
		t.Errorf("expected limit 5, got %d", repo.lastOpt.Limit)
	}
}

func TestGetAlerts_FilterParsing(t *testing.T) {
	repo := &mockRepo{}
	router := setupTestRouter(Deps{Alerts: repo})

	doRequest(router, "GET", "/api/alerts?severity=bogus&type=volcano&limit=9999&since=2024-05-01&country=Japan", "")

	f := repo.lastOpt
	if f.Severity != nil || f.Type != nil {
		t.Errorf("invalid filters should be ignored, got %+v", f)
	}
	if f.Limit != repository.DefaultLimit {
		t.Errorf("out of range limit should keep the default, got %d", f.Limit)
	}
	if f.Since == nil || !f.Since.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected since 2024-05-01, got %v", f.Since)
	}
	if f.Location != "Japan" {
		t.Errorf("expected location Japan, got %q", f.Location)
	}
}

func TestGetAlerts_RepoError(t *testing.T) {
	router := setupTestRouter(Deps{Alerts: &mockRepo{err: errors.New("disk full")}})

	w := doRequest(router, "GET", "/api/alerts", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestGetAlerts_LiveFallback(t *testing.T) {
	search := &mockSearch{articles: []models.NewsArticle{
		{Title: "Flood warning issued amid political protest", URL: "https://n.example/1", Source: "AP"},
		{Title: "Calm weekend ahead", URL: "https://n.example/2"},
	}}
	router := setupTestRouter(Deps{Search: search, AlertsQuery: "flood OR conflict"})

	w := doRequest(router, "GET", "/api/alerts?country=Japan", "")
	var resp alertsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Source != "live" || len(resp.Alerts) != 2 {
		t.Fatalf("expected 2 live alerts, got %s", w.Body.String())
	}
	if search.gotQuery != "(flood OR conflict) AND Japan" {
		t.Errorf("unexpected query %q", search.gotQuery)
	}
	first := resp.Alerts[0]
	if first.Severity != models.AlertSeverityHigh || first.Type != models.AlertTypePolitical || first.AffectedLocation != "Japan" {
		t.Errorf("unexpected alert %+v", first)
	}
	if resp.Alerts[1].Source != "Global News" {
		t.Errorf("expected default source, got %q", resp.Alerts[1].Source)
	}
}

func TestGetAlerts_PlaceholderFallback(t *testing.T) {
	router := setupTestRouter(Deps{Search: &mockSearch{err: sources.ErrNoAPIKey}, AlertsQuery: "flood"})

	w := doRequest(router, "GET", "/api/alerts", "")
	var resp alertsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Source != sources.PlaceholderSource || len(resp.Alerts) != 2 {
		t.Fatalf("expected placeholders, got %s", w.Body.String())
	}
	if resp.Alerts[0].Title != "Severe Storm Watch" || resp.Alerts[0].AffectedLocation != "Great Lakes" {
		t.Errorf("unexpected placeholder %+v", resp.Alerts[0])
	}

	w = doRequest(router, "GET", "/api/alerts?severity=low", "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Alerts) != 1 || resp.Alerts[0].ID != "alert-2" {
		t.Errorf("expected filtered placeholders, got %s", w.Body.String())
	}
}

func TestClassify(t *testing.T) {
	router := setupTestRouter(Deps{})

	w := doRequest(router, "POST", "/api/classify", `{"title":"Flood warning issued amid political protest"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var cls models.Classification
	json.Unmarshal(w.Body.Bytes(), &cls)
	if cls.Severity != models.AlertSeverityHigh || cls.Type != models.AlertTypePolitical {
		t.Errorf("expected HIGH/Political, got %+v", cls)
	}

	for _, body := range []string{`{}`, `not json`, `{"title":"  "}`} {
		if w := doRequest(router, "POST", "/api/classify", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestScore(t *testing.T) {
	router := setupTestRouter(Deps{})

	body := `{"disasterRisk":30,"crimeLevel":70,"airQuality":80,"politicalRisk":70,"weatherRisk":20,"hasCriticalNews":false}`
	w := doRequest(router, "POST", "/api/score", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp scoreResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Overall != 73 || resp.Disaster != 70 || resp.Weather != 80 {
		t.Errorf("unexpected breakdown %+v", resp.ScoreBreakdown)
	}
	if resp.AIInsight != scoring.InsightStable {
		t.Errorf("unexpected insight %q", resp.AIInsight)
	}

	body = `{"disasterRisk":30,"crimeLevel":70,"airQuality":80,"politicalRisk":70,"weatherRisk":20,"hasCriticalNews":true}`
	json.Unmarshal(doRequest(router, "POST", "/api/score", body).Body.Bytes(), &resp)
	if resp.Overall != 40 || !resp.Capped || resp.AIInsight != scoring.InsightCritical {
		t.Errorf("expected capped critical score, got %+v", resp)
	}

	body = `{"weatherRisk":250,"politicalRisk":90,"crimeLevel":90,"airQuality":90}`
	json.Unmarshal(doRequest(router, "POST", "/api/score", body).Body.Bytes(), &resp)
	if resp.Weather != 0 || resp.AIInsight != scoring.InsightWeather {
		t.Errorf("expected clamped weather risk, got %+v", resp)
	}

	if w := doRequest(router, "POST", "/api/score", `{"weatherRisk":"high"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestStreamAlerts(t *testing.T) {
	b := broadcast.NewBroadcaster()
	defer b.Close()
	router := setupTestRouter(Deps{Broadcaster: b})

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, "GET", "/api/alerts/stream?min_severity=high", nil)
	w := httptest.NewRecorder()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		router.ServeHTTP(w, req)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for b.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if b.SubscriberCount() != 1 {
		cancel()
		wg.Wait()
		t.Fatal("stream never subscribed")
	}

	b.Broadcast(&models.Alert{ID: "skip-me", Severity: models.AlertSeverityLow})
	b.Broadcast(&models.Alert{ID: "quake-1", Title: "Tsunami warning", Severity: models.AlertSeverityCritical})

	time.Sleep(50 * time.Millisecond)
	cancel()
	wg.Wait()

	body := w.Body.String()
	if !strings.Contains(body, "event:alert") || !strings.Contains(body, "quake-1") {
		t.Errorf("expected alert event, got %q", body)
	}
	if strings.Contains(body, "skip-me") {
		t.Errorf("low severity alert should be filtered, got %q", body)
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("expected unsubscribe on disconnect, got %d", b.SubscriberCount())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestStreamAlerts_BadSeverity(t *testing.T) {
	router := setupTestRouter(Deps{Broadcaster: broadcast.NewBroadcaster()})
	if w := doRequest(router, "GET", "/api/alerts/stream?min_severity=extreme", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	hit := func(ip string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	if hit("10.0.0.1") != 200 || hit("10.0.0.1") != 200 {
		t.Fatal("burst should be allowed")
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other clients keep their own budget, got %d", code)
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiterFor("a")
	rl.limiterFor("b")

	now = now.Add(limiterIdleTTL + time.Minute)
	rl.limiterFor("c")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.clients) != 1 {
		t.Errorf("expected idle clients evicted, got %d", len(rl.clients))
	}
}
