package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cache.WeatherTTL != 30*time.Minute || cfg.Cache.NewsTTL != 5*time.Minute {
		t.Errorf("unexpected cache TTLs %v/%v", cfg.Cache.WeatherTTL, cfg.Cache.NewsTTL)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENWEATHER_KEY", "  abc  ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ALERTS_POLL_INTERVAL", "10m")
	t.Setenv("ALERTS_ENABLED", "false")
	t.Setenv("ALERTS_NEWS_COUNTRIES", "Japan, France")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Providers.OpenWeatherKey != "abc" {
		t.Errorf("expected trimmed key, got %q", cfg.Providers.OpenWeatherKey)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Alerts.PollInterval != 10*time.Minute || cfg.Alerts.Enabled {
		t.Errorf("unexpected alerts config %+v", cfg.Alerts)
	}
	if len(cfg.Alerts.NewsCountries) != 2 || cfg.Alerts.NewsCountries[1] != "France" {
		t.Errorf("unexpected news countries %v", cfg.Alerts.NewsCountries)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"SERVER_PORT":          "70000",
		"LOG_LEVEL":            "verbose",
		"LOG_FORMAT":           "xml",
		"ALERTS_POLL_INTERVAL": "10s",
		"PROVIDER_RETRIES":     "0",
		"WORKER_COUNT":         "0",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", key, val)
			}
		})
	}
}
