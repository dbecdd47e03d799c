package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Cache     CacheConfig
	Alerts    AlertsConfig
	Worker    WorkerConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	RateLimit      int // requests per second, per client IP
	AllowedOrigins []string
}

type ProvidersConfig struct {
	OpenWeatherKey string
	OpenWeatherURL string
	NewsDataKey    string
	NewsDataURL    string
	NewsAPIKey     string
	NewsAPIURL     string
	NewsRSSURL     string
	Timeout        time.Duration
	Retries        int
}

type CacheConfig struct {
	RedisURL   string // empty selects the in-memory cache
	WeatherTTL time.Duration
	NewsTTL    time.Duration
}

// AlertsConfig drives the alert pollers. Each entry of NewsCountries gets a
// NewsAPI poller scoped to that country, whose alerts are stored with it as
// the affected location.
type AlertsConfig struct {
	Enabled       bool
	PollInterval  time.Duration
	Query         string
	NewsCountries []string
	Retention     time.Duration
	GDACSEnabled  bool
	GDACSURL      string
	USGSEnabled   bool
	USGSURL       string
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "localhost"),
			Port:           getEnvInt("SERVER_PORT", 8080),
			RateLimit:      getEnvInt("SERVER_RATE_LIMIT", 5),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Providers: ProvidersConfig{
			OpenWeatherKey: getEnv("OPENWEATHER_KEY", ""),
			OpenWeatherURL: getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
			NewsDataKey:    getEnv("NEWS_DATA_KEY", ""),
			NewsDataURL:    getEnv("NEWS_DATA_URL", "https://newsdata.io/api/1/news"),
			NewsAPIKey:     getEnv("NEWS_API_KEY", ""),
			NewsAPIURL:     getEnv("NEWS_API_URL", "https://newsapi.org/v2"),
			NewsRSSURL:     getEnv("NEWS_RSS_URL", "https://feeds.bbci.co.uk/news/world/rss.xml"),
			Timeout:        getEnvDuration("PROVIDER_TIMEOUT", 8*time.Second),
			Retries:        getEnvInt("PROVIDER_RETRIES", 2),
		},
		Cache: CacheConfig{
			RedisURL:   getEnv("CACHE_REDIS_URL", ""),
			WeatherTTL: getEnvDuration("CACHE_WEATHER_TTL", 30*time.Minute),
			NewsTTL:    getEnvDuration("CACHE_NEWS_TTL", 5*time.Minute),
		},
		Alerts: AlertsConfig{
			Enabled:       getEnvBool("ALERTS_ENABLED", true),
			PollInterval:  getEnvDuration("ALERTS_POLL_INTERVAL", 5*time.Minute),
			Query:         getEnv("ALERTS_QUERY", "disaster OR flood OR earthquake OR hurricane OR conflict OR tsunami OR wildfire"),
			NewsCountries: getEnvList("ALERTS_NEWS_COUNTRIES", nil),
			Retention:     getEnvDuration("ALERTS_RETENTION", 72*time.Hour),
			GDACSEnabled:  getEnvBool("ALERTS_GDACS_ENABLED", true),
			GDACSURL:      getEnv("ALERTS_GDACS_URL", "https://www.gdacs.org/xml/rss.xml"),
			USGSEnabled:   getEnvBool("ALERTS_USGS_ENABLED", true),
			USGSURL:       getEnv("ALERTS_USGS_URL", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/4.5_day.geojson"),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 50),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/safemap.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("invalid rate limit: %d", c.Server.RateLimit)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}
	if c.Providers.Retries < 1 {
		return fmt.Errorf("provider retries must be at least 1")
	}

	if c.Alerts.PollInterval < time.Minute {
		return fmt.Errorf("alerts poll interval must be at least 1 minute")
	}
	if c.Alerts.Retention <= 0 {
		return fmt.Errorf("alerts retention must be positive")
	}
	if c.Worker.Count < 1 || c.Worker.BufferSize < 1 {
		return fmt.Errorf("worker count and buffer size must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
