package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mr1hm/safemap/internal/config"
	"github.com/mr1hm/safemap/internal/logging"
	"github.com/mr1hm/safemap/internal/safety"
	"github.com/mr1hm/safemap/internal/sources"
)

func main() {
	country := flag.String("country", safety.DefaultCountry, "ISO alpha-2 or alpha-3 country code")
	city := flag.String("city", safety.DefaultCity, "city used for the weather lookup")
	region := flag.String("region", "", "region fallback when the country has no profile")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	// keep stdout for the result
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, "text"))

	client := sources.NewClient(cfg.Providers)
	svc := safety.NewService(client, client, cfg.Providers.Timeout)

	result := svc.Score(context.Background(), safety.Request{
		Country: *country,
		City:    *city,
		Region:  *region,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logging.Fatalf("Failed to write result: %v", err)
	}
}
