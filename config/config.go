package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDatabase string

	ThawaniAPIKey      string
	ThawaniAPIURL      string
	ThawaniPublishKey  string
	ThawaniCheckoutURL string

	FrontendURL string

	// RedisURL is optional; when empty the pending-order store falls back to
	// the in-memory implementation.
	RedisURL        string
	PendingOrderTTL time.Duration

	// OrderEventsTopicARN is optional; when empty no order events are published.
	OrderEventsTopicARN string

	// PairDiscountCategories are the product categories eligible for the
	// per-pair discount.
	PairDiscountCategories []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "5009"),
		Env:                    getEnv("APP_ENV", "development"),
		MongoURI:               os.Getenv("MONGO_URI"),
		MongoDatabase:          getEnv("MONGO_DB", "arkan"),
		ThawaniAPIKey:          os.Getenv("THAWANI_API_KEY"),
		ThawaniAPIURL:          os.Getenv("THAWANI_API_URL"),
		ThawaniPublishKey:      os.Getenv("THAWANI_PUBLISH_KEY"),
		ThawaniCheckoutURL:     getEnv("THAWANI_CHECKOUT_URL", "https://checkout.thawani.om"),
		FrontendURL:            getEnv("FRONTEND_URL", "http://localhost:5173"),
		RedisURL:               os.Getenv("REDIS_URL"),
		PendingOrderTTL:        getDurationEnv("PENDING_ORDER_TTL", 24*time.Hour),
		OrderEventsTopicARN:    os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		PairDiscountCategories: getListEnv("PAIR_DISCOUNT_CATEGORIES", []string{"shayla-french", "shayla-plain"}),
	}

	if cfg.MongoURI == "" || cfg.ThawaniAPIKey == "" || cfg.ThawaniAPIURL == "" || cfg.ThawaniPublishKey == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getListEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
