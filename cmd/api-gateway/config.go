package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/publisher"
)

type Config struct {
	HTTPPort           string
	CatalogURL         string
	RequestTimeout     time.Duration
	UpstreamTimeout    time.Duration
	ShutdownTimeout    time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	RedisAddr          string
	RedisPassword      string
	CatalogCacheTTL    time.Duration
	KafkaBrokers       []string
	KafkaStockTopic    string
	AllowedOrigins     []string
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("PORT", "5000"),
		CatalogURL:      getEnv("CATALOG_API_URL", catalog.DefaultUpstreamURL),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaStockTopic: getEnv("KAFKA_STOCK_TOPIC", publisher.DefaultStockTopic),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"REQUEST_TIMEOUT", "30s", &cfg.RequestTimeout},
		{"UPSTREAM_TIMEOUT", "10s", &cfg.UpstreamTimeout},
		{"SHUTDOWN_TIMEOUT", "10s", &cfg.ShutdownTimeout},
		{"BREAKER_OPEN_TIMEOUT", "30s", &cfg.BreakerOpenTimeout},
		{"CATALOG_CACHE_TTL", "0s", &cfg.CatalogCacheTTL},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid %s: %q", d.key, getEnv(d.key, d.def))
		}
		*d.dest = v
	}

	maxFailures, err := strconv.ParseUint(getEnv("BREAKER_MAX_FAILURES", "5"), 10, 32)
	if err != nil || maxFailures == 0 {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %q", getEnv("BREAKER_MAX_FAILURES", "5"))
	}
	cfg.BreakerMaxFailures = uint32(maxFailures)

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.HTTPPort)
	}
	return cfg, nil
}

// cacheEnabled reports whether the Redis listing cache should be wired in.
func (c *Config) cacheEnabled() bool {
	return c.RedisAddr != "" && c.CatalogCacheTTL > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
