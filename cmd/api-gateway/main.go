package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/publisher"
	"github.com/fjod/go_storefront/pkg/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var upstream catalog.Upstream = catalog.NewHTTPUpstream(cfg.CatalogURL, cfg.UpstreamTimeout)
	upstream = catalog.NewBreakerUpstream(upstream, circuitbreaker.Config{
		Name:             "catalog-upstream",
		MaxFailures:      cfg.BreakerMaxFailures,
		OpenTimeout:      cfg.BreakerOpenTimeout,
		HalfOpenRequests: 1,
	})
	log.Printf("Relaying catalog requests to %s", cfg.CatalogURL)

	if cfg.cacheEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		upstream = catalog.NewCachedUpstream(upstream, redisClient, cfg.CatalogCacheTTL)
		log.Printf("Catalog listing cache enabled at %s (ttl %s)", cfg.RedisAddr, cfg.CatalogCacheTTL)
	}

	var stockPublisher catalog.StockPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := publisher.NewStockPublisher(cfg.KafkaStockTopic, cfg.KafkaBrokers...)
		defer func() {
			if err := p.Close(); err != nil {
				log.Printf("failed to close stock publisher: %v", err)
			}
		}()
		stockPublisher = p
		log.Printf("Publishing stock changes to %s on %v", cfg.KafkaStockTopic, cfg.KafkaBrokers)
	}

	service := catalog.NewService(upstream, stockPublisher, catalog.WithFetchTimeout(cfg.UpstreamTimeout))
	router := h.NewRouter(
		h.NewProductHandler(service, cfg.RequestTimeout),
		h.NewCartHandler(),
		h.RouterConfig{
			RequestTimeout: cfg.RequestTimeout,
			AllowedOrigins: cfg.AllowedOrigins,
		},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "api-gateway"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server is running on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
		return
	}

	log.Println("server exited")
}
