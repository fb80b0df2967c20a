package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/handlers"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/config"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/database"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/metrics"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/realtime"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/repositories/postgres"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/services"
)

const defaultEnv = "dev"

func main() {
	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	log.Printf("Connected to database: %s@%s:%d/%s",
		cfg.Database.User,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database)

	// Initialize repositories
	itemRepo := postgres.NewPostgresItemRepository(pg.DB)
	grantRepo := postgres.NewPostgresGrantRepository(pg.DB)
	profileRepo := postgres.NewPostgresProfileRepository(pg.DB)

	// Initialize services
	identity := services.NewProfileIdentityResolver(profileRepo)
	accessService := services.NewAccessService(itemRepo, grantRepo)
	itemService := services.NewItemService(itemRepo, grantRepo)
	shareService := services.NewShareService(identity, itemRepo, grantRepo)

	// Initialize metrics
	collector := metrics.NewCollector()
	exporter := metrics.NewPrometheusExporter(collector)

	// Initialize the change feed and websocket hub
	feed, err := realtime.NewPostgresFeed(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to start change feed: %v", err)
	}
	defer feed.Close()

	hub := realtime.NewHub(accessService, feed, collector, exporter)
	defer hub.Close()

	// Initialize HTTP handlers
	router := handlers.NewRouter(
		&cfg.CORS,
		collector,
		exporter,
		handlers.NewItemHandler(itemService, accessService),
		handlers.NewShareHandler(shareService, exporter),
		handlers.NewWSHandler(hub),
	)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Serve Prometheus metrics on a separate port
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	serverErrors := make(chan error, 2)
	go func() {
		log.Printf("API server listening on :%d", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("API server error: %w", err)
		}
	}()
	go func() {
		log.Printf("Metrics server listening on :%d", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}

		// Stop reconcilers and the change feed before dropping the
		// database connection they publish through.
		hub.Close()
		if err := feed.Close(); err != nil {
			log.Printf("Error closing change feed: %v", err)
		}

		if err := pg.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}

		log.Println("Shutdown complete")
	}
}
