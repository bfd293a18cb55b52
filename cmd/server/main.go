package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"temperature-matrix/internal/config"
	"temperature-matrix/internal/handlers"
	"temperature-matrix/internal/repository"
	"temperature-matrix/internal/services"
	"temperature-matrix/pkg/database"
	"temperature-matrix/pkg/logging"
	"temperature-matrix/pkg/metrics"
)

const version = "1.0.0"

func main() {
	configFile := flag.String("config", "", "Path to a tempmatrix.yaml configuration file")
	flag.Parse()

	// Load configuration
	loader := config.NewLoader()
	if *configFile != "" {
		loader.SetConfigFile(*configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("tempmatrix-server", version, logging.ParseLevel(strings.ToLower(cfg.Logging.Level)))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting temperature matrix server", logging.Fields{
		"version":     version,
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"source_kind": cfg.Source.Kind,
		"config_file": loader.ConfigFileUsed(),
	})

	metricsCollector := metrics.NewCollector("tempmatrix", prometheus.DefaultRegisterer)

	// Only the postgres source needs a database
	var (
		selector repository.Selector
		checker  handlers.HealthChecker
	)
	if cfg.Source.Kind == config.SourcePostgres {
		db, err := database.NewPostgresDB(cfg.Database.PostgresConfig(), logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{
				"db_host": cfg.Database.Host,
				"db_name": cfg.Database.Database,
			}, err)
		}
		defer db.Close()
		selector = db
		checker = db
	}

	source, err := repository.NewSource(cfg.Source, selector, logger)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to create record source", logging.Fields{}, err)
	}

	// Aggregate once, before anything is drawn
	aggregator := services.NewAggregationService(logger, metricsCollector)
	result, err := services.NewLoadService(source, aggregator, logger, metricsCollector).Load(ctx)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to load dataset", logging.Fields{
			"source": source.Name(),
		}, err)
	}

	viz := services.NewVisualizationService(result.Matrix, logger, metricsCollector)
	heatmapHandler := handlers.NewHeatmapHandler(viz, checker, logger, metricsCollector)

	router := mux.NewRouter()
	heatmapHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
			"cells":   result.Matrix.Len(),
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
