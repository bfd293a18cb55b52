package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"temperature-matrix/internal/config"
	"temperature-matrix/internal/repository"
	"temperature-matrix/internal/services"
	"temperature-matrix/pkg/database"
	"temperature-matrix/pkg/logging"
	"temperature-matrix/pkg/metrics"
)

const version = "1.0.0"

func main() {
	configFile := flag.String("config", "", "Path to a tempmatrix.yaml configuration file")
	input := flag.String("input", "", "CSV file to read instead of the configured source")
	output := flag.String("output", "heatmap.svg", "Where to write the SVG, - for stdout")
	toggles := flag.Int("toggles", 0, "Number of max/min toggles to apply before writing")
	summary := flag.Bool("summary", true, "Print a summary of the aggregated matrix")
	flag.Parse()

	loader := config.NewLoader()
	if *configFile != "" {
		loader.SetConfigFile(*configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Source = config.SourceConfig{Kind: config.SourceCSV, CSVPath: *input}
	}
	if *toggles < 0 {
		fmt.Fprintln(os.Stderr, "-toggles must not be negative")
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger("tempmatrix-render", version, logging.ParseLevel(strings.ToLower(cfg.Logging.Level)))
	logger.SetOutput(os.Stderr)

	ctx := context.Background()
	logger.Info(ctx, "[RENDER_START] Rendering temperature matrix", logging.Fields{
		"version":     version,
		"source_kind": cfg.Source.Kind,
		"output":      *output,
		"toggles":     *toggles,
	})

	// The tool runs once, so metrics stay in a private registry
	metricsCollector := metrics.NewCollector("tempmatrix_render", prometheus.NewRegistry())

	var selector repository.Selector
	if cfg.Source.Kind == config.SourcePostgres {
		db, err := database.NewPostgresDB(cfg.Database.PostgresConfig(), logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[RENDER_ERROR] Failed to connect to database", logging.Fields{}, err)
		}
		defer db.Close()
		selector = db
	}

	source, err := repository.NewSource(cfg.Source, selector, logger)
	if err != nil {
		logger.Fatal(ctx, "[RENDER_ERROR] Failed to create record source", logging.Fields{}, err)
	}

	aggregator := services.NewAggregationService(logger, metricsCollector)
	result, err := services.NewLoadService(source, aggregator, logger, metricsCollector).Load(ctx)
	if err != nil {
		logger.Fatal(ctx, "[RENDER_ERROR] Failed to load dataset", logging.Fields{
			"source": source.Name(),
		}, err)
	}

	viz := services.NewVisualizationService(result.Matrix, logger, metricsCollector)
	for i := 0; i < *toggles; i++ {
		viz.Toggle(ctx)
	}

	if err := writeSVG(ctx, viz, *output); err != nil {
		logger.Fatal(ctx, "[RENDER_ERROR] Failed to write SVG", logging.Fields{
			"output": *output,
		}, err)
	}

	if *summary {
		metric, _ := viz.State()
		printSummary(os.Stdout, result, metric)
	}

	logger.Info(ctx, "[RENDER_COMPLETE] Matrix rendered", logging.Fields{
		"output":           *output,
		"cells":            result.Matrix.Len(),
		"duration_seconds": result.Duration.Seconds(),
	})
}

func writeSVG(ctx context.Context, viz *services.VisualizationService, path string) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return viz.WriteSVG(ctx, w)
}
