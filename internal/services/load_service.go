package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"temperature-matrix/internal/models"
	"temperature-matrix/internal/repository"
	"temperature-matrix/pkg/logging"
	"temperature-matrix/pkg/metrics"
)

// LoadService reads a record source, normalizes every row and aggregates
// the result into a matrix
type LoadService struct {
	source     repository.RecordSource
	aggregator *AggregationService
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// LoadResult contains load statistics
type LoadResult struct {
	Source       string
	TotalRecords int
	Dropped      int
	Matrix       *models.Matrix
	Duration     time.Duration
}

// NewLoadService creates a new load service
func NewLoadService(source repository.RecordSource, aggregator *AggregationService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *LoadService {
	return &LoadService{
		source:     source,
		aggregator: aggregator,
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// Load reads and aggregates the dataset. The first malformed row aborts
// the load with a *models.ParseError carrying its 1-based row number.
func (s *LoadService) Load(ctx context.Context) (*LoadResult, error) {
	startTime := time.Now()
	log := s.logger.WithFields(logging.Fields{"source": s.source.Name()})

	log.Info(ctx, "[LOAD_START] Loading dataset", logging.Fields{
		"stage": "INITIALIZATION",
	})

	raw, err := s.source.Records(ctx)
	if err != nil {
		s.metrics.RecordLoadError("source_error")
		log.Error(ctx, "[LOAD_SOURCE_ERROR] Failed to read records", logging.Fields{
			"stage": "READ",
		}, err)
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	log.Debug(ctx, "[LOAD_READ] Records read", logging.Fields{
		"records": len(raw),
		"stage":   "READ",
	})

	observations, err := Normalize(raw)
	if err != nil {
		s.metrics.RecordLoadError("parse_error")
		log.Error(ctx, "[LOAD_PARSE_ERROR] Malformed record", logging.Fields{
			"stage": "NORMALIZATION",
		}, err)
		return nil, err
	}
	s.metrics.LoadRecordsTotal.Add(float64(len(observations)))

	matrix, err := s.aggregator.Aggregate(ctx, observations)
	if err != nil {
		var empty *models.EmptyDatasetError
		if errors.As(err, &empty) {
			s.metrics.RecordLoadError("empty_dataset")
		} else {
			s.metrics.RecordLoadError("aggregation_error")
		}
		log.Error(ctx, "[LOAD_AGGREGATE_ERROR] Aggregation failed", logging.Fields{
			"records": len(observations),
			"stage":   "AGGREGATION",
		}, err)
		return nil, err
	}

	kept := lo.SumBy(matrix.Entries(), func(e *models.MatrixEntry) int { return len(e.Daily) })
	dropped := len(observations) - kept
	if dropped > 0 {
		log.Warn(ctx, "[LOAD_WINDOW_TRIMMED] Observations before the trailing window were dropped", logging.Fields{
			"dropped":    dropped,
			"first_year": matrix.Years()[0],
			"stage":      "AGGREGATION",
		})
	}

	result := &LoadResult{
		Source:       s.source.Name(),
		TotalRecords: len(raw),
		Dropped:      dropped,
		Matrix:       matrix,
		Duration:     time.Since(startTime),
	}
	s.metrics.LoadDuration.Observe(result.Duration.Seconds())

	log.Info(ctx, "[LOAD_COMPLETE] Dataset loaded", logging.Fields{
		"total_records":    result.TotalRecords,
		"cells":            matrix.Len(),
		"years":            matrix.Years(),
		"duration_seconds": result.Duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return result, nil
}

// Normalize converts raw records to observations in input order
func Normalize(raw []models.RawDailyRecord) ([]models.DailyObservation, error) {
	observations := make([]models.DailyObservation, 0, len(raw))
	for i := range raw {
		obs, err := raw[i].ToObservation()
		if err != nil {
			var parseErr *models.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Row = i + 1
			}
			return nil, err
		}
		observations = append(observations, obs)
	}
	return observations, nil
}
