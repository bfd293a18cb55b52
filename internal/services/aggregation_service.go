package services

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"temperature-matrix/internal/models"
	"temperature-matrix/pkg/logging"
	"temperature-matrix/pkg/metrics"
)

// TrailingYears is the number of most recent calendar years kept in the matrix
const TrailingYears = 10

// AggregationService groups daily observations into the year x month matrix
type AggregationService struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AggregationService {
	return &AggregationService{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Aggregate keeps the observations of the TrailingYears most recent years
// present in the input and reduces each (year, month) group to its highest
// daily maximum and lowest daily minimum. Daily observations inside a
// cell are ordered by date; equal dates keep their input order.
func (s *AggregationService) Aggregate(ctx context.Context, observations []models.DailyObservation) (*models.Matrix, error) {
	if len(observations) == 0 {
		return nil, &models.EmptyDatasetError{Reason: "no observations"}
	}

	timer := s.metrics.NewTimer(s.metrics.AggregationDuration)

	maxYear := lo.MaxBy(observations, func(a, b models.DailyObservation) bool {
		return a.Year > b.Year
	}).Year
	minYear := maxYear - TrailingYears + 1

	window := lo.Filter(observations, func(o models.DailyObservation, _ int) bool {
		return o.Year >= minYear
	})
	dropped := len(observations) - len(window)
	if dropped > 0 {
		s.metrics.ObservationsOutsideRange.Add(float64(dropped))
	}
	if len(window) == 0 {
		timer.ObserveDuration()
		return nil, &models.EmptyDatasetError{Reason: "no observations in trailing window"}
	}

	groups := lo.GroupBy(window, func(o models.DailyObservation) models.CellKey {
		return models.CellKey{Year: o.Year, Month: o.Month}
	})

	entries := make([]*models.MatrixEntry, 0, len(groups))
	for key, days := range groups {
		entries = append(entries, newEntry(key, days))
	}

	matrix, err := models.NewMatrix(entries)
	if err != nil {
		timer.ObserveDuration()
		return nil, err
	}

	duration := timer.ObserveDuration()
	s.metrics.UpdateMatrixSize(matrix.Len(), len(matrix.Years()))

	s.logger.Info(ctx, "[AGGREGATE_COMPLETE] Matrix aggregated", logging.Fields{
		"observations":     len(observations),
		"dropped":          dropped,
		"first_year":       minYear,
		"last_year":        maxYear,
		"cells":            matrix.Len(),
		"years":            len(matrix.Years()),
		"duration_seconds": duration.Seconds(),
		"stage":            "AGGREGATION",
	})

	return matrix, nil
}

func newEntry(key models.CellKey, days []models.DailyObservation) *models.MatrixEntry {
	daily := slices.Clone(days)
	slices.SortStableFunc(daily, func(a, b models.DailyObservation) int {
		return a.Date.Compare(b.Date)
	})

	return &models.MatrixEntry{
		Year:       key.Year,
		Month:      key.Month,
		MaxOfMonth: lo.MaxBy(daily, func(a, b models.DailyObservation) bool { return a.MaxTemp > b.MaxTemp }).MaxTemp,
		MinOfMonth: lo.MinBy(daily, func(a, b models.DailyObservation) bool { return a.MinTemp < b.MinTemp }).MinTemp,
		Daily:      daily,
	}
}
