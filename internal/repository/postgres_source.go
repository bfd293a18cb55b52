package repository

import (
	"context"

	"temperature-matrix/internal/models"
	"temperature-matrix/pkg/logging"
)

// Selector runs a query and scans every row into dest.
// *database.PostgresDB satisfies it.
type Selector interface {
	SelectContext(ctx context.Context, queryType string, dest interface{}, query string, args ...interface{}) error
}

// PostgresSource reads the daily observations of one station from the
// weather_observations table. Missing temperatures come back as empty
// text so normalization rejects them.
type PostgresSource struct {
	db        Selector
	stationID string
	logger    *logging.StructuredLogger
}

const selectDailyRecords = `
	SELECT to_char(observation_date, 'YYYY-MM-DD')        AS date,
	       COALESCE(max_temperature_celsius::text, '') AS max_temperature,
	       COALESCE(min_temperature_celsius::text, '') AS min_temperature
	FROM weather_observations
	WHERE station_id = $1
	ORDER BY observation_date, id
`

// NewPostgresSource creates a source for stationID
func NewPostgresSource(db Selector, stationID string, logger *logging.StructuredLogger) *PostgresSource {
	return &PostgresSource{
		db:        db,
		stationID: stationID,
		logger:    logger,
	}
}

// Name returns the station the source reads
func (s *PostgresSource) Name() string {
	return "postgres:" + s.stationID
}

// Records returns every observation of the station ordered by date
func (s *PostgresSource) Records(ctx context.Context) ([]models.RawDailyRecord, error) {
	var records []models.RawDailyRecord
	if err := s.db.SelectContext(ctx, "select_daily_records", &records, selectDailyRecords, s.stationID); err != nil {
		return nil, &SourceError{Source: s.Name(), Reason: "query failed", Err: err}
	}

	if len(records) == 0 {
		s.logger.Warn(ctx, "[PG_SOURCE_EMPTY] Station has no observations", logging.Fields{
			"station_id": s.stationID,
		})
	}

	return records, nil
}
