package repository

import (
	"context"
	"fmt"

	"temperature-matrix/internal/config"
	"temperature-matrix/internal/models"
	"temperature-matrix/pkg/logging"
)

// RecordSource delivers the raw daily rows of one dataset, in input order
type RecordSource interface {
	Records(ctx context.Context) ([]models.RawDailyRecord, error)
	// Name identifies the source in logs
	Name() string
}

// SourceError reports a dataset that could not be read at all
type SourceError struct {
	Source string
	Reason string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Reason)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsTransient returns false; a failed read is reported, not retried
func (e *SourceError) IsTransient() bool {
	return false
}

// NewSource builds the source selected by cfg. db is only used, and only
// required, for the postgres kind.
func NewSource(cfg config.SourceConfig, db Selector, logger *logging.StructuredLogger) (RecordSource, error) {
	switch cfg.Kind {
	case config.SourceCSV:
		return NewCSVSource(cfg.CSVPath, logger), nil
	case config.SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres source for station %s needs a database connection", cfg.StationID)
		}
		return NewPostgresSource(db, cfg.StationID, logger), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
