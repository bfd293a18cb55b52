package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"temperature-matrix/internal/models"
	"temperature-matrix/pkg/logging"
)

// CSV header columns, matched case-insensitively
const (
	ColumnDate           = "date"
	ColumnMaxTemperature = "max_temperature"
	ColumnMinTemperature = "min_temperature"
)

// CSVSource reads daily records from a headed CSV file such as
// temperature_daily.csv. Extra columns are ignored.
type CSVSource struct {
	path   string
	logger *logging.StructuredLogger
}

// NewCSVSource creates a source reading path
func NewCSVSource(path string, logger *logging.StructuredLogger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger,
	}
}

// Name returns the file path
func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

// Records reads every data row of the file
func (s *CSVSource) Records(ctx context.Context) ([]models.RawDailyRecord, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Reason: "open failed", Err: err}
	}
	defer file.Close()

	records, err := ReadCSV(ctx, file)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Reason: "read failed", Err: err}
	}

	s.logger.Debug(ctx, "[CSV_READ] CSV file read", logging.Fields{
		"path":    s.path,
		"records": len(records),
	})

	return records, nil
}

// ReadCSV parses a headed CSV stream into raw records
func ReadCSV(ctx context.Context, r io.Reader) ([]models.RawDailyRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	records := make([]models.RawDailyRecord, 0, 4096)
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		records = append(records, models.RawDailyRecord{
			Date:           field(row, cols[ColumnDate]),
			MaxTemperature: field(row, cols[ColumnMaxTemperature]),
			MinTemperature: field(row, cols[ColumnMinTemperature]),
		})
	}

	return records, nil
}

func columnIndexes(header []string) (map[string]int, error) {
	cols := make(map[string]int, 3)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	var missing []string
	for _, want := range []string{ColumnDate, ColumnMaxTemperature, ColumnMinTemperature} {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// field returns the cell at i, or "" for short rows so the normalizer
// reports the value as missing.
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
