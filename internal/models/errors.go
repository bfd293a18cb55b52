package models

import "fmt"

// ParseError represents a raw record that could not be normalized.
// It is fatal to a load: no partial matrix is ever built.
type ParseError struct {
	Row     int // 1-based position in the source, 0 when unknown
	Field   string
	Value   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s %q: %s", e.Row, e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

// IsTransient returns false as parse errors are permanent
func (e *ParseError) IsTransient() bool {
	return false
}

// EmptyDatasetError is returned when there is nothing to draw: the source
// delivered no records or the trailing year window selected none.
type EmptyDatasetError struct {
	Reason string
}

func (e *EmptyDatasetError) Error() string {
	return "empty dataset: " + e.Reason
}

// IsTransient returns false as an empty dataset stays empty on retry
func (e *EmptyDatasetError) IsTransient() bool {
	return false
}
