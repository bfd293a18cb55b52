package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of the date column in raw daily records
const DateLayout = "2006-01-02"

// RawDailyRecord represents a single row delivered by a record source.
// All fields are kept as text; conversion happens in ToObservation.
type RawDailyRecord struct {
	Date           string `json:"date" db:"date"`
	MaxTemperature string `json:"max_temperature" db:"max_temperature"`
	MinTemperature string `json:"min_temperature" db:"min_temperature"`
}

// DailyObservation is one typed day of temperature extremes in °C
type DailyObservation struct {
	Date    time.Time `json:"date"`
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	MaxTemp float64   `json:"max_temperature"`
	MinTemp float64   `json:"min_temperature"`
}

// ToObservation converts a RawDailyRecord into a DailyObservation.
// Unparseable dates and non-numeric or non-finite temperatures fail with a
// *ParseError; nothing is defaulted.
func (r *RawDailyRecord) ToObservation() (DailyObservation, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return DailyObservation{}, &ParseError{
			Field:   "date",
			Value:   r.Date,
			Message: "invalid date format, expected YYYY-MM-DD",
		}
	}

	maxTemp, err := parseTemperature("max_temperature", r.MaxTemperature)
	if err != nil {
		return DailyObservation{}, err
	}

	minTemp, err := parseTemperature("min_temperature", r.MinTemperature)
	if err != nil {
		return DailyObservation{}, err
	}

	return DailyObservation{
		Date:    date,
		Year:    date.Year(),
		Month:   int(date.Month()),
		MaxTemp: maxTemp,
		MinTemp: minTemp,
	}, nil
}

func parseTemperature(field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseError{
			Field:   field,
			Value:   raw,
			Message: "temperature is not numeric",
		}
	}
	// ParseFloat accepts "NaN" and "Inf"; neither may reach the scales.
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ParseError{
			Field:   field,
			Value:   raw,
			Message: "temperature is not a finite number",
		}
	}
	return value, nil
}
