package models

import (
	"errors"
	"testing"
	"time"
)

// TestRawDailyRecord_ToObservation tests the normalization logic
func TestRawDailyRecord_ToObservation(t *testing.T) {
	tests := []struct {
		name        string
		record      RawDailyRecord
		wantErr     bool
		wantField   string
		checkValues func(*testing.T, DailyObservation)
	}{
		{
			name: "valid record",
			record: RawDailyRecord{
				Date:           "2020-02-15",
				MaxTemperature: "22.5",
				MinTemperature: "10.0",
			},
			checkValues: func(t *testing.T, obs DailyObservation) {
				expectedDate := time.Date(2020, 2, 15, 0, 0, 0, 0, time.UTC)
				if !obs.Date.Equal(expectedDate) {
					t.Errorf("Date = %v, want %v", obs.Date, expectedDate)
				}
				if obs.Year != 2020 {
					t.Errorf("Year = %v, want %v", obs.Year, 2020)
				}
				if obs.Month != 2 {
					t.Errorf("Month = %v, want %v", obs.Month, 2)
				}
				if obs.MaxTemp != 22.5 {
					t.Errorf("MaxTemp = %v, want %v", obs.MaxTemp, 22.5)
				}
				if obs.MinTemp != 10.0 {
					t.Errorf("MinTemp = %v, want %v", obs.MinTemp, 10.0)
				}
			},
		},
		{
			name: "months are numbered from one",
			record: RawDailyRecord{
				Date:           "2019-01-01",
				MaxTemperature: "5",
				MinTemperature: "-3",
			},
			checkValues: func(t *testing.T, obs DailyObservation) {
				if obs.Month != 1 {
					t.Errorf("Month = %v, want 1", obs.Month)
				}
			},
		},
		{
			name: "december",
			record: RawDailyRecord{
				Date:           "2019-12-31",
				MaxTemperature: "5",
				MinTemperature: "-3",
			},
			checkValues: func(t *testing.T, obs DailyObservation) {
				if obs.Month != 12 {
					t.Errorf("Month = %v, want 12", obs.Month)
				}
			},
		},
		{
			name: "negative temperatures and surrounding spaces",
			record: RawDailyRecord{
				Date:           " 2023-01-15 ",
				MaxTemperature: " -5 ",
				MinTemperature: "-10.25",
			},
			checkValues: func(t *testing.T, obs DailyObservation) {
				if obs.MaxTemp != -5.0 {
					t.Errorf("MaxTemp = %v, want %v", obs.MaxTemp, -5.0)
				}
				if obs.MinTemp != -10.25 {
					t.Errorf("MinTemp = %v, want %v", obs.MinTemp, -10.25)
				}
			},
		},
		{
			name: "unparseable date",
			record: RawDailyRecord{
				Date:           "not-a-date",
				MaxTemperature: "5",
				MinTemperature: "1",
			},
			wantErr:   true,
			wantField: "date",
		},
		{
			name: "compact date layout is rejected",
			record: RawDailyRecord{
				Date:           "20230115",
				MaxTemperature: "5",
				MinTemperature: "1",
			},
			wantErr:   true,
			wantField: "date",
		},
		{
			name: "impossible calendar date",
			record: RawDailyRecord{
				Date:           "2023-02-30",
				MaxTemperature: "5",
				MinTemperature: "1",
			},
			wantErr:   true,
			wantField: "date",
		},
		{
			name: "non-numeric max",
			record: RawDailyRecord{
				Date:           "2023-01-15",
				MaxTemperature: "warm",
				MinTemperature: "1",
			},
			wantErr:   true,
			wantField: "max_temperature",
		},
		{
			name: "empty min",
			record: RawDailyRecord{
				Date:           "2023-01-15",
				MaxTemperature: "5",
				MinTemperature: "",
			},
			wantErr:   true,
			wantField: "min_temperature",
		},
		{
			name: "NaN is rejected",
			record: RawDailyRecord{
				Date:           "2023-01-15",
				MaxTemperature: "NaN",
				MinTemperature: "1",
			},
			wantErr:   true,
			wantField: "max_temperature",
		},
		{
			name: "infinity is rejected",
			record: RawDailyRecord{
				Date:           "2023-01-15",
				MaxTemperature: "5",
				MinTemperature: "-Inf",
			},
			wantErr:   true,
			wantField: "min_temperature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := tt.record.ToObservation()

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ToObservation() expected error, got %+v", obs)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("error = %T, want *ParseError", err)
				}
				if parseErr.Field != tt.wantField {
					t.Errorf("Field = %v, want %v", parseErr.Field, tt.wantField)
				}
				if parseErr.IsTransient() {
					t.Error("ParseError should not be transient")
				}
				return
			}

			if err != nil {
				t.Fatalf("ToObservation() unexpected error: %v", err)
			}
			if tt.checkValues != nil {
				tt.checkValues(t, obs)
			}
		})
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{Row: 7, Field: "date", Value: "x", Message: "invalid"}
	if got, want := err.Error(), `row 7: date "x": invalid`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &ParseError{Field: "date", Value: "x", Message: "invalid"}
	if got, want := err.Error(), `date "x": invalid`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewMatrix(t *testing.T) {
	entries := []*MatrixEntry{
		{Year: 2021, Month: 3, MaxOfMonth: 1, MinOfMonth: 0, Daily: []DailyObservation{{}}},
		{Year: 2020, Month: 12, MaxOfMonth: 1, MinOfMonth: 0, Daily: []DailyObservation{{}}},
		{Year: 2020, Month: 1, MaxOfMonth: 1, MinOfMonth: 0, Daily: []DailyObservation{{}}},
	}

	m, err := NewMatrix(entries)
	if err != nil {
		t.Fatalf("NewMatrix() unexpected error: %v", err)
	}

	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}

	got := m.Entries()
	if got[0].Key() != (CellKey{2020, 1}) || got[1].Key() != (CellKey{2020, 12}) || got[2].Key() != (CellKey{2021, 3}) {
		t.Errorf("Entries() not ordered by (year, month): %v %v %v", got[0].Key(), got[1].Key(), got[2].Key())
	}

	years := m.Years()
	if len(years) != 2 || years[0] != 2020 || years[1] != 2021 {
		t.Errorf("Years() = %v, want [2020 2021]", years)
	}

	if _, ok := m.Entry(2020, 12); !ok {
		t.Error("Entry(2020, 12) not found")
	}
	if _, ok := m.Entry(2019, 12); ok {
		t.Error("Entry(2019, 12) should not exist")
	}

	if k := (CellKey{2020, 2}).String(); k != "2020-02" {
		t.Errorf("CellKey.String() = %q, want %q", k, "2020-02")
	}
}

func TestNewMatrix_DuplicateKey(t *testing.T) {
	entries := []*MatrixEntry{
		{Year: 2020, Month: 1, Daily: []DailyObservation{{}}},
		{Year: 2020, Month: 1, Daily: []DailyObservation{{}}},
	}
	if _, err := NewMatrix(entries); err == nil {
		t.Fatal("NewMatrix() expected duplicate key error")
	}
}
