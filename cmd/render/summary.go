package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"temperature-matrix/internal/models"
	"temperature-matrix/internal/services"
	"temperature-matrix/internal/view"
)

// printSummary writes the load statistics and a year x month table of the
// metric the SVG was written with.
func printSummary(w io.Writer, result *services.LoadResult, metric view.Metric) {
	m := result.Matrix
	years := m.Years()

	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "TEMPERATURE MATRIX")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Source:         %s\n", result.Source)
	fmt.Fprintf(w, "Total Records:  %d\n", result.TotalRecords)
	fmt.Fprintf(w, "Dropped:        %d\n", result.Dropped)
	fmt.Fprintf(w, "Years:          %d (%d-%d)\n", len(years), years[0], years[len(years)-1])
	fmt.Fprintf(w, "Cells:          %d\n", m.Len())
	fmt.Fprintf(w, "Showing:        %s\n", metric.Label())
	fmt.Fprintf(w, "Duration:       %v\n", result.Duration)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-5s", "")
	for _, name := range models.MonthNames {
		fmt.Fprintf(w, "%6s", name[:3])
	}
	fmt.Fprintln(w)

	for _, year := range years {
		fmt.Fprintf(w, "%-5d", year)
		for month := 1; month <= 12; month++ {
			cell := "-"
			if e, ok := m.Entry(year, month); ok {
				cell = strconv.FormatFloat(metric.Value(e), 'f', 1, 64)
			}
			fmt.Fprintf(w, "%6s", cell)
		}
		fmt.Fprintln(w)
	}
}
