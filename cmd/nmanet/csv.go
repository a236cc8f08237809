package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/evidnet/nmanet/pkg/table"
)

// loadCSV reads a CSV file with a header row into a column-oriented table.
// Empty cells and the markers "NA" and "." are missing values. A column whose
// present cells all parse as integers becomes an int column, all-numeric
// becomes float, anything else stays a string column.
func loadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no header row", path)
	}

	header := records[0]
	rows := records[1:]
	cols := make([]*table.Column, len(header))
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, rec := range rows {
			if j >= len(rec) {
				return nil, fmt.Errorf("%s: row %d has %d fields, expected %d", path, i+1, len(rec), len(header))
			}
			cells[i] = rec[j]
		}
		cols[j] = inferColumn(name, cells)
	}
	return table.New(cols...)
}

func isMissingCell(s string) bool {
	return s == "" || s == "NA" || s == "."
}

// inferColumn picks the narrowest type that fits every present cell
func inferColumn(name string, cells []string) *table.Column {
	var missing []int
	allInt, allFloat := true, true
	for i, s := range cells {
		if isMissingCell(s) {
			missing = append(missing, i)
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allFloat = false
		}
	}

	switch {
	case allInt:
		values := make([]int64, len(cells))
		for i, s := range cells {
			if !isMissingCell(s) {
				values[i], _ = strconv.ParseInt(s, 10, 64)
			}
		}
		return table.Ints(name, values).WithMissing(missing...)
	case allFloat:
		values := make([]float64, len(cells))
		for i, s := range cells {
			if !isMissingCell(s) {
				values[i], _ = strconv.ParseFloat(s, 64)
			}
		}
		return table.Floats(name, values).WithMissing(missing...)
	default:
		return table.Strings(name, cells).WithMissing(missing...)
	}
}
