package network

import (
	"testing"

	"github.com/evidnet/nmanet/pkg/logging"
	"github.com/evidnet/nmanet/pkg/table"
)

// captureLogger records advisory messages for assertion
type captureLogger struct {
	warnings []string
}

func (c *captureLogger) Debug(msg string, fields ...logging.Field) {}
func (c *captureLogger) Info(msg string, fields ...logging.Field)  {}
func (c *captureLogger) Warn(msg string, fields ...logging.Field) {
	c.warnings = append(c.warnings, msg)
}
func (c *captureLogger) Error(msg string, fields ...logging.Field)   {}
func (c *captureLogger) With(fields ...logging.Field) logging.Logger { return c }

// mustTable builds a table or fails the test
func mustTable(t *testing.T, cols ...*table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	if err != nil {
		t.Fatalf("building test table: %v", err)
	}
	return tbl
}

// countTable is the four-row two-study count dataset used across tests
func countTable(t *testing.T) *table.Table {
	t.Helper()
	return mustTable(t,
		table.Strings("studyc", []string{"S1", "S1", "S2", "S2"}),
		table.Strings("trtc", []string{"A", "B", "A", "B"}),
		table.Ints("events", []int64{5, 8, 3, 4}),
		table.Ints("total", []int64{20, 22, 15, 14}),
	)
}

var countBindings = Bindings{Study: "studyc", Treatment: "trtc", R: "events", N: "total"}

// labelValues extracts a column of the network table as label strings
func labelValues(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	col, ok := tbl.Column(name)
	if !ok {
		t.Fatalf("column %q not found", name)
	}
	out := make([]string, col.Len())
	for i := range out {
		out[i], _ = col.Label(i)
	}
	return out
}

// floatValues extracts a numeric column as float64s, requiring no missing cells
func floatValues(t *testing.T, tbl *table.Table, name string) []float64 {
	t.Helper()
	col, ok := tbl.Column(name)
	if !ok {
		t.Fatalf("column %q not found", name)
	}
	out := make([]float64, col.Len())
	for i := range out {
		v, ok := col.Float(i)
		if !ok {
			t.Fatalf("column %q row %d is missing", name, i)
		}
		out[i] = v
	}
	return out
}
