// Package table provides the minimal column-oriented table the network
// builders consume. Columns are typed (string, int, float, bool) and carry a
// per-cell missingness mask, mirroring how study datasets arrive: labels,
// counts, effect estimates and covariates side by side, with gaps.
package table

import (
	"fmt"
)

// Table is an immutable-by-convention collection of equal-length columns
type Table struct {
	columns []*Column
	index   map[string]int
	nrows   int
}

// New creates a table from the given columns.
// All columns must have the same length and distinct names.
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name() == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, exists := t.index[col.Name()]; exists {
			return nil, fmt.Errorf("duplicate column name %q", col.Name())
		}
		if i == 0 {
			t.nrows = col.Len()
		} else if col.Len() != t.nrows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name(), col.Len(), t.nrows)
		}
		t.index[col.Name()] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return t.nrows
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Columns returns the columns in declaration order
func (t *Table) Columns() []*Column {
	return t.columns
}

// Names returns the column names in declaration order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Reorder returns a new table containing the rows named by perm, in perm
// order. perm may repeat or drop rows; indices must be in range.
func (t *Table) Reorder(perm []int) (*Table, error) {
	for _, i := range perm {
		if i < 0 || i >= t.nrows {
			return nil, fmt.Errorf("row index %d out of range [0,%d)", i, t.nrows)
		}
	}
	cols := make([]*Column, len(t.columns))
	for j, c := range t.columns {
		cols[j] = c.subset(perm)
	}
	return New(cols...)
}

// Without returns a table omitting the named columns. Names not present are
// ignored; when nothing is dropped the receiver is returned unchanged.
func (t *Table) Without(names ...string) *Table {
	if t == nil {
		return nil
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := t.index[n]; ok {
			drop[n] = true
		}
	}
	if len(drop) == 0 {
		return t
	}
	out := &Table{
		columns: make([]*Column, 0, len(t.columns)-len(drop)),
		index:   make(map[string]int, len(t.columns)-len(drop)),
		nrows:   t.nrows,
	}
	for _, c := range t.columns {
		if drop[c.Name()] {
			continue
		}
		out.index[c.Name()] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out
}

// Concat vertically concatenates tables, preserving input order. Columns are
// matched by name; a column absent from some input is filled with missing
// values for that input's rows. Columns sharing a name must share a type,
// except that int and float unify to float.
func Concat(tables ...*Table) (*Table, error) {
	// Establish output schema: first-appearance column order
	type slot struct {
		name string
		typ  ColumnType
	}
	var schema []slot
	seen := make(map[string]int)
	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		total += t.NumRows()
		for _, c := range t.Columns() {
			if i, ok := seen[c.Name()]; ok {
				if schema[i].typ != c.Type() {
					if isNumeric(schema[i].typ) && isNumeric(c.Type()) {
						schema[i].typ = TypeFloat
					} else {
						return nil, fmt.Errorf("column %q is %s in one source and %s in another",
							c.Name(), schema[i].typ, c.Type())
					}
				}
				continue
			}
			seen[c.Name()] = len(schema)
			schema = append(schema, slot{name: c.Name(), typ: c.Type()})
		}
	}

	out := make([]*Column, len(schema))
	for i, s := range schema {
		parts := make([]*Column, 0, len(tables))
		for _, t := range tables {
			if t == nil {
				continue
			}
			c, ok := t.Column(s.name)
			if !ok {
				c = allMissing(s.name, s.typ, t.NumRows())
			}
			parts = append(parts, c)
		}
		col, err := concatColumns(s.name, s.typ, total, parts)
		if err != nil {
			return nil, err
		}
		out[i] = col
	}
	return New(out...)
}

func isNumeric(t ColumnType) bool {
	return t == TypeInt || t == TypeFloat
}

func concatColumns(name string, typ ColumnType, total int, parts []*Column) (*Column, error) {
	out := &Column{name: name, typ: typ, missing: make([]bool, 0, total)}
	switch typ {
	case TypeString:
		out.strs = make([]string, 0, total)
	case TypeInt:
		out.ints = make([]int64, 0, total)
	case TypeFloat:
		out.floats = make([]float64, 0, total)
	case TypeBool:
		out.bools = make([]bool, 0, total)
	}
	for _, p := range parts {
		for i := 0; i < p.Len(); i++ {
			out.missing = append(out.missing, p.missing[i])
			switch typ {
			case TypeString:
				out.strs = append(out.strs, p.strs[i])
			case TypeInt:
				out.ints = append(out.ints, p.ints[i])
			case TypeFloat:
				v, _ := p.Float(i)
				out.floats = append(out.floats, v)
			case TypeBool:
				out.bools = append(out.bools, p.bools[i])
			default:
				return nil, fmt.Errorf("unsupported column type %d", typ)
			}
		}
	}
	return out, nil
}
