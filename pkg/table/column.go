package table

import (
	"fmt"
	"strconv"
)

// ColumnType represents the type of values held by a column
type ColumnType uint8

const (
	TypeString ColumnType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// String returns the string representation of a column type
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Column is a named, typed vector of values with a per-cell missingness mask.
// A Column is immutable once handed to a Table; derivation methods return
// copies.
type Column struct {
	name    string
	typ     ColumnType
	strs    []string
	ints    []int64
	floats  []float64
	bools   []bool
	missing []bool
}

// Strings creates a string column
func Strings(name string, values []string) *Column {
	return &Column{name: name, typ: TypeString, strs: values, missing: make([]bool, len(values))}
}

// Ints creates an integer column
func Ints(name string, values []int64) *Column {
	return &Column{name: name, typ: TypeInt, ints: values, missing: make([]bool, len(values))}
}

// Floats creates a float column
func Floats(name string, values []float64) *Column {
	return &Column{name: name, typ: TypeFloat, floats: values, missing: make([]bool, len(values))}
}

// Bools creates a boolean column
func Bools(name string, values []bool) *Column {
	return &Column{name: name, typ: TypeBool, bools: values, missing: make([]bool, len(values))}
}

// WithMissing returns a copy of the column with the given rows marked missing
func (c *Column) WithMissing(rows ...int) *Column {
	clone := c.clone()
	for _, r := range rows {
		if r >= 0 && r < len(clone.missing) {
			clone.missing[r] = true
		}
	}
	return clone
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Type returns the column type
func (c *Column) Type() ColumnType { return c.typ }

// Len returns the number of rows
func (c *Column) Len() int { return len(c.missing) }

// IsMissing reports whether the value at row i is missing
func (c *Column) IsMissing(i int) bool { return c.missing[i] }

// HasMissing reports whether any value in the column is missing
func (c *Column) HasMissing() bool {
	for _, m := range c.missing {
		if m {
			return true
		}
	}
	return false
}

// Float returns the value at row i widened to float64.
// The second return is false when the value is missing or non-numeric.
func (c *Column) Float(i int) (float64, bool) {
	if c.missing[i] {
		return 0, false
	}
	switch c.typ {
	case TypeFloat:
		return c.floats[i], true
	case TypeInt:
		return float64(c.ints[i]), true
	default:
		return 0, false
	}
}

// Label returns the value at row i rendered as a label string.
// The second return is false when the value is missing.
func (c *Column) Label(i int) (string, bool) {
	if c.missing[i] {
		return "", false
	}
	switch c.typ {
	case TypeString:
		return c.strs[i], true
	case TypeInt:
		return strconv.FormatInt(c.ints[i], 10), true
	case TypeFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64), true
	case TypeBool:
		return strconv.FormatBool(c.bools[i]), true
	default:
		return "", false
	}
}

// Numeric returns the column widened to float64 values alongside its
// missingness mask. String and bool columns are not numeric.
func (c *Column) Numeric() ([]float64, []bool, error) {
	if c.typ != TypeInt && c.typ != TypeFloat {
		return nil, nil, fmt.Errorf("column %q is %s, expected a numeric column", c.name, c.typ)
	}
	values := make([]float64, c.Len())
	missing := make([]bool, c.Len())
	copy(missing, c.missing)
	for i := range values {
		if v, ok := c.Float(i); ok {
			values[i] = v
		}
	}
	return values, missing, nil
}

// Renamed returns a copy of the column under a new name
func (c *Column) Renamed(name string) *Column {
	clone := c.clone()
	clone.name = name
	return clone
}

// subset returns a copy of the column containing the rows named by perm,
// in perm order
func (c *Column) subset(perm []int) *Column {
	out := &Column{name: c.name, typ: c.typ, missing: make([]bool, len(perm))}
	switch c.typ {
	case TypeString:
		out.strs = make([]string, len(perm))
	case TypeInt:
		out.ints = make([]int64, len(perm))
	case TypeFloat:
		out.floats = make([]float64, len(perm))
	case TypeBool:
		out.bools = make([]bool, len(perm))
	}
	for j, i := range perm {
		out.missing[j] = c.missing[i]
		switch c.typ {
		case TypeString:
			out.strs[j] = c.strs[i]
		case TypeInt:
			out.ints[j] = c.ints[i]
		case TypeFloat:
			out.floats[j] = c.floats[i]
		case TypeBool:
			out.bools[j] = c.bools[i]
		}
	}
	return out
}

func (c *Column) clone() *Column {
	out := &Column{name: c.name, typ: c.typ, missing: make([]bool, len(c.missing))}
	copy(out.missing, c.missing)
	switch c.typ {
	case TypeString:
		out.strs = append([]string(nil), c.strs...)
	case TypeInt:
		out.ints = append([]int64(nil), c.ints...)
	case TypeFloat:
		out.floats = append([]float64(nil), c.floats...)
	case TypeBool:
		out.bools = append([]bool(nil), c.bools...)
	}
	return out
}

// allMissing creates a column of the given type with every value missing
func allMissing(name string, typ ColumnType, n int) *Column {
	c := &Column{name: name, typ: typ, missing: make([]bool, n)}
	for i := range c.missing {
		c.missing[i] = true
	}
	switch typ {
	case TypeString:
		c.strs = make([]string, n)
	case TypeInt:
		c.ints = make([]int64, n)
	case TypeFloat:
		c.floats = make([]float64, n)
	case TypeBool:
		c.bools = make([]bool, n)
	}
	return c
}
