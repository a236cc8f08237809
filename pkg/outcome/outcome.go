// Package outcome determines which outcome type a data source supplies and
// validates the supplied columns against that type's constraints. It is
// stateless: each builder invocation classifies once and either gets a single
// measure or a typed error naming the violated constraint and column.
package outcome

import (
	"math"

	"github.com/evidnet/nmanet/pkg/validation"
)

// Measure is the outcome type supplied by one data source
type Measure int

const (
	// NoMeasure marks a data-source slot with no outcome
	NoMeasure Measure = iota
	Continuous
	Binary
	Count
	Rate
)

// String returns the string representation of a measure
func (m Measure) String() string {
	switch m {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	case Count:
		return "count"
	case Rate:
		return "rate"
	default:
		return "none"
	}
}

// Numeric is one supplied outcome column: values widened to float64 plus a
// missingness mask. Name is the column role used in error messages.
type Numeric struct {
	Name    string
	Values  []float64
	Missing []bool
}

// Spec is the subset of outcome column roles actually supplied.
// A nil field means the role was not bound.
type Spec struct {
	Y  *Numeric // continuous mean / relative effect
	SE *Numeric // standard error of Y
	R  *Numeric // event count
	N  *Numeric // denominator
	E  *Numeric // time at risk
}

// Classify determines the single outcome type implied by the supplied
// columns, or fails when the combination is ambiguous or empty. requireSE
// states whether a continuous outcome needs a dispersion column (arm and
// contrast sources do, individual-level sources do not).
func Classify(s Spec, requireSE bool) (Measure, error) {
	switch {
	case s.Y != nil && s.R != nil:
		return NoMeasure, validation.Ambiguousf(
			"both continuous (y) and event (r) outcome columns supplied; specify exactly one outcome")
	case s.Y != nil:
		if requireSE && s.SE == nil {
			return NoMeasure, validation.Missingf("se",
				"continuous aggregate outcomes require a standard error column")
		}
		return Continuous, nil
	case s.R != nil:
		switch {
		case s.N != nil && s.E != nil:
			return NoMeasure, validation.Ambiguousf(
				"r supplied with both n and E; cannot distinguish count from rate outcome")
		case s.E != nil:
			return Rate, nil
		case s.N != nil:
			return Count, nil
		default:
			return Binary, nil
		}
	default:
		return NoMeasure, validation.Ambiguousf(
			"no outcome specified: supply y (continuous) or r (event) columns")
	}
}

// Validate applies the field-level constraints of the classified measure.
// The first violated constraint aborts with an error naming the column and
// row.
func Validate(m Measure, s Spec, requireSE bool) error {
	switch m {
	case Continuous:
		if err := checkFinite(s.Y); err != nil {
			return err
		}
		if requireSE {
			return checkStdErr(s.SE)
		}
		return nil
	case Count:
		if err := checkWhole(s.N, 1); err != nil {
			return err
		}
		if err := checkWhole(s.R, 0); err != nil {
			return err
		}
		for i := range s.R.Values {
			if s.R.Values[i] > s.N.Values[i] {
				return validation.Invalidf(s.R.Name,
					"row %d: event count %g exceeds denominator %g", i, s.R.Values[i], s.N.Values[i])
			}
		}
		return nil
	case Rate:
		if err := checkPositive(s.E); err != nil {
			return err
		}
		return checkWhole(s.R, 0)
	case Binary:
		if err := checkWhole(s.R, 0); err != nil {
			return err
		}
		for i, v := range s.R.Values {
			if v > 1 {
				return validation.Invalidf(s.R.Name,
					"row %d: binary outcome must be 0 or 1, got %g", i, v)
			}
		}
		return nil
	default:
		return validation.Ambiguousf("cannot validate unspecified outcome")
	}
}

// ValidateSampleSize checks an explicitly supplied sample size column:
// per-row positive integer, never missing or infinite.
func ValidateSampleSize(n *Numeric) error {
	return checkWhole(n, 1)
}

// checkFinite requires every value present and finite
func checkFinite(c *Numeric) error {
	for i := range c.Values {
		if c.Missing[i] {
			return validation.Invalidf(c.Name, "row %d: value is missing", i)
		}
		if math.IsNaN(c.Values[i]) || math.IsInf(c.Values[i], 0) {
			return validation.Invalidf(c.Name, "row %d: value must be finite, got %g", i, c.Values[i])
		}
	}
	return nil
}

// checkStdErr requires every value present, finite and strictly positive
func checkStdErr(c *Numeric) error {
	if err := checkFinite(c); err != nil {
		return err
	}
	for i, v := range c.Values {
		if v <= 0 {
			return validation.Invalidf(c.Name, "row %d: standard error must be positive, got %g", i, v)
		}
	}
	return nil
}

// checkPositive requires every value present, finite and strictly positive
func checkPositive(c *Numeric) error {
	if err := checkFinite(c); err != nil {
		return err
	}
	for i, v := range c.Values {
		if v <= 0 {
			return validation.Invalidf(c.Name, "row %d: value must be positive, got %g", i, v)
		}
	}
	return nil
}

// checkWhole requires every value present, integer-valued and at least min
func checkWhole(c *Numeric, min float64) error {
	if err := checkFinite(c); err != nil {
		return err
	}
	for i, v := range c.Values {
		if math.Trunc(v) != v {
			return validation.Invalidf(c.Name, "row %d: value must be an integer, got %g", i, v)
		}
		if v < min {
			return validation.Invalidf(c.Name, "row %d: value must be at least %g, got %g", i, min, v)
		}
	}
	return nil
}
