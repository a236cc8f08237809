package validation

import (
	"errors"
	"fmt"
)

// Kind categorizes a data validation failure
type Kind int

const (
	// MissingInput indicates a mandatory column role or value was not supplied
	MissingInput Kind = iota
	// InvalidValue indicates present values violate type/range/integrality constraints
	InvalidValue
	// AmbiguousOutcome indicates the supplied columns match zero or more than one outcome pattern
	AmbiguousOutcome
	// StructuralInconsistency indicates the network structure itself is invalid
	// (unknown reference treatment, duplicated study, bad baseline rows, ...)
	StructuralInconsistency
)

// String returns the string representation of an error kind
func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "MissingInput"
	case InvalidValue:
		return "InvalidValue"
	case AmbiguousOutcome:
		return "AmbiguousOutcome"
	case StructuralInconsistency:
		return "StructuralInconsistency"
	default:
		return "Unknown"
	}
}

// DataError is the error type returned by all network construction and merge
// operations. It identifies the violated constraint and, where the violation
// is column- or entity-scoped, the offending column role or study/treatment
// label so the caller can fix the input.
type DataError struct {
	Kind    Kind
	Column  string // column role ("r", "se", ...) when column-scoped
	Entity  string // study or treatment label when entity-scoped
	Message string
}

// Error implements the error interface
func (e *DataError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("column %q: %s", e.Column, e.Message)
	case e.Entity != "":
		return fmt.Sprintf("%q: %s", e.Entity, e.Message)
	default:
		return e.Message
	}
}

// Missingf builds a MissingInput error scoped to a column role
func Missingf(column, format string, args ...any) *DataError {
	return &DataError{Kind: MissingInput, Column: column, Message: fmt.Sprintf(format, args...)}
}

// Invalidf builds an InvalidValue error scoped to a column role
func Invalidf(column, format string, args ...any) *DataError {
	return &DataError{Kind: InvalidValue, Column: column, Message: fmt.Sprintf(format, args...)}
}

// Ambiguousf builds an AmbiguousOutcome error
func Ambiguousf(format string, args ...any) *DataError {
	return &DataError{Kind: AmbiguousOutcome, Message: fmt.Sprintf(format, args...)}
}

// Structuralf builds a StructuralInconsistency error scoped to a study or
// treatment label. Pass an empty entity when the violation is network-wide.
func Structuralf(entity, format string, args ...any) *DataError {
	return &DataError{Kind: StructuralInconsistency, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from an error chain.
// The second return is false when err is not a DataError.
func KindOf(err error) (Kind, bool) {
	var de *DataError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
