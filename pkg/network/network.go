// Package network assembles evidence networks for network meta-analysis.
// Raw tabular datasets enter through one of three builders (individual patient
// data, arm-level aggregates, contrast-level relative effects), are normalized
// and validated, and any mix of the resulting fragments can be merged into one
// network ready for model fitting. A returned Network is immutable by
// convention: construction either fully succeeds or fails with a typed error,
// and no shared state is mutated across calls.
package network

import (
	"fmt"
	"strings"

	"github.com/evidnet/nmanet/pkg/coding"
	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
)

// Kind identifies which of the three data sources a table came from
type Kind string

const (
	KindIndividual Kind = "individual"
	KindArm        Kind = "arm"
	KindContrast   Kind = "contrast"
)

// Canonical column names used in normalized data tables. Builders rename the
// caller's bound columns to these; unbound input columns are carried through
// under their original names as covariates.
const (
	ColStudy      = "study"
	ColTreatment  = "treatment"
	ColClass      = "class"
	ColY          = "y"
	ColSE         = "se"
	ColR          = "r"
	ColN          = "n"
	ColE          = "E"
	ColSampleSize = "sample_size"
)

// Outcomes records the outcome type supplied by each data source,
// independently. A slot is NoMeasure when that source is absent.
type Outcomes struct {
	Individual outcome.Measure
	Arm        outcome.Measure
	Contrast   outcome.Measure
}

// Network is the unified evidence network. Zero, one or more of the three
// data tables are populated; treatments and studies are the ordered code
// spaces every table row draws from, with the first treatment acting as the
// network reference.
type Network struct {
	individualData *table.Table
	armData        *table.Table
	contrastData   *table.Table

	treatments []string
	studies    []string
	classes    *coding.ClassMap

	outcomes Outcomes

	// defaultRef is set when the reference treatment was derived rather than
	// chosen by the caller, so a later merge may override it
	defaultRef bool
}

// Empty returns the canonical empty network: all three data tables absent.
// Builders return it for zero-row inputs, and it is the identity value for
// merging.
func Empty() *Network {
	return &Network{defaultRef: true}
}

// IsEmpty reports whether the network carries no data at all
func (n *Network) IsEmpty() bool {
	return n.individualData == nil && n.armData == nil && n.contrastData == nil
}

// IndividualData returns the individual patient data table, or nil
func (n *Network) IndividualData() *table.Table { return n.individualData }

// ArmData returns the arm-level aggregate table, or nil
func (n *Network) ArmData() *table.Table { return n.armData }

// ContrastData returns the contrast-level aggregate table, or nil
func (n *Network) ContrastData() *table.Table { return n.contrastData }

// Data returns the table of the given kind, or nil
func (n *Network) Data(kind Kind) *table.Table {
	switch kind {
	case KindIndividual:
		return n.individualData
	case KindArm:
		return n.armData
	case KindContrast:
		return n.contrastData
	default:
		return nil
	}
}

// Treatments returns the ordered treatment code space. The first element is
// the network reference treatment.
func (n *Network) Treatments() []string {
	return append([]string(nil), n.treatments...)
}

// Reference returns the network reference treatment, or "" for an empty
// network
func (n *Network) Reference() string {
	if len(n.treatments) == 0 {
		return ""
	}
	return n.treatments[0]
}

// Studies returns the ordered study code space
func (n *Network) Studies() []string {
	return append([]string(nil), n.studies...)
}

// Classes returns the treatment-class mapping, or nil when no class
// information is carried
func (n *Network) Classes() *coding.ClassMap { return n.classes }

// Outcomes returns the per-source outcome record
func (n *Network) Outcomes() Outcomes { return n.outcomes }

// HasDefaultReference reports whether the reference treatment was derived by
// default rather than pinned by the caller
func (n *Network) HasDefaultReference() bool { return n.defaultRef }

// Summary renders a human-readable description of the network: study and
// treatment counts, the reference treatment, and per-source row counts with
// their outcome types.
func (n *Network) Summary() string {
	var b strings.Builder
	if n.IsEmpty() {
		b.WriteString("An empty network.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "A network of %d studies and %d treatments.\n", len(n.studies), len(n.treatments))
	fmt.Fprintf(&b, "Reference treatment: %s\n", n.Reference())
	fmt.Fprintf(&b, "Treatments: %s\n", strings.Join(n.treatments, ", "))
	if n.classes != nil {
		fmt.Fprintf(&b, "Classes: %s\n", strings.Join(n.classes.Levels(), ", "))
	}
	if n.individualData != nil {
		fmt.Fprintf(&b, "Individual patient data: %d rows, %s outcome\n",
			n.individualData.NumRows(), n.outcomes.Individual)
	}
	if n.armData != nil {
		fmt.Fprintf(&b, "Arm-based aggregate data: %d rows, %s outcome\n",
			n.armData.NumRows(), n.outcomes.Arm)
	}
	if n.contrastData != nil {
		fmt.Fprintf(&b, "Contrast-based aggregate data: %d rows, %s outcome\n",
			n.contrastData.NumRows(), n.outcomes.Contrast)
	}
	return b.String()
}

// String implements fmt.Stringer
func (n *Network) String() string { return n.Summary() }
