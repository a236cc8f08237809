package network

import (
	"github.com/evidnet/nmanet/pkg/logging"
	"github.com/evidnet/nmanet/pkg/metrics"
	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
	"github.com/evidnet/nmanet/pkg/validation"
)

// Bindings names which input column plays each role. Study and Treatment are
// mandatory for every builder; the outcome roles legal for a given builder
// differ (see the builder docs). Roles are resolved eagerly against the input
// table's schema: a bound name that is not a column fails construction.
type Bindings struct {
	Study     string `validate:"required"`
	Treatment string `validate:"required"`
	Class     string

	Y  string // continuous mean / relative effect
	SE string // standard error of Y
	R  string // event count
	N  string // denominator
	E  string // time at risk

	SampleSize string
}

// Option configures a builder or merge call
type Option func(*options)

type options struct {
	trtRef  string
	logger  logging.Logger
	metrics *metrics.Registry
}

// WithTrtRef pins the network reference treatment to the given label. The
// label must be among the observed treatments.
func WithTrtRef(label string) Option {
	return func(o *options) { o.trtRef = label }
}

// WithLogger routes advisories to the given logger instead of the package
// default
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics instruments construction against the given registry
func WithMetrics(r *metrics.Registry) Option {
	return func(o *options) { o.metrics = r }
}

func applyOptions(opts []Option) *options {
	o := &options{logger: logging.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// resolved holds the bound columns after eager resolution against the input
// schema, plus the input column names consumed by roles (so the remainder can
// be carried through as covariates).
type resolved struct {
	study     *table.Column
	treatment *table.Column
	class     *table.Column

	spec       outcome.Spec
	sampleSize *outcome.Numeric

	// cols maps resolved outcome/sample-size roles back to their input
	// columns so normalized tables keep the original value types
	cols     map[string]*table.Column
	consumed map[string]bool
}

// resolve checks the bindings struct and looks every bound role up in the
// input table. allowed lists the outcome roles this builder accepts; binding
// a role outside it, or binding a sample size where none is meaningful, is an
// immediate error.
func resolve(data *table.Table, b Bindings, allowed map[string]bool, allowSampleSize bool) (*resolved, error) {
	if err := validation.Struct(b); err != nil {
		return nil, err
	}

	r := &resolved{
		cols:     make(map[string]*table.Column),
		consumed: make(map[string]bool),
	}

	var err error
	if r.study, err = labelColumn(data, "study", b.Study, r.consumed); err != nil {
		return nil, err
	}
	if r.treatment, err = labelColumn(data, "treatment", b.Treatment, r.consumed); err != nil {
		return nil, err
	}
	if b.Class != "" {
		if r.class, err = labelColumn(data, "treatment_class", b.Class, r.consumed); err != nil {
			return nil, err
		}
	}

	outcomeRoles := []struct {
		role string
		name string
		dest **outcome.Numeric
	}{
		{"y", b.Y, &r.spec.Y},
		{"se", b.SE, &r.spec.SE},
		{"r", b.R, &r.spec.R},
		{"n", b.N, &r.spec.N},
		{"E", b.E, &r.spec.E},
	}
	for _, or := range outcomeRoles {
		if or.name == "" {
			continue
		}
		if !allowed[or.role] {
			return nil, validation.Invalidf(or.role,
				"outcome column is not valid for this data source")
		}
		col, num, err := numericColumn(data, or.role, or.name, r.consumed)
		if err != nil {
			return nil, err
		}
		*or.dest = num
		r.cols[or.role] = col
	}

	if b.SampleSize != "" {
		if !allowSampleSize {
			return nil, validation.Invalidf("sample_size",
				"sample size is not valid for this data source")
		}
		col, num, err := numericColumn(data, "sample_size", b.SampleSize, r.consumed)
		if err != nil {
			return nil, err
		}
		r.sampleSize = num
		r.cols[ColSampleSize] = col
	}

	return r, nil
}

// labelColumn resolves a label-valued role (study, treatment, class).
// Label columns must contain no missing values.
func labelColumn(data *table.Table, role, name string, consumed map[string]bool) (*table.Column, error) {
	col, ok := data.Column(name)
	if !ok {
		return nil, validation.Missingf(role, "column %q not found in data", name)
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			return nil, validation.Invalidf(role, "row %d: column %q has a missing value", i, name)
		}
	}
	consumed[name] = true
	return col, nil
}

// numericColumn resolves a numeric role, widening to float64 and keeping the
// missingness mask for the validators
func numericColumn(data *table.Table, role, name string, consumed map[string]bool) (*table.Column, *outcome.Numeric, error) {
	col, ok := data.Column(name)
	if !ok {
		return nil, nil, validation.Missingf(role, "column %q not found in data", name)
	}
	values, missing, err := col.Numeric()
	if err != nil {
		return nil, nil, validation.Invalidf(role, "%v", err)
	}
	consumed[name] = true
	return col, &outcome.Numeric{Name: role, Values: values, Missing: missing}, nil
}

// labels extracts the per-row label strings of a resolved label column
func labels(col *table.Column) []string {
	out := make([]string, col.Len())
	for i := range out {
		out[i], _ = col.Label(i)
	}
	return out
}
