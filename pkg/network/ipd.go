package network

import (
	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
	"github.com/evidnet/nmanet/pkg/validation"
)

// ipdOutcomeRoles lists the outcome columns legal for individual patient
// data. There is no denominator concept at patient level, so n is excluded
// (and with it the count outcome), and no dispersion column is expected.
var ipdOutcomeRoles = map[string]bool{"y": true, "r": true, "E": true}

// NewIPDNetwork builds a network fragment from individual patient data: one
// row per patient, with a continuous (y), binary (r) or rate (r with E)
// outcome. Unbound input columns are carried through as covariates. A
// zero-row input yields the empty network.
func NewIPDNetwork(data *table.Table, b Bindings, opts ...Option) (*Network, error) {
	o := applyOptions(opts)
	n, err := buildIPD(data, b, o)
	return finish(o, KindIndividual, n, err)
}

func buildIPD(data *table.Table, b Bindings, o *options) (*Network, error) {
	// A missing mandatory binding is an error even for zero-row inputs
	if err := validation.Struct(b); err != nil {
		return nil, err
	}
	if data.NumRows() == 0 {
		return Empty(), nil
	}

	res, err := resolve(data, b, ipdOutcomeRoles, false)
	if err != nil {
		return nil, err
	}

	measure, err := outcome.Classify(res.spec, false)
	if err != nil {
		return nil, err
	}
	if err := outcome.Validate(measure, res.spec, false); err != nil {
		return nil, err
	}

	tbl, err := normalized(data, res, nil)
	if err != nil {
		return nil, err
	}
	return assemble(KindIndividual, tbl, measure, res, o)
}
