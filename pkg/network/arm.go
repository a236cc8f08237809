package network

import (
	"github.com/evidnet/nmanet/pkg/logging"
	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
	"github.com/evidnet/nmanet/pkg/validation"
)

// armOutcomeRoles lists the outcome columns legal for arm-level aggregates:
// continuous (y with se), count (r with n) or rate (r with E)
var armOutcomeRoles = map[string]bool{"y": true, "se": true, "r": true, "n": true, "E": true}

// NewArmNetwork builds a network fragment from arm-based aggregate data: one
// row per study arm. When a count outcome is used and no explicit sample size
// is bound, the denominator n doubles as the sample size; otherwise a missing
// sample size is a non-fatal advisory, since only some downstream features
// need it. A zero-row input yields the empty network.
func NewArmNetwork(data *table.Table, b Bindings, opts ...Option) (*Network, error) {
	o := applyOptions(opts)
	n, err := buildArm(data, b, o)
	return finish(o, KindArm, n, err)
}

func buildArm(data *table.Table, b Bindings, o *options) (*Network, error) {
	// A missing mandatory binding is an error even for zero-row inputs
	if err := validation.Struct(b); err != nil {
		return nil, err
	}
	if data.NumRows() == 0 {
		return Empty(), nil
	}

	res, err := resolve(data, b, armOutcomeRoles, true)
	if err != nil {
		return nil, err
	}

	measure, err := outcome.Classify(res.spec, true)
	if err != nil {
		return nil, err
	}
	if measure == outcome.Binary {
		return nil, validation.Missingf("n",
			"an event count r at arm level requires a denominator n (count) or time at risk E (rate)")
	}
	if err := outcome.Validate(measure, res.spec, true); err != nil {
		return nil, err
	}

	sampleSize, err := armSampleSize(res, measure, o.logger)
	if err != nil {
		return nil, err
	}

	tbl, err := normalized(data, res, sampleSize)
	if err != nil {
		return nil, err
	}
	return assemble(KindArm, tbl, measure, res, o)
}

// armSampleSize validates an explicit sample size, falls back to the count
// denominator, or advises that none is available
func armSampleSize(res *resolved, measure outcome.Measure, log logging.Logger) (*table.Column, error) {
	if res.sampleSize != nil {
		if err := outcome.ValidateSampleSize(res.sampleSize); err != nil {
			return nil, err
		}
		return res.cols[ColSampleSize], nil
	}
	if measure == outcome.Count {
		return res.cols["n"], nil
	}
	log.Warn("sample size not supplied for arm-based data; downstream features requiring arm sample sizes will be unavailable",
		logging.String("kind", string(KindArm)))
	return nil, nil
}
