package network

import (
	"math"
	"strings"

	"github.com/evidnet/nmanet/pkg/logging"
	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
	"github.com/evidnet/nmanet/pkg/validation"
)

// contrastOutcomeRoles lists the outcome columns legal for contrast-level
// aggregates: relative effects are continuous only, with a mandatory standard
// error
var contrastOutcomeRoles = map[string]bool{"y": true, "se": true}

// NewContrastNetwork builds a network fragment from contrast-based aggregate
// data: one row per study arm, each expressing a relative effect y (se)
// against an implicit study-specific baseline arm. The baseline arm is the
// single row per study whose y is missing. Studies with three or more arms
// additionally need the baseline row's se, which encodes the covariance of
// their multiple relative effects through the common baseline. Output rows
// are regrouped so each study's rows are contiguous, in first-occurrence
// order of the study labels. A zero-row input yields the empty network.
func NewContrastNetwork(data *table.Table, b Bindings, opts ...Option) (*Network, error) {
	o := applyOptions(opts)
	n, err := buildContrast(data, b, o)
	return finish(o, KindContrast, n, err)
}

func buildContrast(data *table.Table, b Bindings, o *options) (*Network, error) {
	// A missing mandatory binding is an error even for zero-row inputs
	if err := validation.Struct(b); err != nil {
		return nil, err
	}
	if data.NumRows() == 0 {
		return Empty(), nil
	}

	res, err := resolve(data, b, contrastOutcomeRoles, true)
	if err != nil {
		return nil, err
	}

	measure, err := outcome.Classify(res.spec, true)
	if err != nil {
		return nil, err
	}

	if err := validateContrasts(res); err != nil {
		return nil, err
	}

	if res.sampleSize != nil {
		if err := outcome.ValidateSampleSize(res.sampleSize); err != nil {
			return nil, err
		}
	} else {
		o.logger.Warn("sample size not supplied for contrast-based data; downstream features requiring arm sample sizes will be unavailable",
			logging.String("kind", string(KindContrast)))
	}

	tbl, err := normalized(data, res, res.cols[ColSampleSize])
	if err != nil {
		return nil, err
	}
	tbl, err = groupByStudy(tbl)
	if err != nil {
		return nil, err
	}
	return assemble(KindContrast, tbl, measure, res, o)
}

// validateContrasts enforces the baseline-arm structure: exactly one missing-y
// row per study, finite relative effects and positive standard errors on the
// other rows, and a positive baseline standard error for multi-arm studies.
func validateContrasts(res *resolved) error {
	y, se := res.spec.Y, res.spec.SE
	studies := labels(res.study)

	baselines := make(map[string]int)
	contrasts := make(map[string]int)
	var order []string
	for i, s := range studies {
		if _, seen := baselines[s]; !seen {
			baselines[s] = 0
			order = append(order, s)
		}
		if y.Missing[i] {
			baselines[s]++
		} else {
			contrasts[s]++
		}
	}

	var offending []string
	for _, s := range order {
		if baselines[s] != 1 || contrasts[s] == 0 {
			offending = append(offending, s)
		}
	}
	if len(offending) > 0 {
		return validation.Structuralf(strings.Join(offending, ", "),
			"contrast-based studies must have exactly one baseline row (missing y) and at least one relative effect")
	}

	for i := range studies {
		if y.Missing[i] {
			// Baseline row: se is only needed when the study contributes
			// more than one relative effect
			if contrasts[studies[i]] < 2 {
				continue
			}
			if err := checkContrastSE(se, i, "baseline standard error required for studies with more than two arms"); err != nil {
				return err
			}
			continue
		}
		if math.IsNaN(y.Values[i]) || math.IsInf(y.Values[i], 0) {
			return validation.Invalidf("y", "row %d: relative effect must be finite, got %g", i, y.Values[i])
		}
		if err := checkContrastSE(se, i, "standard error required for every relative effect"); err != nil {
			return err
		}
	}
	return nil
}

func checkContrastSE(se *outcome.Numeric, i int, reason string) error {
	if se.Missing[i] {
		return validation.Invalidf("se", "row %d: %s", i, reason)
	}
	v := se.Values[i]
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return validation.Invalidf("se", "row %d: standard error must be positive and finite, got %g", i, v)
	}
	return nil
}

// groupByStudy reorders rows so all rows sharing a study label are
// contiguous, keeping studies in first-occurrence order and rows within a
// study in input order. Downstream per-study likelihood blocks depend on this
// contiguity.
func groupByStudy(t *table.Table) (*table.Table, error) {
	study, _ := t.Column(ColStudy)
	byStudy := make(map[string][]int)
	var order []string
	for i := 0; i < t.NumRows(); i++ {
		s, _ := study.Label(i)
		if _, seen := byStudy[s]; !seen {
			order = append(order, s)
		}
		byStudy[s] = append(byStudy[s], i)
	}

	perm := make([]int, 0, t.NumRows())
	for _, s := range order {
		perm = append(perm, byStudy[s]...)
	}
	return t.Reorder(perm)
}
