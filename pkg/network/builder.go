package network

import (
	"github.com/evidnet/nmanet/pkg/coding"
	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
	"github.com/evidnet/nmanet/pkg/validation"
)

// canonical column order for the outcome roles in normalized tables
var outcomeOrder = []string{ColY, ColSE, ColR, ColN, ColE}

// normalized builds the canonical data table of a fragment: study, treatment
// and class as label columns, bound outcome columns renamed to their roles,
// the sample size (when resolved or derived), and every unconsumed input
// column carried through as a covariate.
func normalized(data *table.Table, res *resolved, sampleSize *table.Column) (*table.Table, error) {
	cols := []*table.Column{
		table.Strings(ColStudy, labels(res.study)),
		table.Strings(ColTreatment, labels(res.treatment)),
	}
	if res.class != nil {
		cols = append(cols, table.Strings(ColClass, labels(res.class)))
	}
	for _, role := range outcomeOrder {
		if c, ok := res.cols[role]; ok {
			cols = append(cols, c.Renamed(role))
		}
	}
	if sampleSize != nil {
		cols = append(cols, sampleSize.Renamed(ColSampleSize))
	}

	used := make(map[string]bool, len(cols))
	for _, c := range cols {
		used[c.Name()] = true
	}
	for _, c := range data.Columns() {
		if res.consumed[c.Name()] || used[c.Name()] {
			continue
		}
		cols = append(cols, c)
	}
	return table.New(cols...)
}

// assemble turns one normalized table into a Network fragment: codes the
// study and treatment labels, applies class coding, and relevels to the
// explicit or derived reference treatment.
func assemble(kind Kind, data *table.Table, measure outcome.Measure, res *resolved, o *options) (*Network, error) {
	trtCat := coding.New(labels(res.treatment))
	studyCat := coding.New(labels(res.study))

	var classes *coding.ClassMap
	if res.class != nil {
		var err error
		classes, err = coding.BuildClasses(labels(res.treatment), labels(res.class))
		if err != nil {
			return nil, err
		}
	}

	n := &Network{classes: classes}
	switch kind {
	case KindIndividual:
		n.individualData = data
		n.outcomes.Individual = measure
	case KindArm:
		n.armData = data
		n.outcomes.Arm = measure
	case KindContrast:
		n.contrastData = data
		n.outcomes.Contrast = measure
	}

	if o.trtRef != "" {
		if err := trtCat.Relevel(o.trtRef); err != nil {
			return nil, err
		}
	} else {
		n.treatments = trtCat.Levels()
		n.studies = studyCat.Levels()
		if err := trtCat.RelevelDefault(deriveReference(n)); err != nil {
			return nil, err
		}
	}
	n.treatments = trtCat.Levels()
	n.studies = studyCat.Levels()
	n.defaultRef = trtCat.DefaultRef()

	if classes != nil {
		if err := classes.Relevel(n.Reference()); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// finish records metrics for the call outcome and is the single return point
// of every builder
func finish(o *options, kind Kind, n *Network, err error) (*Network, error) {
	if err != nil {
		if k, ok := validation.KindOf(err); ok {
			o.metrics.RecordFailure(k.String())
		}
		return nil, err
	}
	rows := 0
	if t := n.Data(kind); t != nil {
		rows = t.NumRows()
	}
	o.metrics.RecordBuild(string(kind), rows)
	return n, nil
}
