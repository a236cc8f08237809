package network

import (
	"strings"

	"github.com/evidnet/nmanet/pkg/coding"
	"github.com/evidnet/nmanet/pkg/logging"
	"github.com/evidnet/nmanet/pkg/outcome"
	"github.com/evidnet/nmanet/pkg/table"
	"github.com/evidnet/nmanet/pkg/validation"
)

// validCombinations enumerates the outcome-type triples that share a common
// likelihood family once linked through relative effects. A merge may leave
// any slot absent, but every present slot must agree with a single row.
var validCombinations = []Outcomes{
	{Arm: outcome.Count, Contrast: outcome.Continuous, Individual: outcome.Binary},
	{Arm: outcome.Rate, Contrast: outcome.Continuous, Individual: outcome.Rate},
	{Arm: outcome.Continuous, Contrast: outcome.Continuous, Individual: outcome.Continuous},
}

// Combine merges one or more network fragments (any mix of the three data
// kinds, or the empty sentinel) into a single network. Treatment and study
// code spaces are unioned in natural sort order; a study present in more than
// one fragment is an error, since its evidence attribution would be
// ambiguous. Treatment classes survive the merge only when every
// data-carrying fragment supplies them; partial class information is dropped
// with an advisory. Outcome types are reconciled per data kind and the
// cross-kind combination must be statistically coherent.
func Combine(fragments []*Network, opts ...Option) (*Network, error) {
	o := applyOptions(opts)
	n, err := combine(fragments, o)
	if err != nil {
		if k, ok := validation.KindOf(err); ok {
			o.metrics.RecordFailure(k.String())
		}
		return nil, err
	}
	o.metrics.RecordMerge(len(fragments))
	return n, nil
}

func combine(fragments []*Network, o *options) (*Network, error) {
	if len(fragments) == 0 {
		return nil, validation.Missingf("fragments", "at least one network fragment is required")
	}
	for i, f := range fragments {
		if f == nil {
			return nil, validation.Invalidf("fragments", "fragment %d is not a network", i)
		}
	}

	var carrying []*Network
	for _, f := range fragments {
		if !f.IsEmpty() {
			carrying = append(carrying, f)
		}
	}
	if len(carrying) == 0 {
		return Empty(), nil
	}

	if err := checkStudyCollisions(carrying); err != nil {
		return nil, err
	}

	treatments := unionLevels(carrying, (*Network).Treatments)
	studies := unionLevels(carrying, (*Network).Studies)

	classes, err := mergeClasses(carrying, o.logger)
	if err != nil {
		return nil, err
	}

	outcomes, err := reconcileOutcomes(carrying)
	if err != nil {
		return nil, err
	}

	n := &Network{
		treatments: treatments,
		studies:    studies,
		classes:    classes,
		outcomes:   outcomes,
	}
	for _, kind := range []Kind{KindIndividual, KindArm, KindContrast} {
		tbl, err := concatKind(carrying, kind)
		if err != nil {
			return nil, err
		}
		if classes == nil {
			// Class labels from partially-classed sources must not survive
			// a merge whose class information was dropped
			tbl = tbl.Without(ColClass)
		}
		switch kind {
		case KindIndividual:
			n.individualData = tbl
		case KindArm:
			n.armData = tbl
		case KindContrast:
			n.contrastData = tbl
		}
	}

	if err := relevelMerged(n, carrying, o); err != nil {
		return nil, err
	}
	return n, nil
}

// checkStudyCollisions rejects study labels appearing in more than one input
// fragment
func checkStudyCollisions(fragments []*Network) error {
	seen := make(map[string]bool)
	colliding := make(map[string]bool)
	var order []string
	for _, f := range fragments {
		for _, s := range f.Studies() {
			if seen[s] && !colliding[s] {
				colliding[s] = true
				order = append(order, s)
			}
			seen[s] = true
		}
	}
	if len(order) > 0 {
		return validation.Structuralf(strings.Join(order, ", "),
			"study appears in more than one data source; studies must be uniquely attributed")
	}
	return nil
}

// unionLevels unions one code space across fragments in natural sort order
func unionLevels(fragments []*Network, levels func(*Network) []string) []string {
	seen := make(map[string]bool)
	var union []string
	for _, f := range fragments {
		for _, l := range levels(f) {
			if !seen[l] {
				seen[l] = true
				union = append(union, l)
			}
		}
	}
	coding.SortNatural(union)
	return union
}

// mergeClasses applies the all-or-drop rule for treatment classes
func mergeClasses(fragments []*Network, log logging.Logger) (*coding.ClassMap, error) {
	withClasses := 0
	maps := make([]*coding.ClassMap, 0, len(fragments))
	for _, f := range fragments {
		if f.classes != nil {
			withClasses++
			maps = append(maps, f.classes)
		}
	}
	switch {
	case withClasses == 0:
		return nil, nil
	case withClasses < len(fragments):
		log.Warn("treatment class information dropped: not all data sources carry classes",
			logging.Int("with_classes", withClasses),
			logging.Int("sources", len(fragments)))
		return nil, nil
	default:
		return coding.MergeClasses(maps...)
	}
}

// reconcileOutcomes collapses per-kind outcome declarations across fragments
// and checks the cross-kind combination
func reconcileOutcomes(fragments []*Network) (Outcomes, error) {
	var out Outcomes
	kinds := []struct {
		kind Kind
		get  func(Outcomes) outcome.Measure
		set  func(*Outcomes, outcome.Measure)
	}{
		{KindIndividual, func(o Outcomes) outcome.Measure { return o.Individual },
			func(o *Outcomes, m outcome.Measure) { o.Individual = m }},
		{KindArm, func(o Outcomes) outcome.Measure { return o.Arm },
			func(o *Outcomes, m outcome.Measure) { o.Arm = m }},
		{KindContrast, func(o Outcomes) outcome.Measure { return o.Contrast },
			func(o *Outcomes, m outcome.Measure) { o.Contrast = m }},
	}
	for _, k := range kinds {
		merged := outcome.NoMeasure
		for _, f := range fragments {
			m := k.get(f.outcomes)
			if m == outcome.NoMeasure {
				continue
			}
			if merged != outcome.NoMeasure && merged != m {
				return out, validation.Structuralf(string(k.kind),
					"data sources declare conflicting outcome types %s and %s for the same data kind", merged, m)
			}
			merged = m
		}
		k.set(&out, merged)
	}

	if !validCombination(out) {
		var present []string
		for _, k := range kinds {
			if k.get(out) != outcome.NoMeasure {
				present = append(present, string(k.kind))
			}
		}
		return out, validation.Structuralf(strings.Join(present, ", "),
			"incompatible outcome combination (arm: %s, contrast: %s, individual: %s): sources cannot share a likelihood family",
			out.Arm, out.Contrast, out.Individual)
	}
	return out, nil
}

func validCombination(o Outcomes) bool {
	for _, c := range validCombinations {
		ok := (o.Arm == outcome.NoMeasure || o.Arm == c.Arm) &&
			(o.Contrast == outcome.NoMeasure || o.Contrast == c.Contrast) &&
			(o.Individual == outcome.NoMeasure || o.Individual == c.Individual)
		if ok {
			return true
		}
	}
	return false
}

// concatKind concatenates the non-absent tables of one data kind, preserving
// fragment order. Data rows store canonical labels, so moving them into the
// unified code space needs no value rewriting, only the level unioning done
// by the caller.
func concatKind(fragments []*Network, kind Kind) (*table.Table, error) {
	var tables []*table.Table
	for _, f := range fragments {
		if t := f.Data(kind); t != nil {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return nil, nil
	}
	out, err := table.Concat(tables...)
	if err != nil {
		return nil, validation.Invalidf(string(kind), "cannot concatenate %s data: %v", kind, err)
	}
	return out, nil
}

// relevelMerged settles the merged network's reference treatment: an explicit
// merge reference wins; otherwise a reference pinned by exactly one fragment
// carries over; otherwise the default derivation runs over the full merged
// evidence graph.
func relevelMerged(n *Network, fragments []*Network, o *options) error {
	cat := coding.New(n.treatments)

	switch ref := mergeReference(fragments, o); {
	case ref != "":
		if err := cat.Relevel(ref); err != nil {
			return err
		}
	default:
		if err := cat.RelevelDefault(deriveReference(n)); err != nil {
			return err
		}
	}
	n.treatments = cat.Levels()
	n.defaultRef = cat.DefaultRef()

	if n.classes != nil {
		if err := n.classes.Relevel(n.Reference()); err != nil {
			return err
		}
	}
	return nil
}

// mergeReference returns the explicit reference for the merge, or "" when the
// default derivation should run. Fragments that pinned conflicting references
// cannot both win, so the derivation runs instead.
func mergeReference(fragments []*Network, o *options) string {
	if o.trtRef != "" {
		return o.trtRef
	}
	pinned := ""
	for _, f := range fragments {
		if f.defaultRef || f.Reference() == "" {
			continue
		}
		if pinned != "" && pinned != f.Reference() {
			return ""
		}
		pinned = f.Reference()
	}
	return pinned
}
