package network

import (
	"github.com/evidnet/nmanet/pkg/coding"
)

// deriveReference selects the default reference treatment for a network whose
// caller did not pin one: the treatment with the greatest number of direct
// comparators in the evidence graph (treatments as nodes, one edge per
// within-study arm pair). Ties break by smallest total number of arms across
// studies, then by natural sort order of label. The result is deterministic
// for a given network.
func deriveReference(n *Network) string {
	arms := studyArms(n)

	comparators := make(map[string]map[string]bool)
	armCount := make(map[string]int)
	for _, trts := range arms {
		for _, t := range trts {
			armCount[t]++
			if comparators[t] == nil {
				comparators[t] = make(map[string]bool)
			}
			for _, other := range trts {
				if other != t {
					comparators[t][other] = true
				}
			}
		}
	}

	var best string
	for _, t := range n.treatments {
		if best == "" {
			best = t
			continue
		}
		db, dt := len(comparators[best]), len(comparators[t])
		switch {
		case dt > db:
			best = t
		case dt == db && armCount[t] < armCount[best]:
			best = t
		case dt == db && armCount[t] == armCount[best] && coding.NaturalLess(t, best):
			best = t
		}
	}
	return best
}

// studyArms gathers the distinct (study, treatment) arms across every data
// table of the network. Individual patient data contributes one arm per
// distinct pair, not one per patient.
func studyArms(n *Network) map[string][]string {
	arms := make(map[string][]string)
	seen := make(map[[2]string]bool)
	for _, kind := range []Kind{KindIndividual, KindArm, KindContrast} {
		t := n.Data(kind)
		if t == nil {
			continue
		}
		study, _ := t.Column(ColStudy)
		trt, _ := t.Column(ColTreatment)
		for i := 0; i < t.NumRows(); i++ {
			s, _ := study.Label(i)
			tr, _ := trt.Label(i)
			key := [2]string{s, tr}
			if seen[key] {
				continue
			}
			seen[key] = true
			arms[s] = append(arms[s], tr)
		}
	}
	return arms
}
