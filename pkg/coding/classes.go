package coding

import (
	"github.com/evidnet/nmanet/pkg/validation"
)

// ClassMap records which class each treatment belongs to. Class levels are
// kept in natural sort order except that, after releveling, the class
// containing the network reference treatment comes first.
type ClassMap struct {
	levels      []string
	byTreatment map[string]string
}

// BuildClasses pairs per-row treatment labels with per-row class labels.
// Every treatment must belong to exactly one class; a treatment observed with
// two classes is an error naming that treatment.
func BuildClasses(treatments, classes []string) (*ClassMap, error) {
	byTreatment := make(map[string]string, len(treatments))
	for i, trt := range treatments {
		cls := classes[i]
		if prev, seen := byTreatment[trt]; seen && prev != cls {
			return nil, validation.Structuralf(trt,
				"treatment assigned to more than one class (%q and %q)", prev, cls)
		}
		byTreatment[trt] = cls
	}

	seen := make(map[string]bool, len(byTreatment))
	var levels []string
	for _, cls := range byTreatment {
		if !seen[cls] {
			seen[cls] = true
			levels = append(levels, cls)
		}
	}
	SortNatural(levels)

	return &ClassMap{levels: levels, byTreatment: byTreatment}, nil
}

// MergeClasses unions class maps from several sources. A treatment classified
// differently by two sources is an error naming that treatment.
func MergeClasses(maps ...*ClassMap) (*ClassMap, error) {
	var treatments, classes []string
	for _, m := range maps {
		if m == nil {
			continue
		}
		for trt, cls := range m.byTreatment {
			treatments = append(treatments, trt)
			classes = append(classes, cls)
		}
	}
	return BuildClasses(treatments, classes)
}

// ClassOf returns the class of a treatment
func (m *ClassMap) ClassOf(treatment string) (string, bool) {
	cls, ok := m.byTreatment[treatment]
	return cls, ok
}

// Levels returns the ordered class levels
func (m *ClassMap) Levels() []string {
	return append([]string(nil), m.levels...)
}

// Treatments returns the treatments carrying a class
func (m *ClassMap) Treatments() []string {
	out := make([]string, 0, len(m.byTreatment))
	for trt := range m.byTreatment {
		out = append(out, trt)
	}
	SortNatural(out)
	return out
}

// Relevel moves the class containing the reference treatment to the front of
// the class level order
func (m *ClassMap) Relevel(refTreatment string) error {
	cls, ok := m.byTreatment[refTreatment]
	if !ok {
		return validation.Structuralf(refTreatment,
			"reference treatment has no class; classed treatments are %s",
			validation.Candidates(m.Treatments()))
	}
	levels := make([]string, 0, len(m.levels))
	levels = append(levels, cls)
	for _, l := range m.levels {
		if l != cls {
			levels = append(levels, l)
		}
	}
	m.levels = levels
	return nil
}
