// Package coding converts raw study and treatment labels into canonical,
// naturally-sorted categorical codes. It is the single relevel point shared by
// the network builders and the merger: levels are distinct labels in natural
// sort order, and the reference level (when chosen) is moved to the front with
// the remainder keeping natural order.
package coding

import (
	"github.com/evidnet/nmanet/pkg/validation"
)

// Categorical is an ordered level set plus a per-row code into it.
// A freshly built Categorical carries a "default reference" flag meaning the
// first level was placed by natural sort, not by caller choice; later merge
// steps may override such a reference, but never an explicitly releveled one.
type Categorical struct {
	levels     []string
	codes      []int
	defaultRef bool
}

// New builds a categorical from per-row labels. Levels are the distinct
// labels in natural sort order.
func New(labels []string) *Categorical {
	index := make(map[string]int, len(labels))
	var levels []string
	for _, l := range labels {
		if _, seen := index[l]; !seen {
			index[l] = 0
			levels = append(levels, l)
		}
	}
	SortNatural(levels)
	for i, l := range levels {
		index[l] = i
	}

	codes := make([]int, len(labels))
	for i, l := range labels {
		codes[i] = index[l]
	}
	return &Categorical{levels: levels, codes: codes, defaultRef: true}
}

// Levels returns the ordered level set
func (c *Categorical) Levels() []string {
	return append([]string(nil), c.levels...)
}

// Len returns the number of rows
func (c *Categorical) Len() int { return len(c.codes) }

// Code returns the level index of row i
func (c *Categorical) Code(i int) int { return c.codes[i] }

// Label returns the label of row i
func (c *Categorical) Label(i int) string { return c.levels[c.codes[i]] }

// Index returns the position of a level in the level order
func (c *Categorical) Index(level string) (int, bool) {
	for i, l := range c.levels {
		if l == level {
			return i, true
		}
	}
	return 0, false
}

// DefaultRef reports whether the first level is a natural-sort default rather
// than an explicit caller choice
func (c *Categorical) DefaultRef() bool { return c.defaultRef }

// Relevel moves ref to the front of the level order, keeping natural sort
// order among the remaining levels, and clears the default-reference flag.
// ref must be an observed level.
func (c *Categorical) Relevel(ref string) error {
	if err := c.relevel(ref); err != nil {
		return err
	}
	c.defaultRef = false
	return nil
}

// RelevelDefault moves ref to the front like Relevel but keeps the
// default-reference flag set: the reference was derived, not caller-chosen,
// so a later merge may still override it.
func (c *Categorical) RelevelDefault(ref string) error {
	return c.relevel(ref)
}

func (c *Categorical) relevel(ref string) error {
	pos, ok := c.Index(ref)
	if !ok {
		return validation.Structuralf(ref,
			"reference treatment not found; suitable values are %s", validation.Candidates(c.levels))
	}
	if pos == 0 {
		return nil
	}

	old := c.levels
	levels := make([]string, 0, len(old))
	levels = append(levels, ref)
	for _, l := range old {
		if l != ref {
			levels = append(levels, l)
		}
	}

	// Remap codes from old positions to new ones
	remap := make([]int, len(old))
	for newIdx, l := range levels {
		oldIdx, _ := c.Index(l)
		remap[oldIdx] = newIdx
	}
	for i, code := range c.codes {
		c.codes[i] = remap[code]
	}
	c.levels = levels
	return nil
}
