package coding

import (
	"sort"
)

// NaturalLess compares two labels numeric-aware: runs of digits compare by
// value, so "T2" sorts before "T10". Non-digit runs compare byte-wise.
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		da, db := isDigit(ca), isDigit(cb)

		switch {
		case da && db:
			// Compare whole digit runs by numeric value
			ia, na := digitRun(a, i)
			ib, nb := digitRun(b, j)
			if na != nb {
				return naturalDigitLess(na, nb)
			}
			i, j = ia, ib
		case da != db:
			// Digits sort before non-digits
			return da
		default:
			if ca != cb {
				return ca < cb
			}
			i++
			j++
		}
	}
	return len(a)-i < len(b)-j
}

// SortNatural sorts labels in place in natural order
func SortNatural(labels []string) {
	sort.Slice(labels, func(i, j int) bool { return NaturalLess(labels[i], labels[j]) })
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digitRun returns the index past the run of digits starting at i, and the
// run itself with leading zeros trimmed
func digitRun(s string, i int) (int, string) {
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	run := s[start:i]
	for len(run) > 1 && run[0] == '0' {
		run = run[1:]
	}
	return i, run
}

// naturalDigitLess compares two zero-trimmed digit runs by numeric value
func naturalDigitLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
