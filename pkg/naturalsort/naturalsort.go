// Package naturalsort compares strings the way humans read numbered labels:
// digit runs are compared by numeric value, so "Game 2" sorts before
// "Game 10". Letter comparison is case-insensitive.
package naturalsort

import (
	"strings"
	"unicode"
)

// Compare returns -1, 0 or 1 ordering a relative to b.
func Compare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	ia, ib := 0, 0

	for ia < len(ra) && ib < len(rb) {
		ca, cb := ra[ia], rb[ib]

		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			na, nextA := digitRun(ra, ia)
			nb, nextB := digitRun(rb, ib)
			if cmp := compareNumeric(na, nb); cmp != 0 {
				return cmp
			}
			ia, ib = nextA, nextB
			continue
		}

		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		ia++
		ib++
	}

	switch {
	case ia < len(ra):
		return 1
	case ib < len(rb):
		return -1
	default:
		return 0
	}
}

// Less reports whether a orders before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// digitRun extracts the contiguous digit run starting at pos and the index
// just past it.
func digitRun(runes []rune, pos int) (string, int) {
	start := pos
	for pos < len(runes) && unicode.IsDigit(runes[pos]) {
		pos++
	}
	return string(runes[start:pos]), pos
}

// compareNumeric compares two digit runs by value without parsing into an
// integer type, so arbitrarily long serials do not overflow.
func compareNumeric(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")

	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if cmp := strings.Compare(ta, tb); cmp != 0 {
		return cmp
	}
	// Equal values: more leading zeros sorts first, keeping the order total.
	if len(a) != len(b) {
		if len(a) > len(b) {
			return -1
		}
		return 1
	}
	return 0
}
