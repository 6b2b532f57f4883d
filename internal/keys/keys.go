package keys

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Fold produces a canonical comparison key for user-entered text.
// Behavior: trims, collapses inner whitespace to one space and applies
// Unicode case folding, so "  Ößwald " and "össwald" compare equal.
func Fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// MatchesAny reports whether the folded query is contained in any of the
// candidate fields. Empty candidates are skipped.
func MatchesAny(query string, candidates ...string) bool {
	q := Fold(query)
	if q == "" {
		return false
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if strings.Contains(Fold(c), q) {
			return true
		}
	}
	return false
}

// Battle is the key used for battle-scoped channels and caches
// (e.g. "battle:12").
func Battle(id uint) string {
	return "battle:" + strconv.FormatUint(uint64(id), 10)
}
