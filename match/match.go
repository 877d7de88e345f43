// Package match resolves a geocoded place name to a known district. The
// matching is a normalized substring/equality heuristic, not a
// distance-metric algorithm: district names are bilingual composites like
// "पुणे (Pune)" and the parenthetical English short form is what a
// geocoder's output usually contains.
package match

import (
	"strings"

	"github.com/aanchallguptaa/mgnrega-tracker/models"
)

// Normalize lowercases s and strips every character that is not an ASCII
// letter or digit. Devanagari script is removed entirely, leaving only the
// English portion of a bilingual name. Idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// Parenthetical returns the normalized content of the first parenthesized
// group in a bilingual district name, or "" when the name has none.
func Parenthetical(name string) string {
	open := strings.Index(name, "(")
	if open < 0 {
		return ""
	}
	end := strings.Index(name[open:], ")")
	if end < 0 {
		return ""
	}
	return Normalize(name[open+1 : open+end])
}

// District finds the first district whose name matches the candidate place
// name. A district matches when its non-empty parenthetical form is a
// substring of the normalized candidate, or when the normalized candidate
// exactly equals the normalized full name. First hit wins in the given
// order; short parenthetical forms can substring-match unrelated longer
// names, so callers surface the raw candidate for manual fallback on a miss.
func District(candidate string, districts []models.District) (models.District, bool) {
	norm := Normalize(candidate)
	if norm == "" {
		return models.District{}, false
	}
	for _, d := range districts {
		paren := Parenthetical(d.DistrictName)
		if paren != "" && strings.Contains(norm, paren) {
			return d, true
		}
		if norm == Normalize(d.DistrictName) {
			return d, true
		}
	}
	return models.District{}, false
}
