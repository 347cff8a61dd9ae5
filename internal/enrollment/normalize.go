package enrollment

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a course name into its lookup key: trimmed, lower-cased and
// stripped of combining marks. Applying it twice yields the same result.
func Normalize(s string) string {
	lowered := cases.Lower(language.Und).String(strings.TrimSpace(s))
	// transform.Chain keeps state, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.M)), norm.NFC)
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		return strings.TrimSpace(lowered)
	}
	return strings.TrimSpace(stripped)
}
