package revision

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsCorrect reports whether typed matches expected.
// Surrounding whitespace is ignored and both sides are lower-cased before an exact
// comparison; anything else, including inflected forms and case-folding equivalents such as
// ß and ss, is incorrect. Blank input never matches.
func IsCorrect(expected, typed string) bool {
	typed = strings.TrimSpace(typed)
	if typed == "" {
		return false
	}
	lower := cases.Lower(language.Und)
	return lower.String(strings.TrimSpace(expected)) == lower.String(typed)
}
