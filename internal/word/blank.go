package word

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlankMarker stands in for the hidden target word in an example sentence.
const BlankMarker = "____"

// FallbackExample is used when the target word cannot be located in its example sentence.
const FallbackExample = "Can you recall the word " + BlankMarker + "?"

// BlankExample replaces the first occurrence of target in sentence with BlankMarker.
// When the word itself does not appear, the earliest common inflection is blanked instead.
// If nothing matches, FallbackExample is returned so the answer is never left visible.
func BlankExample(target, sentence string) string {
	target = strings.TrimSpace(target)
	if target == "" || strings.TrimSpace(sentence) == "" {
		return FallbackExample
	}

	if start, end, ok := findWord(sentence, target); ok {
		return sentence[:start] + BlankMarker + sentence[end:]
	}

	bestStart, bestEnd := -1, -1
	for _, form := range Inflections(target) {
		start, end, ok := findWord(sentence, form)
		if !ok {
			continue
		}
		if bestStart < 0 || start < bestStart || (start == bestStart && end > bestEnd) {
			bestStart, bestEnd = start, end
		}
	}
	if bestStart >= 0 {
		return sentence[:bestStart] + BlankMarker + sentence[bestEnd:]
	}
	return FallbackExample
}

// Inflections lists common English inflected forms of target, lower-cased.
func Inflections(target string) []string {
	lower := strings.ToLower(strings.TrimSpace(target))
	if lower == "" {
		return nil
	}

	forms := []string{
		lower + "s",
		lower + "es",
		lower + "ed",
		lower + "d",
		lower + "ing",
	}

	last, size := utf8.DecodeLastRuneInString(lower)
	stem := lower[:len(lower)-size]
	switch {
	case last == 'y' && stem != "" && !isVowel(lastRune(stem)):
		forms = append(forms, stem+"ies", stem+"ied")
	case last == 'e' && strings.HasSuffix(stem, "i"):
		forms = append(forms, strings.TrimSuffix(stem, "i")+"ying")
	case last == 'e' && stem != "":
		forms = append(forms, stem+"ing")
	case isConsonant(last) && stem != "" && isVowel(lastRune(stem)):
		forms = append(forms, lower+string(last)+"ed", lower+string(last)+"ing")
	}
	return forms
}

// findWord returns the byte range of the first case-insensitive occurrence of w in s
// that is not part of a longer word.
func findWord(s, w string) (int, int, bool) {
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(w))
	if err != nil {
		return 0, 0, false
	}
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if isBoundary(s, loc[0], loc[1]) {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

func isBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

func isConsonant(r rune) bool {
	return r >= 'a' && r <= 'z' && !isVowel(r) && r != 'w' && r != 'x' && r != 'y'
}
