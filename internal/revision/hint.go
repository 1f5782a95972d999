package revision

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/at-ishikawa/lexirev/internal/word"
)

// HintRevealer discloses the target word of a blanked example one letter at a time.
type HintRevealer struct {
	// letters holds each letter of the target word lower-cased on its own, so a letter whose
	// lower case spans several runes (İ) is still revealed in one step.
	letters  []string
	blanked  string
	revealed int
}

// NewHintRevealer creates a revealer with nothing revealed yet.
func NewHintRevealer(targetWord, blankedExample string) *HintRevealer {
	lower := cases.Lower(language.Und)
	target := []rune(strings.TrimSpace(targetWord))
	letters := make([]string, 0, len(target))
	for _, r := range target {
		letters = append(letters, lower.String(string(r)))
	}
	return &HintRevealer{
		letters: letters,
		blanked: blankedExample,
	}
}

// RevealNext reveals one more letter and reports whether more letters remain.
// Once the whole word is revealed it is a no-op returning false.
func (h *HintRevealer) RevealNext() bool {
	if h.revealed < len(h.letters) {
		h.revealed++
	}
	return h.CanReveal()
}

// CanReveal reports whether at least one letter is still hidden.
func (h *HintRevealer) CanReveal() bool {
	return h.revealed < len(h.letters)
}

// Revealed returns the number of letters revealed so far.
func (h *HintRevealer) Revealed() int {
	return h.revealed
}

// Reset hides every letter again.
func (h *HintRevealer) Reset() {
	h.revealed = 0
}

// Render returns the blanked example with the revealed prefix written into the first blank.
// A blank marker follows the prefix while letters remain hidden.
func (h *HintRevealer) Render() string {
	if h.revealed == 0 {
		return h.blanked
	}
	replacement := strings.Join(h.letters[:h.revealed], "")
	if h.CanReveal() {
		replacement += word.BlankMarker
	}
	return strings.Replace(h.blanked, word.BlankMarker, replacement, 1)
}
