package dictionary

import (
	"strings"

	"github.com/at-ishikawa/lexirev/internal/word"
)

// Draft is what a dictionary entry suggests for a new word record.
type Draft struct {
	PartOfSpeech string
	Definition   string
	Example      string
}

// Draft picks the sense whose example contains target, or one of its inflections.
// Without such a sense, the first sense with any example is used, then the first sense.
func (e Entry) Draft(target string) Draft {
	if len(e.Senses) == 0 {
		return Draft{}
	}

	var withExample *Draft
	for _, sense := range e.Senses {
		for _, example := range sense.Examples {
			example = strings.TrimSpace(example)
			if example == "" {
				continue
			}
			d := Draft{PartOfSpeech: sense.PartOfSpeech, Definition: sense.Definition, Example: example}
			if word.BlankExample(target, example) != word.FallbackExample {
				return d
			}
			if withExample == nil {
				withExample = &d
			}
		}
	}
	if withExample != nil {
		return *withExample
	}
	return Draft{PartOfSpeech: e.Senses[0].PartOfSpeech, Definition: e.Senses[0].Definition}
}
