// Package word provides the word record model, its stages, and the repository used to persist it.
package word

import (
	"fmt"
	"strings"
	"time"
)

// Stage is the ordinal revision bucket a word belongs to.
type Stage int

const (
	StageNew      Stage = 0
	StageMastered Stage = 5
)

// Stages lists every stage in ascending order.
func Stages() []Stage {
	stages := make([]Stage, 0, int(StageMastered)+1)
	for s := StageNew; s <= StageMastered; s++ {
		stages = append(stages, s)
	}
	return stages
}

// Valid reports whether s is within [StageNew, StageMastered].
func (s Stage) Valid() bool {
	return s >= StageNew && s <= StageMastered
}

// Mastered reports whether s is the terminal stage.
func (s Stage) Mastered() bool {
	return s == StageMastered
}

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "stage 0 (new)"
	case StageMastered:
		return "stage 5 (mastered)"
	default:
		return fmt.Sprintf("stage %d", int(s))
	}
}

// ParseStage converts a user supplied stage number.
func ParseStage(value int) (Stage, error) {
	s := Stage(value)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d is not between %d and %d", ErrInvalidStage, value, StageNew, StageMastered)
	}
	return s, nil
}

// Word is a saved vocabulary entry being revised.
type Word struct {
	ID              int64     `db:"id" yaml:"id"`
	TargetWord      string    `db:"target_word" yaml:"target_word" validate:"required,wordchars"`
	Translation     string    `db:"translation" yaml:"translation" validate:"required"`
	PartOfSpeech    string    `db:"part_of_speech" yaml:"part_of_speech"`
	ExampleSentence string    `db:"example_sentence" yaml:"example_sentence"`
	BlankedExample  string    `db:"blanked_example" yaml:"blanked_example"`
	Stage           Stage     `db:"stage" yaml:"stage" validate:"min=0,max=5"`
	CreatedAt       time.Time `db:"created_at" yaml:"created_at"`
	LastTouchedAt   time.Time `db:"last_touched_at" yaml:"last_touched_at"`
}

// New builds a stage 0 word ready to be stored.
// The blanked example is derived from the example sentence.
func New(targetWord, translation, partOfSpeech, exampleSentence string, now time.Time) (*Word, error) {
	w := &Word{
		TargetWord:      strings.TrimSpace(targetWord),
		Translation:     strings.TrimSpace(translation),
		PartOfSpeech:    strings.TrimSpace(partOfSpeech),
		ExampleSentence: strings.TrimSpace(exampleSentence),
		Stage:           StageNew,
		CreatedAt:       now,
		LastTouchedAt:   now,
	}
	w.BlankedExample = BlankExample(w.TargetWord, w.ExampleSentence)
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Touch returns a copy of w moved to stage and touched at now.
// now is clamped to CreatedAt so that LastTouchedAt never precedes it.
func (w Word) Touch(stage Stage, now time.Time) Word {
	if now.Before(w.CreatedAt) {
		now = w.CreatedAt
	}
	w.Stage = stage
	w.LastTouchedAt = now
	return w
}

// Validate checks the invariants every stored word has to satisfy.
func (w *Word) Validate() error {
	if err := validateStruct(w); err != nil {
		return err
	}
	if w.LastTouchedAt.Before(w.CreatedAt) {
		return fmt.Errorf("%w: last touched at %s is before created at %s", ErrInvalidWord, w.LastTouchedAt, w.CreatedAt)
	}
	if !strings.Contains(w.BlankedExample, BlankMarker) {
		return fmt.Errorf("%w: blanked example %q has no blank", ErrInvalidWord, w.BlankedExample)
	}
	return nil
}
