package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/lexirev/internal/dictionary"
	"github.com/at-ishikawa/lexirev/internal/word"
)

// AddWordInput is what the user typed for a new word. Empty fields are drafted from the dictionary.
type AddWordInput struct {
	TargetWord      string
	Translation     string
	PartOfSpeech    string
	ExampleSentence string
}

func (in AddWordInput) complete() bool {
	return in.Translation != "" && in.PartOfSpeech != "" && in.ExampleSentence != ""
}

// WordAdder stores new words at stage 0.
type WordAdder struct {
	repository   word.WordRepository
	dictionary   dictionary.Dictionary
	clock        func() time.Time
	stdoutWriter io.Writer
}

// NewWordAdder creates a WordAdder. dict may be nil to skip dictionary lookups.
func NewWordAdder(repository word.WordRepository, dict dictionary.Dictionary, stdoutWriter io.Writer) *WordAdder {
	return &WordAdder{
		repository: repository,
		dictionary: dict,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		stdoutWriter: stdoutWriter,
	}
}

// Add validates the target word, fills in missing fields from the dictionary and creates the word.
func (a *WordAdder) Add(ctx context.Context, in AddWordInput) (*word.Word, error) {
	in.TargetWord = strings.TrimSpace(in.TargetWord)
	if err := word.ValidateTargetWord(in.TargetWord); err != nil {
		return nil, err
	}

	existing, err := a.repository.FindByTargetWord(ctx, in.TargetWord)
	if err != nil {
		return nil, fmt.Errorf("repository.FindByTargetWord(%s) > %w", in.TargetWord, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q is in %s", word.ErrDuplicateWord, existing.TargetWord, existing.Stage)
	}

	if a.dictionary != nil && !in.complete() {
		in, err = a.draft(ctx, in)
		if err != nil {
			return nil, err
		}
	}

	w, err := word.New(in.TargetWord, in.Translation, in.PartOfSpeech, in.ExampleSentence, a.clock())
	if err != nil {
		return nil, err
	}
	if err := a.repository.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("repository.Create(%s) > %w", w.TargetWord, err)
	}

	if _, err := fmt.Fprintf(a.stdoutWriter, "Added %q (id %d) to %s\n", w.TargetWord, w.ID, w.Stage); err != nil {
		return w, fmt.Errorf("fmt.Fprintf > %w", err)
	}
	if w.BlankedExample == word.FallbackExample {
		slog.Default().Warn("the example does not contain the word, a generic sentence is used for hints",
			"target_word", w.TargetWord,
		)
	}
	return w, nil
}

func (a *WordAdder) draft(ctx context.Context, in AddWordInput) (AddWordInput, error) {
	entry, err := a.dictionary.Lookup(ctx, in.TargetWord)
	if errors.Is(err, dictionary.ErrNotFound) {
		slog.Default().Info("no dictionary entry", "target_word", in.TargetWord)
		return in, nil
	}
	if err != nil {
		if in.Translation != "" {
			slog.Default().Warn("dictionary lookup failed, adding the word as typed",
				"target_word", in.TargetWord,
				"error", err,
			)
			return in, nil
		}
		return in, fmt.Errorf("dictionary.Lookup(%s) > %w", in.TargetWord, err)
	}

	d := entry.Draft(in.TargetWord)
	if in.Translation == "" {
		in.Translation = d.Definition
	}
	if in.PartOfSpeech == "" {
		in.PartOfSpeech = d.PartOfSpeech
	}
	if in.ExampleSentence == "" {
		in.ExampleSentence = d.Example
	}
	return in, nil
}
