package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/at-ishikawa/lexirev/internal/revision"
	"github.com/at-ishikawa/lexirev/internal/word"
)

const (
	commandHint   = ":hint"
	commandSkip   = ":skip"
	commandDelete = ":delete"
	commandStage  = ":stage"
	commandQuit   = ":quit"
)

// ReviseCLI drives a revision.Session from the terminal.
type ReviseCLI struct {
	*InteractiveCLI
	session      *revision.Session
	defaultStage word.Stage
}

// NewReviseCLI creates a ReviseCLI reading from stdin and writing to stdout.
// defaultStage is selected when the stage prompt is answered with an empty line.
func NewReviseCLI(session *revision.Session, defaultStage word.Stage) *ReviseCLI {
	return newReviseCLI(session, defaultStage, newStdInteractiveCLI())
}

func newReviseCLI(session *revision.Session, defaultStage word.Stage, base *InteractiveCLI) *ReviseCLI {
	return &ReviseCLI{
		InteractiveCLI: base,
		session:        session,
		defaultStage:   defaultStage,
	}
}

// Start selects stage before the first prompt.
func (r *ReviseCLI) Start(ctx context.Context, stage word.Stage) error {
	return r.handle(r.session.SelectStage(ctx, stage))
}

func (r *ReviseCLI) Step(ctx context.Context) error {
	state := r.session.State()
	switch {
	case !state.Selected:
		return r.selectStage(ctx)
	case state.Outcome.Answered():
		return r.waitForContinue(ctx)
	case state.Empty():
		return r.emptyStage(ctx, state)
	}
	return r.ask(ctx, state)
}

func (r *ReviseCLI) selectStage(ctx context.Context) error {
	if err := r.printCounts(ctx); err != nil {
		return err
	}
	r.printf("Choose a stage (%d-%d, Enter for %d) or %s: ", word.StageNew, word.StageMastered, r.defaultStage, commandQuit)

	input, err := r.readLine()
	if err != nil {
		return err
	}
	input = strings.TrimSpace(input)
	if input == commandQuit {
		return errEnd
	}
	stage := r.defaultStage
	if input != "" {
		stage, err = parseStage(input)
		if err != nil {
			r.println(err)
			return nil
		}
	}
	return r.handle(r.session.SelectStage(ctx, stage))
}

func (r *ReviseCLI) emptyStage(ctx context.Context, state revision.State) error {
	r.printf("No words in %s. Type %s N to choose another stage or %s: ", state.Stage, commandStage, commandQuit)
	input, err := r.readLine()
	if err != nil {
		return err
	}
	input = strings.TrimSpace(input)
	if input == commandQuit {
		return errEnd
	}
	if stage, ok, err := parseStageCommand(input); ok {
		if err != nil {
			r.println(err)
			return nil
		}
		return r.handle(r.session.SelectStage(ctx, stage))
	}
	return r.printCounts(ctx)
}

func (r *ReviseCLI) ask(ctx context.Context, state revision.State) error {
	current := state.Current
	r.println()
	_, _ = r.faint.Fprintf(r.stdoutWriter, "%s, word %d of %d\n", state.Stage, state.Position, state.Total)
	_, _ = r.bold.Fprintf(r.stdoutWriter, "%s", current.Translation)
	if current.PartOfSpeech != "" {
		_, _ = r.italic.Fprintf(r.stdoutWriter, " (%s)", current.PartOfSpeech)
	}
	r.println()
	r.printf("  %s\n", state.Hint)
	r.printf("Answer (%s, %s, %s, %s N, %s): ", commandHint, commandSkip, commandDelete, commandStage, commandQuit)

	input, err := r.readLine()
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(input)

	if stage, ok, err := parseStageCommand(trimmed); ok {
		if err != nil {
			r.println(err)
			return nil
		}
		return r.handle(r.session.SelectStage(ctx, stage))
	}

	switch trimmed {
	case commandQuit:
		return errEnd
	case commandHint:
		more, err := r.session.RevealHint()
		if err != nil {
			return r.handle(err)
		}
		if !more {
			r.println("Every letter is revealed.")
		}
		return nil
	case commandSkip:
		return r.handle(r.session.Skip(ctx))
	case commandDelete:
		if err := r.session.Delete(ctx); err != nil {
			return r.handle(err)
		}
		r.printf("Deleted %q.\n", current.TargetWord)
		return nil
	}

	result, err := r.session.Submit(ctx, input)
	if err != nil {
		if errors.Is(err, revision.ErrBlankAnswer) {
			r.printf("Type the word, or %s for a letter.\n", commandHint)
			return nil
		}
		return r.handle(err)
	}
	r.printResult(result, current)
	return nil
}

func (r *ReviseCLI) printResult(result revision.Result, current *word.Word) {
	if result.Correct {
		r.printf("✅ ")
		if result.LeftStage {
			_, _ = r.green.Fprintf(r.stdoutWriter, "Correct. %q moves to %s.", result.Expected, result.NewStage)
		} else {
			_, _ = r.green.Fprintf(r.stdoutWriter, "Correct. %q stays in %s.", result.Expected, result.NewStage)
		}
	} else {
		r.printf("❌ ")
		_, _ = r.red.Fprintf(r.stdoutWriter, "Wrong. The answer is %q.", result.Expected)
	}
	r.println()
	if current.ExampleSentence != "" {
		r.printf("   %s\n", current.ExampleSentence)
	}
}

func (r *ReviseCLI) waitForContinue(ctx context.Context) error {
	r.printf("Press Enter to continue or %s: ", commandQuit)
	input, err := r.readLine()
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == commandQuit {
		return errEnd
	}
	return r.handle(r.session.Continue(ctx))
}

func (r *ReviseCLI) printCounts(ctx context.Context) error {
	counts, err := r.session.Counts(ctx)
	if err != nil {
		return r.handle(err)
	}
	labels := make([]string, 0, len(counts))
	for _, stage := range word.Stages() {
		labels = append(labels, fmt.Sprintf("%d: %d", stage, counts[stage]))
	}
	_, _ = r.bold.Fprint(r.stdoutWriter, "Words per stage ")
	r.println(strings.Join(labels, " | "))
	return nil
}

// handle reports the errors a user can recover from and returns the rest.
func (r *ReviseCLI) handle(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errEnd):
		return err
	case errors.Is(err, revision.ErrPersistenceUnavailable):
		_, _ = r.red.Fprintf(r.stdoutWriter, "The word store is unavailable, try again: %v\n", err)
		return nil
	case errors.Is(err, revision.ErrSuperseded),
		errors.Is(err, revision.ErrEmptyQueue),
		errors.Is(err, revision.ErrNoStageSelected),
		errors.Is(err, revision.ErrAnswerPending),
		errors.Is(err, revision.ErrNoPendingAnswer),
		errors.Is(err, revision.ErrInvalidStage):
		r.println(err)
		return nil
	}
	return err
}

// parseStageCommand parses ":stage N". ok is false when input is not a stage command.
func parseStageCommand(input string) (stage word.Stage, ok bool, err error) {
	fields := strings.Fields(input)
	if len(fields) == 0 || fields[0] != commandStage {
		return 0, false, nil
	}
	if len(fields) != 2 {
		return 0, true, fmt.Errorf("usage: %s N", commandStage)
	}
	stage, err = parseStage(fields[1])
	return stage, true, err
}

func parseStage(input string) (word.Stage, error) {
	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", word.ErrInvalidStage, input)
	}
	return word.ParseStage(value)
}

var _ Step = (*ReviseCLI)(nil)
