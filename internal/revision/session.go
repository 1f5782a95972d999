package revision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/lexirev/internal/word"
)

// State is a snapshot of a Session.
type State struct {
	Selected bool
	Stage    word.Stage
	// Position is 1-based, and 0 when the stage has no word.
	Position int
	Total    int
	// Current is a copy of the word at Position, nil when the stage has no word.
	Current         *word.Word
	Outcome         Outcome
	RevealedLetters int
	// Hint is the blanked example with the revealed letters filled in.
	Hint          string
	CanRevealHint bool
}

// Empty reports whether the selected stage has no word.
func (s State) Empty() bool {
	return s.Total == 0
}

// Result describes a stored answer.
type Result struct {
	Correct   bool
	Expected  string
	NewStage  word.Stage
	LeftStage bool
}

// Listener is called with the new state after every operation that changed it.
type Listener func(State)

type Option func(*Session)

// WithClock sets the clock used for the last touched time of answered words.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithListener(listener Listener) Option {
	return func(s *Session) {
		s.listener = listener
	}
}

// Session revises the words of one stage at a time.
//
// The queue is a snapshot of the stage ordered by last touched time. It is reloaded after
// every answer, skip and deletion, and the position is adjusted so that it keeps pointing at
// the word that follows the one just handled.
type Session struct {
	id       string
	gateway  Gateway
	clock    func() time.Time
	logger   *slog.Logger
	listener Listener

	// writeMu serialises Update and Delete calls.
	writeMu sync.Mutex

	mu         sync.Mutex
	generation uint64
	cancelLoad context.CancelFunc
	selected   bool
	stage      word.Stage
	queue      []word.Word
	position   int
	outcome    Outcome
	leftStage  bool
	hint       *HintRevealer
}

// NewSession creates a Session with no stage selected.
func NewSession(gateway Gateway, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		gateway: gateway,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// SelectStage loads the queue of stage and shows its first word.
// An empty stage is not an error; State().Empty() reports it.
func (s *Session) SelectStage(ctx context.Context, stage word.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStage, stage)
	}

	words, gen, err := s.load(ctx, stage)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.selected = true
	s.stage = stage
	s.placeLocked(words, 1)
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Debug("stage selected", "stage", int(stage), "total", state.Total)
	s.notify(state)
	return nil
}

// Submit checks typed against the current word and stores the resulting stage and touch time.
// The session then waits on the outcome until Continue is called.
//
// Blank input is rejected with ErrBlankAnswer before anything is stored.
// When the store fails, the outcome becomes OutcomeError, the word keeps its previous stage
// and Submit can be called again.
func (s *Session) Submit(ctx context.Context, typed string) (Result, error) {
	if strings.TrimSpace(typed) == "" {
		return Result{}, ErrBlankAnswer
	}

	s.mu.Lock()
	current, err := s.currentLocked()
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	if s.outcome.Answered() {
		s.mu.Unlock()
		return Result{}, ErrAnswerPending
	}
	gen := s.generation
	stage := s.stage
	s.mu.Unlock()

	correct := IsCorrect(current.TargetWord, typed)
	next, left := NextStage(stage, correct)
	answered := current.Touch(next, s.clock())

	s.writeMu.Lock()
	err = s.gateway.Update(ctx, &answered)
	s.writeMu.Unlock()

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return Result{}, ErrSuperseded
	}
	if err != nil {
		s.outcome = OutcomeError
		state := s.stateLocked()
		s.mu.Unlock()
		s.logger.Warn("failed to store an answer", "word_id", current.ID, "error", err)
		s.notify(state)
		return Result{}, fmt.Errorf("%w: gateway.Update(%d) > %w", ErrPersistenceUnavailable, current.ID, err)
	}
	s.queue[s.position-1] = answered
	if correct {
		s.outcome = OutcomeCorrect
	} else {
		s.outcome = OutcomeIncorrect
	}
	s.leftStage = left
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Debug("answer stored",
		"word_id", answered.ID,
		"correct", correct,
		"from_stage", int(stage),
		"to_stage", int(next),
	)
	s.notify(state)
	return Result{
		Correct:   correct,
		Expected:  current.TargetWord,
		NewStage:  next,
		LeftStage: left,
	}, nil
}

// Continue moves on from an answered word.
//
// The queue is reloaded. If the answered word left the stage, the position is kept since the
// following word moved up into it; otherwise the answered word went to the back and the
// position advances by one. A position past the end restarts the stage at its first word.
func (s *Session) Continue(ctx context.Context) error {
	s.mu.Lock()
	if !s.selected {
		s.mu.Unlock()
		return ErrNoStageSelected
	}
	if !s.outcome.Answered() {
		s.mu.Unlock()
		return ErrNoPendingAnswer
	}
	stage := s.stage
	s.mu.Unlock()

	words, gen, err := s.load(ctx, stage)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	position := s.position
	if !s.leftStage {
		position++
	}
	s.placeLocked(words, wrap(position, len(words)))
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Debug("continued", "stage", int(stage), "position", state.Position, "total", state.Total)
	s.notify(state)
	return nil
}

// Skip moves to the next word without answering the current one.
// Nothing is stored; the position advances by one and restarts the stage past the end.
func (s *Session) Skip(ctx context.Context) error {
	s.mu.Lock()
	if _, err := s.currentLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.outcome.Answered() {
		s.mu.Unlock()
		return ErrAnswerPending
	}
	stage := s.stage
	s.mu.Unlock()

	words, gen, err := s.load(ctx, stage)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.placeLocked(words, wrap(s.position+1, len(words)))
	state := s.stateLocked()
	s.mu.Unlock()

	s.notify(state)
	return nil
}

// Delete removes the current word from the store, whatever its stage.
// The position is kept, or moved to the last word when the deleted word was the last one.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	current, err := s.currentLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	gen := s.generation
	stage := s.stage
	s.mu.Unlock()

	s.writeMu.Lock()
	err = s.gateway.Delete(ctx, &current)
	s.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: gateway.Delete(%d) > %w", ErrPersistenceUnavailable, current.ID, err)
	}
	s.logger.Info("word deleted", "word_id", current.ID, "target_word", current.TargetWord)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.mu.Unlock()

	words, gen, loadErr := s.load(ctx, stage)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if loadErr != nil {
		// The word is gone already, so the snapshot is corrected locally instead of
		// leaving a deleted word current.
		s.logger.Warn("failed to reload after deletion", "word_id", current.ID, "error", loadErr)
		words = withoutWord(s.queue, current.ID)
	}
	s.placeLocked(words, min(s.position, len(words)))
	state := s.stateLocked()
	s.mu.Unlock()

	s.notify(state)
	return nil
}

// Counts returns the number of words in every stage.
func (s *Session) Counts(ctx context.Context) (map[word.Stage]int, error) {
	counts, err := s.gateway.CountByStage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: gateway.CountByStage() > %w", ErrPersistenceUnavailable, err)
	}
	result := make(map[word.Stage]int, len(word.Stages()))
	for _, stage := range word.Stages() {
		result[stage] = counts[stage]
	}
	return result, nil
}

// RevealHint reveals one more letter of the current word and reports whether more remain.
func (s *Session) RevealHint() (bool, error) {
	s.mu.Lock()
	if _, err := s.currentLocked(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	more := s.hint.RevealNext()
	state := s.stateLocked()
	s.mu.Unlock()

	s.notify(state)
	return more, nil
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// load fetches the queue of stage under a new generation.
// A load still in flight is cancelled, and its result will be discarded by its caller.
func (s *Session) load(ctx context.Context, stage word.Stage) ([]word.Word, uint64, error) {
	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel
	s.mu.Unlock()
	defer cancel()

	words, err := s.gateway.FindByStage(ctx, stage)
	if err != nil {
		return nil, gen, fmt.Errorf("%w: gateway.FindByStage(%d) > %w", ErrPersistenceUnavailable, stage, err)
	}
	return words, gen, nil
}

// placeLocked replaces the queue and shows the word at position, which must be within
// [1, len(words)] unless words is empty.
func (s *Session) placeLocked(words []word.Word, position int) {
	s.queue = words
	s.outcome = OutcomeNone
	s.leftStage = false
	if len(words) == 0 {
		s.position = 0
		s.hint = nil
		return
	}
	s.position = position
	current := s.queue[s.position-1]
	s.hint = NewHintRevealer(current.TargetWord, current.BlankedExample)
}

func (s *Session) currentLocked() (word.Word, error) {
	if !s.selected {
		return word.Word{}, ErrNoStageSelected
	}
	if s.position == 0 {
		return word.Word{}, ErrEmptyQueue
	}
	return s.queue[s.position-1], nil
}

func (s *Session) stateLocked() State {
	state := State{
		Selected: s.selected,
		Stage:    s.stage,
		Position: s.position,
		Total:    len(s.queue),
		Outcome:  s.outcome,
	}
	if s.position > 0 {
		current := s.queue[s.position-1]
		state.Current = &current
	}
	if s.hint != nil {
		state.RevealedLetters = s.hint.Revealed()
		state.Hint = s.hint.Render()
		state.CanRevealHint = s.hint.CanReveal()
	}
	return state
}

func (s *Session) notify(state State) {
	if s.listener != nil {
		s.listener(state)
	}
}

// wrap restarts at the first word when position runs past total.
func wrap(position, total int) int {
	if position > total {
		return 1
	}
	return position
}

func withoutWord(words []word.Word, id int64) []word.Word {
	result := make([]word.Word, 0, len(words))
	for _, w := range words {
		if w.ID != id {
			result = append(result, w)
		}
	}
	return result
}
