package revision

import (
	"errors"

	"github.com/at-ishikawa/lexirev/internal/word"
)

var (
	// ErrPersistenceUnavailable wraps every failure of the Gateway. The session is unchanged and
	// the operation can be retried.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrEmptyQueue is returned by operations that need a current word when the stage has none.
	ErrEmptyQueue      = errors.New("no word in the selected stage")
	ErrInvalidStage    = word.ErrInvalidStage
	ErrNoStageSelected = errors.New("no stage selected")
	ErrBlankAnswer     = errors.New("answer is blank")
	ErrAnswerPending   = errors.New("an answer is waiting to be continued")
	ErrNoPendingAnswer = errors.New("no answer to continue from")
	// ErrSuperseded is returned when a newer load replaced the result of this one.
	ErrSuperseded = errors.New("superseded by a newer request")
)
