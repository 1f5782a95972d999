package revision

// Outcome is the result of the last answer for the current word.
type Outcome int

const (
	// OutcomeNone means no answer was submitted for the current word.
	OutcomeNone Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
	// OutcomeError means the answer could not be stored. It can be submitted again.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// Answered reports whether an answer was stored and is waiting for Continue.
func (o Outcome) Answered() bool {
	return o == OutcomeCorrect || o == OutcomeIncorrect
}
