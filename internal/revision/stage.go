// Package revision implements the revision session: the stage cycle a word moves through,
// answer checking, progressive hints and the per-stage queue with its position bookkeeping.
package revision

import "github.com/at-ishikawa/lexirev/internal/word"

// NextStage returns the stage a word moves to after an answer, and whether the move takes
// it out of the queue of current.
//
// A correct answer promotes the word by one stage until it reaches word.StageMastered, where
// it stays. An incorrect answer never demotes. Stages outside the valid range are returned
// unchanged.
func NextStage(current word.Stage, correct bool) (next word.Stage, leftStage bool) {
	if !current.Valid() || !correct || current.Mastered() {
		return current, false
	}
	return current + 1, true
}
