package word

import "errors"

var (
	ErrWordNotFound  = errors.New("word not found")
	ErrInvalidWord   = errors.New("invalid word")
	ErrInvalidStage  = errors.New("invalid stage")
	ErrDuplicateWord = errors.New("word already exists")
)
