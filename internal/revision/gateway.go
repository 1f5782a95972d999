package revision

import (
	"context"

	"github.com/at-ishikawa/lexirev/internal/word"
)

//go:generate mockgen -source=gateway.go -destination=../mocks/revision/mock_gateway.go -package=mock_revision

// Gateway is the storage a Session reads its queues from and writes answers to.
// word.DBWordRepository implements it.
type Gateway interface {
	// FindByStage returns the words in stage, least recently touched first.
	FindByStage(ctx context.Context, stage word.Stage) ([]word.Word, error)
	CountByStage(ctx context.Context) (map[word.Stage]int, error)
	Update(ctx context.Context, w *word.Word) error
	Delete(ctx context.Context, w *word.Word) error
}
