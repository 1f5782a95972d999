package word

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/word/mock_repository.go -package=mock_word

// WordRepository defines operations for managing words.
type WordRepository interface {
	FindAll(ctx context.Context) ([]Word, error)
	FindByID(ctx context.Context, id int64) (*Word, error)
	FindByTargetWord(ctx context.Context, targetWord string) (*Word, error)
	// FindByStage returns the words in stage, least recently touched first.
	FindByStage(ctx context.Context, stage Stage) ([]Word, error)
	// CountByStage returns the number of words per stage. Every stage is present.
	CountByStage(ctx context.Context) (map[Stage]int, error)
	Create(ctx context.Context, w *Word) error
	Update(ctx context.Context, w *Word) error
	Delete(ctx context.Context, w *Word) error
}

// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBExecutor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// DBWordRepository implements WordRepository on MySQL, SQLite or PostgreSQL.
type DBWordRepository struct {
	db DBExecutor
}

// NewDBWordRepository creates a new DBWordRepository.
func NewDBWordRepository(db DBExecutor) *DBWordRepository {
	return &DBWordRepository{db: db}
}

const wordColumns = "id, target_word, translation, part_of_speech, example_sentence, blanked_example, stage, created_at, last_touched_at"

// FindAll returns all words ordered by id.
func (r *DBWordRepository) FindAll(ctx context.Context) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words, "SELECT "+wordColumns+" FROM words ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(words) > %w", err)
	}
	return words, nil
}

// FindByID returns the word with id, or nil if not found.
func (r *DBWordRepository) FindByID(ctx context.Context, id int64) (*Word, error) {
	var w Word
	err := r.db.GetContext(ctx, &w, r.db.Rebind("SELECT "+wordColumns+" FROM words WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word by id) > %w", err)
	}
	return &w, nil
}

// FindByTargetWord returns the word matching targetWord case-insensitively, or nil if not found.
func (r *DBWordRepository) FindByTargetWord(ctx context.Context, targetWord string) (*Word, error) {
	var w Word
	err := r.db.GetContext(ctx, &w,
		r.db.Rebind("SELECT "+wordColumns+" FROM words WHERE LOWER(target_word) = LOWER(?) ORDER BY id LIMIT 1"),
		targetWord)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word by target_word) > %w", err)
	}
	return &w, nil
}

// FindByStage returns the words in stage ordered by last_touched_at, then id.
func (r *DBWordRepository) FindByStage(ctx context.Context, stage Stage) ([]Word, error) {
	words := []Word{}
	if err := r.db.SelectContext(ctx, &words,
		r.db.Rebind("SELECT "+wordColumns+" FROM words WHERE stage = ? ORDER BY last_touched_at, id"),
		stage); err != nil {
		return nil, fmt.Errorf("db.SelectContext(words by stage) > %w", err)
	}
	return words, nil
}

type stageCount struct {
	Stage Stage `db:"stage"`
	Count int   `db:"count"`
}

// CountByStage returns the number of words in each stage.
func (r *DBWordRepository) CountByStage(ctx context.Context) (map[Stage]int, error) {
	var rows []stageCount
	if err := r.db.SelectContext(ctx, &rows, "SELECT stage, COUNT(*) AS count FROM words GROUP BY stage"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(word counts) > %w", err)
	}
	counts := make(map[Stage]int, len(Stages()))
	for _, s := range Stages() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Stage] = row.Count
	}
	return counts, nil
}

// Create inserts a new word and sets its ID.
func (r *DBWordRepository) Create(ctx context.Context, w *Word) error {
	const query = `INSERT INTO words (target_word, translation, part_of_speech, example_sentence, blanked_example, stage, created_at, last_touched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		w.TargetWord, w.Translation, w.PartOfSpeech, w.ExampleSentence,
		w.BlankedExample, w.Stage, w.CreatedAt, w.LastTouchedAt,
	}

	if r.db.DriverName() == "postgres" {
		var id int64
		if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return fmt.Errorf("db.QueryRowxContext(insert word) > %w", err)
		}
		w.ID = id
		return nil
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert word) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	w.ID = id
	return nil
}

// Update stores the stage and last touched time of w.
// Word content is immutable once created.
func (r *DBWordRepository) Update(ctx context.Context, w *Word) error {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE words SET stage = ?, last_touched_at = ? WHERE id = ?"),
		w.Stage, w.LastTouchedAt, w.ID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update word) > %w", err)
	}
	return checkAffected(result, w.ID)
}

// Delete removes word regardless of its stage.
func (r *DBWordRepository) Delete(ctx context.Context, w *Word) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM words WHERE id = ?"), w.ID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete word) > %w", err)
	}
	return checkAffected(result, w.ID)
}

func checkAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrWordNotFound, id)
	}
	return nil
}
