// Package testutil provides shared test helpers for creating config files, databases and word fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/database"
	"github.com/at-ishikawa/lexirev/internal/word"
)

// BaseTime is the creation time of fixtures unless overridden.
var BaseTime = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// SetupTestConfig creates a config file backed by a SQLite database and the directories it refers to.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"dictionaries", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`database:
  driver: sqlite3
  path: %s
dictionaries:
  api: free_dictionary
  cache_directory: %s
  retry_attempts: 1
reports:
  output_directory: %s
`,
		filepath.Join(tmpDir, "lexirev.db"),
		filepath.Join(tmpDir, "dictionaries"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// OpenTestDB creates a migrated SQLite database in a temporary directory.
// The connection is closed when the test finishes.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: database.DriverSQLite3,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}
	_, err := database.Migrate(cfg)
	require.NoError(t, err)

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// WordOption configures optional fields when creating a word fixture.
type WordOption func(*word.Word)

// WithStage sets the stage of the word fixture.
func WithStage(stage word.Stage) WordOption {
	return func(w *word.Word) {
		w.Stage = stage
	}
}

// WithTouchedAt sets the last touched time of the word fixture.
func WithTouchedAt(touchedAt time.Time) WordOption {
	return func(w *word.Word) {
		w.LastTouchedAt = touchedAt
	}
}

// WithExample sets the example sentence, and the blanked example derived from it.
func WithExample(sentence string) WordOption {
	return func(w *word.Word) {
		w.ExampleSentence = sentence
		w.BlankedExample = word.BlankExample(w.TargetWord, sentence)
	}
}

// CreateWord stores a stage 0 word created at BaseTime, translated as "<target> (translation)".
func CreateWord(t *testing.T, repo word.WordRepository, targetWord string, opts ...WordOption) word.Word {
	t.Helper()

	w, err := word.New(targetWord, targetWord+" (translation)", "noun", "", BaseTime)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(w)
	}
	require.NoError(t, repo.Create(context.Background(), w))
	return *w
}

// CreateWords stores words in stage, touched one minute apart in the given order.
func CreateWords(t *testing.T, repo word.WordRepository, stage word.Stage, targetWords ...string) []word.Word {
	t.Helper()

	words := make([]word.Word, 0, len(targetWords))
	for i, target := range targetWords {
		words = append(words, CreateWord(t, repo, target,
			WithStage(stage),
			WithTouchedAt(BaseTime.Add(time.Duration(i+1)*time.Minute)),
		))
	}
	return words
}

// Clock returns a clock starting at start and advancing by one second on every call.
func Clock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}
