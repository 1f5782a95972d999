// Package datasync exports word records to YAML and imports them back into the database.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/lexirev/internal/database"
	"github.com/at-ishikawa/lexirev/internal/word"
)

// FormatVersion is the version of the export file layout.
const FormatVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported export file version")

// File is the document written by Export and read by Import.
type File struct {
	Version    int       `yaml:"version"`
	ExportedAt time.Time `yaml:"exported_at"`
	Words      []Record  `yaml:"words"`
}

// Record is a word as it appears in an export file. The blanked example is derived on import.
type Record struct {
	TargetWord      string     `yaml:"target_word"`
	Translation     string     `yaml:"translation"`
	PartOfSpeech    string     `yaml:"part_of_speech,omitempty"`
	ExampleSentence string     `yaml:"example_sentence,omitempty"`
	Stage           word.Stage `yaml:"stage"`
	CreatedAt       time.Time  `yaml:"created_at"`
	LastTouchedAt   time.Time  `yaml:"last_touched_at"`
}

func toRecord(w word.Word, _ int) Record {
	return Record{
		TargetWord:      w.TargetWord,
		Translation:     w.Translation,
		PartOfSpeech:    w.PartOfSpeech,
		ExampleSentence: w.ExampleSentence,
		Stage:           w.Stage,
		CreatedAt:       w.CreatedAt,
		LastTouchedAt:   w.LastTouchedAt,
	}
}

// Exporter writes every word record as YAML.
type Exporter struct {
	repository word.WordRepository
	clock      func() time.Time
}

func NewExporter(repository word.WordRepository) *Exporter {
	return &Exporter{
		repository: repository,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Export writes all words to w, ordered by stage and then least recently touched first.
// It returns the number of exported words.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	words, err := e.repository.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository.FindAll() > %w", err)
	}
	slices.SortStableFunc(words, func(a, b word.Word) int {
		if a.Stage != b.Stage {
			return int(a.Stage) - int(b.Stage)
		}
		if c := a.LastTouchedAt.Compare(b.LastTouchedAt); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})

	file := File{
		Version:    FormatVersion,
		ExportedAt: e.clock(),
		Words:      lo.Map(words, toRecord),
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return 0, fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return 0, fmt.Errorf("encoder.Close() > %w", err)
	}
	return len(words), nil
}

// ImportResult tracks counts for each kind of change.
type ImportResult struct {
	New     int
	Skipped int
	Updated int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// UpdateExisting overwrites words that already exist instead of skipping them.
	UpdateExisting bool
}

// Importer reads an export file and writes its words through a repository.
type Importer struct {
	repository word.WordRepository
	writer     io.Writer
	clock      func() time.Time
}

// NewImporter creates an Importer reporting every record to writer.
func NewImporter(repository word.WordRepository, writer io.Writer) *Importer {
	return &Importer{
		repository: repository,
		writer:     writer,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Import reads a File from r. Words are matched by target word; the first record wins when a
// file repeats one. Any invalid record aborts the import.
func (imp *Importer) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &ImportResult{}, nil
		}
		return nil, fmt.Errorf("decoder.Decode() > %w", err)
	}
	if file.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}

	var result ImportResult
	seen := make(map[string]struct{}, len(file.Words))
	for i, record := range file.Words {
		key := strings.ToLower(strings.TrimSpace(record.TargetWord))
		if _, ok := seen[key]; ok {
			imp.printf("  [SKIP]  %q (repeated in the file)\n", record.TargetWord)
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}

		if err := imp.importRecord(ctx, record, opts, &result); err != nil {
			return nil, fmt.Errorf("words[%d] > %w", i, err)
		}
	}
	return &result, nil
}

// ImportInTx imports r into db in a single transaction, so a failed record leaves db untouched.
func ImportInTx(ctx context.Context, db *sqlx.DB, r io.Reader, writer io.Writer, opts ImportOptions) (*ImportResult, error) {
	var result *ImportResult
	err := database.RunInTx(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		result, err = NewImporter(word.NewDBWordRepository(tx), writer).Import(ctx, r, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (imp *Importer) importRecord(ctx context.Context, record Record, opts ImportOptions, result *ImportResult) error {
	target := strings.TrimSpace(record.TargetWord)
	if err := word.ValidateTargetWord(target); err != nil {
		return err
	}

	existing, err := imp.repository.FindByTargetWord(ctx, target)
	if err != nil {
		return fmt.Errorf("repository.FindByTargetWord(%s) > %w", target, err)
	}

	if existing != nil {
		if !opts.UpdateExisting {
			imp.printf("  [SKIP]  %q\n", target)
			result.Skipped++
			return nil
		}
		updated := imp.fromRecord(record, existing.CreatedAt)
		updated.ID = existing.ID
		if err := updated.Validate(); err != nil {
			return err
		}
		if !opts.DryRun {
			if err := imp.repository.Update(ctx, &updated); err != nil {
				return fmt.Errorf("repository.Update(%d) > %w", updated.ID, err)
			}
		}
		imp.printf("  [UPDATE]  %q (%s)\n", target, updated.Stage)
		result.Updated++
		return nil
	}

	created := imp.fromRecord(record, record.CreatedAt)
	if err := created.Validate(); err != nil {
		return err
	}
	if !opts.DryRun {
		if err := imp.repository.Create(ctx, &created); err != nil {
			return fmt.Errorf("repository.Create(%s) > %w", target, err)
		}
	}
	imp.printf("  [NEW]  %q (%s)\n", target, created.Stage)
	result.New++
	return nil
}

// fromRecord builds a word created at createdAt. Missing times default to now, and a last
// touched time before createdAt is raised to it.
func (imp *Importer) fromRecord(record Record, createdAt time.Time) word.Word {
	if createdAt.IsZero() {
		createdAt = imp.clock()
	}
	w := word.Word{
		TargetWord:      strings.TrimSpace(record.TargetWord),
		Translation:     strings.TrimSpace(record.Translation),
		PartOfSpeech:    strings.TrimSpace(record.PartOfSpeech),
		ExampleSentence: strings.TrimSpace(record.ExampleSentence),
		Stage:           record.Stage,
		CreatedAt:       createdAt,
		LastTouchedAt:   record.LastTouchedAt,
	}
	if w.LastTouchedAt.Before(createdAt) {
		w.LastTouchedAt = createdAt
	}
	w.BlankedExample = word.BlankExample(w.TargetWord, w.ExampleSentence)
	return w
}

func (imp *Importer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(imp.writer, format, args...)
}
