package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lexirev/internal/revision"
	"github.com/at-ishikawa/lexirev/internal/testutil"
	"github.com/at-ishikawa/lexirev/internal/word"
)

func TestReviseCLI_Run(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name         string
		input        string
		setup        func(t *testing.T, repo word.WordRepository)
		wantOutputs  []string
		wantNoOutput []string
		validate     func(t *testing.T, repo word.WordRepository)
	}{
		{
			name:  "correct answer promotes the word and the next one is shown",
			input: "\napple\n\n:quit\n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWords(t, repo, 0, "apple", "banana")
			},
			wantOutputs: []string{
				"Words per stage 0: 2 | 1: 0 | 2: 0 | 3: 0 | 4: 0 | 5: 0",
				"stage 0 (new), word 1 of 2",
				`Correct. "apple" moves to stage 1.`,
				"stage 0 (new), word 1 of 1",
				"banana (translation)",
			},
			validate: func(t *testing.T, repo word.WordRepository) {
				w, err := repo.FindByTargetWord(context.Background(), "apple")
				require.NoError(t, err)
				require.NotNil(t, w)
				assert.Equal(t, word.Stage(1), w.Stage)
			},
		},
		{
			name:  "wrong answer keeps the stage",
			input: "2\ncook\n\n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWords(t, repo, 2, "book", "cook")
			},
			wantOutputs: []string{
				"stage 2, word 1 of 2",
				`Wrong. The answer is "book".`,
				"stage 2, word 2 of 2",
			},
			validate: func(t *testing.T, repo word.WordRepository) {
				w, err := repo.FindByTargetWord(context.Background(), "book")
				require.NoError(t, err)
				require.NotNil(t, w)
				assert.Equal(t, word.Stage(2), w.Stage)
			},
		},
		{
			name:  "mastered word stays in the last stage",
			input: "5\nzeal\n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWords(t, repo, 5, "zeal")
			},
			wantOutputs: []string{
				`Correct. "zeal" stays in stage 5 (mastered).`,
			},
		},
		{
			name:  "hints reveal one letter at a time",
			input: "\n:hint\n:hint\n:hint\n:quit\n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWord(t, repo, "cat", testutil.WithExample("The cat sleeps."))
			},
			wantOutputs: []string{
				"  The ____ sleeps.",
				"  The c____ sleeps.",
				"  The ca____ sleeps.",
				"Every letter is revealed.",
				"  The cat sleeps.",
			},
		},
		{
			name:  "skip shows the next word without storing anything",
			input: "\n:skip\n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWords(t, repo, 0, "apple", "banana")
			},
			wantOutputs: []string{
				"stage 0 (new), word 1 of 2",
				"stage 0 (new), word 2 of 2",
			},
			validate: func(t *testing.T, repo word.WordRepository) {
				words, err := repo.FindByStage(context.Background(), 0)
				require.NoError(t, err)
				assert.Len(t, words, 2)
			},
		},
		{
			name:  "delete removes the current word",
			input: "\n:delete\n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWords(t, repo, 0, "apple", "banana")
			},
			wantOutputs: []string{
				`Deleted "apple".`,
				"stage 0 (new), word 1 of 1",
			},
			validate: func(t *testing.T, repo word.WordRepository) {
				w, err := repo.FindByTargetWord(context.Background(), "apple")
				require.NoError(t, err)
				assert.Nil(t, w)
			},
		},
		{
			name:  "switching to an empty stage and back",
			input: "\n:stage 3\n:stage 9\n:stage 0\n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWords(t, repo, 0, "apple")
			},
			wantOutputs: []string{
				"No words in stage 3.",
				"invalid stage: 9 is not between 0 and 5",
				"stage 0 (new), word 1 of 1",
			},
		},
		{
			name:  "blank answer is not submitted",
			input: "\n   \n",
			setup: func(t *testing.T, repo word.WordRepository) {
				testutil.CreateWords(t, repo, 0, "apple")
			},
			wantOutputs: []string{
				"Type the word, or :hint for a letter.",
			},
			wantNoOutput: []string{"Wrong."},
		},
		{
			name:         "quit from the stage prompt",
			input:        ":quit\n",
			wantOutputs:  []string{"Choose a stage (0-5, Enter for 0) or :quit: "},
			wantNoOutput: []string{"word 1 of"},
		},
		{
			name:        "invalid stage at the stage prompt",
			input:       "x\n",
			wantOutputs: []string{`invalid stage: "x" is not a number`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := word.NewDBWordRepository(testutil.OpenTestDB(t))
			if tt.setup != nil {
				tt.setup(t, repo)
			}
			session := revision.NewSession(repo, revision.WithClock(testutil.Clock(testutil.BaseTime.Add(time.Hour))))

			var stdout bytes.Buffer
			cli := newReviseCLI(session, word.StageNew, newInteractiveCLI(strings.NewReader(tt.input), &stdout))
			require.NoError(t, cli.Run(context.Background(), cli))

			output := stdout.String()
			for _, want := range tt.wantOutputs {
				assert.Contains(t, output, want)
			}
			for _, notWant := range tt.wantNoOutput {
				assert.NotContains(t, output, notWant)
			}
			if tt.validate != nil {
				tt.validate(t, repo)
			}
		})
	}
}

func TestReviseCLI_Start(t *testing.T) {
	color.NoColor = true
	repo := word.NewDBWordRepository(testutil.OpenTestDB(t))
	testutil.CreateWords(t, repo, 1, "apple")
	session := revision.NewSession(repo)

	var stdout bytes.Buffer
	cli := newReviseCLI(session, word.StageNew, newInteractiveCLI(strings.NewReader(""), &stdout))
	require.NoError(t, cli.Start(context.Background(), 1))
	assert.Equal(t, word.Stage(1), session.State().Stage)

	require.NoError(t, cli.Start(context.Background(), 7))
	assert.Contains(t, stdout.String(), "invalid stage")
	assert.Equal(t, word.Stage(1), session.State().Stage)
}

func TestParseStageCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    word.Stage
		wantOK  bool
		wantErr bool
	}{
		{name: "stage command", input: ":stage 4", want: 4, wantOK: true},
		{name: "not a command", input: "stage", wantOK: false},
		{name: "missing number", input: ":stage", wantOK: true, wantErr: true},
		{name: "out of range", input: ":stage 6", wantOK: true, wantErr: true},
		{name: "not a number", input: ":stage two", wantOK: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := parseStageCommand(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
