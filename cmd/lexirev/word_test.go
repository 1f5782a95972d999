package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lexirev/internal/testutil"
	"github.com/at-ishikawa/lexirev/internal/word"
)

func TestWordCommands(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)

	out, err := executeCommand(t, cfgPath, "word", "add", "apple",
		"--no-lookup",
		"--translation", "a round fruit",
		"--part-of-speech", "noun",
		"--example", "She ate an apple.",
	)
	require.NoError(t, err)
	assert.Equal(t, "Added \"apple\" (id 1) to stage 0 (new)\n", out)

	_, err = executeCommand(t, cfgPath, "word", "add", "banana", "--no-lookup", "--translation", "a long fruit")
	require.NoError(t, err)

	_, err = executeCommand(t, cfgPath, "word", "add", "Apple", "--no-lookup", "--translation", "again")
	assert.ErrorIs(t, err, word.ErrDuplicateWord)

	_, err = executeCommand(t, cfgPath, "word", "add", "two words", "--no-lookup", "--translation", "x")
	assert.ErrorIs(t, err, word.ErrInvalidWord)

	out, err = executeCommand(t, cfgPath, "word", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "apple")
	assert.Contains(t, lines[1], "a round fruit")
	assert.Contains(t, lines[2], "banana")

	out, err = executeCommand(t, cfgPath, "word", "list", "--stage", "1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	_, err = executeCommand(t, cfgPath, "word", "list", "--stage", "6")
	assert.ErrorIs(t, err, word.ErrInvalidStage)

	out, err = executeCommand(t, cfgPath, "word", "stages")
	require.NoError(t, err)
	assert.Contains(t, out, "stage 0 (new)        2\n")
	assert.Contains(t, out, "stage 5 (mastered)   0\n")

	out, err = executeCommand(t, cfgPath, "word", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted \"apple\" from stage 0 (new)\n", out)

	_, err = executeCommand(t, cfgPath, "word", "delete", "1")
	assert.ErrorIs(t, err, word.ErrWordNotFound)

	_, err = executeCommand(t, cfgPath, "word", "delete", "first")
	assert.Error(t, err)
}

func TestExportImportCommands(t *testing.T) {
	source := testutil.SetupTestConfig(t, t.TempDir())
	for _, target := range []string{"apple", "banana"} {
		_, err := executeCommand(t, source, "word", "add", target, "--no-lookup", "--translation", target+" translation")
		require.NoError(t, err)
	}

	exportPath := filepath.Join(t.TempDir(), "words.yml")
	out, err := executeCommand(t, source, "export", "--output", exportPath)
	require.NoError(t, err)
	assert.Equal(t, "Exported 2 words to "+exportPath+"\n", out)

	out, err = executeCommand(t, source, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "target_word: banana")

	destination := testutil.SetupTestConfig(t, t.TempDir())
	out, err = executeCommand(t, destination, "import", exportPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry-run mode, no changes made)")
	assert.Contains(t, out, "Words:  2 new, 0 skipped, 0 updated")

	out, err = executeCommand(t, destination, "word", "stages")
	require.NoError(t, err)
	assert.Contains(t, out, "stage 0 (new)        0\n")

	out, err = executeCommand(t, destination, "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, `[NEW]  "apple"`)
	assert.Contains(t, out, "Words:  2 new, 0 skipped, 0 updated")

	out, err = executeCommand(t, destination, "import", exportPath, "--update-existing")
	require.NoError(t, err)
	assert.Contains(t, out, "Words:  0 new, 0 skipped, 2 updated")

	_, err = executeCommand(t, destination, "import", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestReportCommand(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	_, err := executeCommand(t, cfgPath, "word", "add", "apple", "--no-lookup", "--translation", "a fruit")
	require.NoError(t, err)

	out, err := executeCommand(t, cfgPath, "report", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "- **apple**: a fruit")

	out, err = executeCommand(t, cfgPath, "report", "--markdown-only")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Markdown: "+filepath.Join(tmpDir, "reports", "report-")))
	assert.NotContains(t, out, "PDF:")

	entries, err := os.ReadDir(filepath.Join(tmpDir, "reports"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReviseCommand_InvalidStage(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t, t.TempDir())
	_, err := executeCommand(t, cfgPath, "revise", "--stage", "9")
	assert.ErrorIs(t, err, word.ErrInvalidStage)
}
