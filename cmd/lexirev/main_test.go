package main

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lexirev/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "lexirev", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"revise", "word", "dictionary", "export", "import", "report", "migrate"}, names)
}

func TestMigrateCommand(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t, t.TempDir())

	for range 2 {
		out, err := executeCommand(t, cfgPath, "migrate")
		require.NoError(t, err)
		assert.Equal(t, "The sqlite3 database is at version 1\n", out)
	}
}

func TestCommands_InvalidConfig(t *testing.T) {
	cfgPath := setupBrokenConfigFile(t)
	commands := [][]string{
		{"migrate"},
		{"revise"},
		{"word", "list"},
		{"word", "stages"},
		{"word", "add", "apple", "--translation", "a fruit"},
		{"word", "delete", "1"},
		{"dictionary", "lookup", "apple"},
		{"export"},
		{"report"},
	}
	for _, args := range commands {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := executeCommand(t, cfgPath, args...)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "configuration")
		})
	}
}
