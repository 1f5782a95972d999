package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		wantErr  bool
	}{
		{
			name:     "markdown report",
			fileName: "report.md",
			content:  "# Report\n\n| Stage | Words |\n|---|---|\n| 0 | 2 |\n\n> Can you recall the word **apple**?\n",
		},
		{
			name:     "not a markdown file",
			fileName: "report.txt",
			content:  "# Report\n",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.fileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := ConvertMarkdownToPDF(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "report.pdf"), got)
			info, err := os.Stat(got)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ConvertMarkdownToPDF(filepath.Join(t.TempDir(), "missing.md"))
		assert.Error(t, err)
	})
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bold in a blockquote",
			content: "> I **ate** an apple\n",
			want:    "> I ate an apple\n",
		},
		{
			name:    "bold outside a blockquote",
			content: "- **apple**: a fruit\n> **b**",
			want:    "- **apple**: a fruit\n> b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(prepare([]byte(tt.content))))
		})
	}
}
