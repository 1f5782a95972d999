package word

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		target      string
		translation string
		example     string
		want        *Word
		wantErr     error
	}{
		{
			name:        "word found in example",
			target:      " apple ",
			translation: "りんご",
			example:     "She ate an apple after lunch.",
			want: &Word{
				TargetWord:      "apple",
				Translation:     "りんご",
				PartOfSpeech:    "noun",
				ExampleSentence: "She ate an apple after lunch.",
				BlankedExample:  "She ate an ____ after lunch.",
				Stage:           StageNew,
				CreatedAt:       now,
				LastTouchedAt:   now,
			},
		},
		{
			name:        "no example uses fallback",
			target:      "o'clock",
			translation: "時",
			want: &Word{
				TargetWord:     "o'clock",
				Translation:    "時",
				PartOfSpeech:   "noun",
				BlankedExample: FallbackExample,
				Stage:          StageNew,
				CreatedAt:      now,
				LastTouchedAt:  now,
			},
		},
		{
			name:        "empty target",
			target:      "  ",
			translation: "something",
			wantErr:     ErrInvalidWord,
		},
		{
			name:        "digits are rejected",
			target:      "mp3",
			translation: "audio",
			wantErr:     ErrInvalidWord,
		},
		{
			name:        "empty translation",
			target:      "apple",
			translation: "",
			wantErr:     ErrInvalidWord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.target, tt.translation, "noun", tt.example, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_ErrorMessageNamesField(t *testing.T) {
	_, err := New("well known", "有名な", "", "", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_word may only contain letters, hyphens and apostrophes")
}

func TestWord_Touch(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	w := Word{ID: 1, TargetWord: "cook", Stage: 1, CreatedAt: created, LastTouchedAt: created}

	t.Run("moves stage and timestamp", func(t *testing.T) {
		later := created.Add(time.Hour)
		got := w.Touch(2, later)
		assert.Equal(t, Stage(2), got.Stage)
		assert.Equal(t, later, got.LastTouchedAt)
		assert.Equal(t, created, got.CreatedAt)
		assert.Equal(t, Stage(1), w.Stage, "original is not modified")
	})

	t.Run("clock before creation is clamped", func(t *testing.T) {
		got := w.Touch(1, created.Add(-time.Minute))
		assert.Equal(t, created, got.LastTouchedAt)
	})
}

func TestParseStage(t *testing.T) {
	for _, v := range []int{0, 1, 2, 3, 4, 5} {
		got, err := ParseStage(v)
		require.NoError(t, err)
		assert.Equal(t, Stage(v), got)
	}
	for _, v := range []int{-1, 6, 100} {
		_, err := ParseStage(v)
		assert.ErrorIs(t, err, ErrInvalidStage)
	}
}

func TestStages(t *testing.T) {
	assert.Equal(t, []Stage{0, 1, 2, 3, 4, 5}, Stages())
	assert.True(t, StageMastered.Mastered())
	assert.False(t, Stage(4).Mastered())
	assert.Equal(t, "stage 3", Stage(3).String())
}

func TestValidateTargetWord(t *testing.T) {
	tests := []struct {
		target  string
		wantErr bool
	}{
		{target: "apple"},
		{target: "well-known"},
		{target: "o'clock"},
		{target: "café"},
		{target: "", wantErr: true},
		{target: "two words", wantErr: true},
		{target: "abc123", wantErr: true},
		{target: "semi;colon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			err := ValidateTargetWord(tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWord)
				return
			}
			assert.NoError(t, err)
		})
	}
}
