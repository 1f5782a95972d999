package freedictionary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Pronunciation(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "phonetic field",
			entry: Entry{Phonetic: "/kʊk/", Phonetics: []Phonetic{{Text: "/kuːk/"}}},
			want:  "kʊk",
		},
		{
			name:  "first phonetics with text",
			entry: Entry{Phonetics: []Phonetic{{Audio: "https://example.com/cook.mp3"}, {Text: "/kʊk/"}}},
			want:  "kʊk",
		},
		{
			name:  "transcription without slashes",
			entry: Entry{Phonetic: "kʊk"},
			want:  "kʊk",
		},
		{
			name:  "slashes only",
			entry: Entry{Phonetic: "//", Phonetics: []Phonetic{{Text: " /kʊk/ "}}},
			want:  "kʊk",
		},
		{
			name:  "none",
			entry: Entry{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Pronunciation())
		})
	}
}

func TestResponse_Unmarshal(t *testing.T) {
	body := `[{
  "word": "cook",
  "phonetics": [{"text": "/kʊk/", "audio": ""}],
  "meanings": [{
    "partOfSpeech": "verb",
    "definitions": [{"definition": "To prepare food for eating.", "example": "I cook dinner every day.", "synonyms": []}],
    "synonyms": ["prepare"]
  }]
}]`

	var got Response
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "cook", got[0].Word)
	assert.Equal(t, "kʊk", got[0].Pronunciation())
	require.Len(t, got[0].Meanings, 1)
	assert.Equal(t, "verb", got[0].Meanings[0].PartOfSpeech)
	assert.Equal(t, "I cook dinner every day.", got[0].Meanings[0].Definitions[0].Example)
}
