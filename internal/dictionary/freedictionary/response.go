// Package freedictionary contains the response types of the Free Dictionary API.
//
// https://dictionaryapi.dev
package freedictionary

import "strings"

// Response is the list of entries returned for a word. Homographs are separate entries.
type Response []Entry

type Entry struct {
	Word      string     `json:"word"`
	Phonetic  string     `json:"phonetic,omitempty"`
	Phonetics []Phonetic `json:"phonetics"`
	Meanings  []Meaning  `json:"meanings"`
}

type Phonetic struct {
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms"`
}

type Definition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example,omitempty"`
	Synonyms   []string `json:"synonyms"`
}

// Pronunciation returns the first phonetic transcription available, without the enclosing
// slashes the API writes around it.
func (e Entry) Pronunciation() string {
	if p := bare(e.Phonetic); p != "" {
		return p
	}
	for _, p := range e.Phonetics {
		if text := bare(p.Text); text != "" {
			return text
		}
	}
	return ""
}

func bare(transcription string) string {
	return strings.Trim(strings.TrimSpace(transcription), "/")
}
