// Package rapidapi decodes WordsAPI responses served through RapidAPI.
//
// https://rapidapi.com/dpventures/api/wordsapi
package rapidapi

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Response is the part of a WordsAPI word response used to draft word records.
type Response struct {
	Word          string        `json:"word"`
	Pronunciation Pronunciation `json:"pronunciation"`
	Results       []Result      `json:"results"`
}

// Pronunciation is sent either as a plain string or as an object keyed by "all" or by part of
// speech, e.g. {"noun": "rɛˈkɔrd", "verb": "rɪˈkɔrd"}.
type Pronunciation struct {
	All          string
	PartOfSpeech map[string]string
}

func (p *Pronunciation) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var byKey map[string]string
		if err := json.Unmarshal(data, &byKey); err != nil {
			return fmt.Errorf("json.Unmarshal > %w", err)
		}
		p.All = byKey["all"]
		delete(byKey, "all")
		if len(byKey) > 0 {
			p.PartOfSpeech = byKey
		}
		return nil
	}
	if err := json.Unmarshal(data, &p.All); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	return nil
}

// String returns the pronunciation for every part of speech, or the one of the
// alphabetically first part of speech when the word has none shared.
func (p Pronunciation) String() string {
	if p.All != "" || len(p.PartOfSpeech) == 0 {
		return p.All
	}
	keys := make([]string, 0, len(p.PartOfSpeech))
	for key := range p.PartOfSpeech {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return p.PartOfSpeech[keys[0]]
}

type Result struct {
	Definition   string   `json:"definition"`
	PartOfSpeech string   `json:"partOfSpeech"`
	Synonyms     []string `json:"synonyms"`
	Examples     []string `json:"examples"`
}
