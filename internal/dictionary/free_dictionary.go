package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"resty.dev/v3"

	"github.com/at-ishikawa/lexirev/internal/dictionary/freedictionary"
)

const defaultFreeDictionaryURL = "https://api.dictionaryapi.dev"

// FreeDictionaryReader looks up English words with the Free Dictionary API.
type FreeDictionaryReader struct {
	httpClient *resty.Client
	cache      *FileCache
	options
}

func NewFreeDictionaryReader(baseURL string, cache *FileCache, opts ...Option) *FreeDictionaryReader {
	if baseURL == "" {
		baseURL = defaultFreeDictionaryURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Accept", "application/json")

	return &FreeDictionaryReader{
		httpClient: client,
		cache:      cache,
		options:    newOptions(opts),
	}
}

func (r *FreeDictionaryReader) Close() error {
	return r.httpClient.Close()
}

func (r *FreeDictionaryReader) lookupAPI(ctx context.Context, word string) ([]byte, error) {
	response, err := r.httpClient.R().
		SetContext(ctx).
		SetPathParam("word", word).
		Get("/api/v2/entries/en/{word}")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, word)
	}
	if response.IsError() {
		return nil, &responseError{statusCode: response.StatusCode(), body: response.String()}
	}
	return []byte(response.String()), nil
}

func (r *FreeDictionaryReader) Lookup(ctx context.Context, word string) (Entry, error) {
	word = normalizeWord(word)
	contents, err := r.cache.cache(word, func() ([]byte, error) {
		var body []byte
		err := r.do(ctx, word, func() error {
			var err error
			body, err = r.lookupAPI(ctx, word)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("r.lookupAPI > %w", err)
		}
		return body, nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("r.cache.cache > %w", err)
	}

	var resp freedictionary.Response
	if err := json.Unmarshal(contents, &resp); err != nil {
		return Entry{}, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if len(resp) == 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, word)
	}
	return fromFreeDictionary(resp), nil
}

func fromFreeDictionary(resp freedictionary.Response) Entry {
	entry := Entry{Word: resp[0].Word}
	for _, e := range resp {
		if entry.Pronunciation == "" {
			entry.Pronunciation = e.Pronunciation()
		}
	}
	entry.Senses = lo.FlatMap(resp, func(e freedictionary.Entry, _ int) []Sense {
		return lo.FlatMap(e.Meanings, func(m freedictionary.Meaning, _ int) []Sense {
			return lo.Map(m.Definitions, func(d freedictionary.Definition, _ int) Sense {
				sense := Sense{
					PartOfSpeech: m.PartOfSpeech,
					Definition:   d.Definition,
					Synonyms:     d.Synonyms,
				}
				if d.Example != "" {
					sense.Examples = []string{d.Example}
				}
				if len(sense.Synonyms) == 0 {
					sense.Synonyms = m.Synonyms
				}
				return sense
			})
		})
	})
	return entry
}
