package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/lexirev/internal/dictionary/rapidapi"
)

type WordsAPIConfig struct {
	Host string
	Key  string
	// BaseURL defaults to https://<Host>.
	BaseURL string
}

// WordsAPIReader looks up words with WordsAPI on RapidAPI.
type WordsAPIReader struct {
	client *resty.Client
	cache  *FileCache
	options
}

func NewWordsAPIReader(cfg WordsAPIConfig, cache *FileCache, opts ...Option) *WordsAPIReader {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.Host
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-rapidapi-host", cfg.Host).
		SetHeader("x-rapidapi-key", cfg.Key)

	return &WordsAPIReader{
		client:  client,
		cache:   cache,
		options: newOptions(opts),
	}
}

func (r *WordsAPIReader) lookupAPI(ctx context.Context, word string) ([]byte, error) {
	res, err := r.client.R().
		SetContext(ctx).
		SetPathParam("word", word).
		Get("/words/{word}")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, word)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &responseError{statusCode: res.StatusCode(), body: string(res.Body())}
	}
	return res.Body(), nil
}

func (r *WordsAPIReader) Lookup(ctx context.Context, word string) (Entry, error) {
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

	var resp rapidapi.Response
	if err := json.Unmarshal(contents, &resp); err != nil {
		return Entry{}, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return fromWordsAPI(resp), nil
}

func fromWordsAPI(resp rapidapi.Response) Entry {
	entry := Entry{
		Word:          resp.Word,
		Pronunciation: resp.Pronunciation.String(),
		Senses:        make([]Sense, 0, len(resp.Results)),
	}
	for _, result := range resp.Results {
		entry.Senses = append(entry.Senses, Sense{
			PartOfSpeech: result.PartOfSpeech,
			Definition:   result.Definition,
			Examples:     result.Examples,
			Synonyms:     result.Synonyms,
		})
	}
	return entry
}
