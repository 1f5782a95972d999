// Package dictionary looks up words in online dictionaries to draft new word records.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-ishikawa/lexirev/internal/config"
)

//go:generate mockgen -source=dictionary.go -destination=../mocks/dictionary/mock_dictionary.go -package=mock_dictionary

// ErrNotFound is returned when a dictionary has no entry for a word.
var ErrNotFound = errors.New("word not found in the dictionary")

// Entry is a dictionary definition of a word, in the same shape for every provider.
type Entry struct {
	Word          string
	Pronunciation string
	Senses        []Sense
}

type Sense struct {
	PartOfSpeech string
	Definition   string
	Examples     []string
	Synonyms     []string
}

// Dictionary looks up a word.
type Dictionary interface {
	Lookup(ctx context.Context, word string) (Entry, error)
}

// API names a dictionary provider. It implements pflag.Value.
type API string

const (
	APIFreeDictionary API = "free_dictionary"
	APIWordsAPI       API = "words_api"
)

func (a *API) String() string {
	return string(*a)
}

func (a *API) Set(value string) error {
	switch API(value) {
	case APIFreeDictionary, APIWordsAPI:
		*a = API(value)
		return nil
	}
	return fmt.Errorf("unknown dictionary api %q, must be one of %s or %s", value, APIFreeDictionary, APIWordsAPI)
}

func (a *API) Type() string {
	return "api"
}

type options struct {
	attempts   uint
	retryDelay time.Duration
	logger     *slog.Logger
}

type Option func(*options)

// WithRetry sets how many times a lookup is attempted, and the initial back-off delay.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.attempts = attempts
		o.retryDelay = delay
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		attempts:   3,
		retryDelay: 500 * time.Millisecond,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.attempts == 0 {
		o.attempts = 1
	}
	return o
}

// New returns the dictionary for api, caching responses under the configured cache directory.
func New(api API, cfg config.DictionariesConfig, opts ...Option) (Dictionary, error) {
	opts = append([]Option{WithRetry(cfg.RetryAttempts, 500*time.Millisecond)}, opts...)
	cache := NewFileCache(filepath.Join(cfg.CacheDirectory, string(api)))

	switch api {
	case APIWordsAPI:
		if cfg.RapidAPI.Host == "" || cfg.RapidAPI.Key == "" {
			return nil, errors.New("RAPID_API_HOST and RAPID_API_KEY must be set to use words_api")
		}
		return NewWordsAPIReader(WordsAPIConfig{
			Host: cfg.RapidAPI.Host,
			Key:  cfg.RapidAPI.Key,
		}, cache, opts...), nil
	case APIFreeDictionary:
		return NewFreeDictionaryReader(cfg.FreeDictionary.BaseURL, cache, opts...), nil
	}
	return nil, fmt.Errorf("unknown dictionary api %q", api)
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
