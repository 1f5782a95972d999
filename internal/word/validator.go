package word

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
	validatorErr  error
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("wordchars", isWordChars); err != nil {
		return nil, nil, fmt.Errorf("failed to register wordchars validation: %w", err)
	}
	if err := v.RegisterTranslation("wordchars", trans, func(ut ut.Translator) error {
		return ut.Add("wordchars", "{0} may only contain letters, hyphens and apostrophes", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("wordchars", fe.Field())
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register wordchars translation: %w", err)
	}
	return v, trans, nil
}

func isWordChars(fl validator.FieldLevel) bool {
	return IsWordChars(fl.Field().String())
}

// IsWordChars reports whether s is non-empty and made of letters, hyphens and apostrophes only.
func IsWordChars(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || r == '-' || r == '\'' || r == '’' {
			continue
		}
		return false
	}
	return true
}

// ValidateTargetWord checks a search string before it is looked up or saved.
func ValidateTargetWord(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("%w: target_word is a required field", ErrInvalidWord)
	}
	if !IsWordChars(target) {
		return fmt.Errorf("%w: target_word may only contain letters, hyphens and apostrophes", ErrInvalidWord)
	}
	return nil
}

func validateStruct(w *Word) error {
	validatorOnce.Do(func() {
		validate, translator, validatorErr = newValidator()
	})
	if validatorErr != nil {
		return validatorErr
	}

	err := validate.Struct(w)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct() > %w", err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, e.Translate(translator))
	}
	return fmt.Errorf("%w: %s", ErrInvalidWord, strings.Join(messages, ", "))
}
