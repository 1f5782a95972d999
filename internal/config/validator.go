package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// configValidator checks a Config and reports failures with English messages that name the
// configuration keys instead of Go field names.
type configValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// pathRule is a custom validation tag for filesystem paths.
type pathRule struct {
	tag     string
	message string
	check   func(info fs.FileInfo, err error) bool
}

var pathRules = []pathRule{
	{
		tag:     "file",
		message: "{0} must be an existing and readable file",
		check: func(info fs.FileInfo, err error) bool {
			if err != nil || info.IsDir() {
				return false
			}
			// owner read permission
			return info.Mode().Perm()&0o400 != 0
		},
	},
	{
		tag:     "notfile",
		message: "{0} must be a directory, not a file",
		check: func(info fs.FileInfo, err error) bool {
			if errors.Is(err, fs.ErrNotExist) {
				return true
			}
			return err == nil && info.IsDir()
		},
	},
}

func newConfigValidator() (*configValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	for _, rule := range pathRules {
		if err := registerPathRule(validate, trans, rule); err != nil {
			return nil, err
		}
	}
	return &configValidator{
		validate:   validate,
		translator: trans,
	}, nil
}

func registerPathRule(validate *validator.Validate, trans ut.Translator, rule pathRule) error {
	err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
		path := fl.Field().String()
		if path == "" {
			return false
		}
		return rule.check(os.Stat(path))
	})
	if err != nil {
		return fmt.Errorf("validate.RegisterValidation(%s) > %w", rule.tag, err)
	}

	err = validate.RegisterTranslation(rule.tag, trans, func(ut ut.Translator) error {
		return ut.Add(rule.tag, rule.message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(rule.tag, keyOf(fe))
		return t
	})
	if err != nil {
		return fmt.Errorf("validate.RegisterTranslation(%s) > %w", rule.tag, err)
	}
	return nil
}

// keyOf returns the dotted configuration key of a failed field, e.g. reports.template.
func keyOf(fe validator.FieldError) string {
	return strings.TrimPrefix(fe.Namespace(), "Config.")
}

// check validates cfg and joins every failure into one error.
func (v *configValidator) check(cfg *Config) error {
	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validator.Struct() > %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, e.Translate(v.translator))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, ", "))
}
