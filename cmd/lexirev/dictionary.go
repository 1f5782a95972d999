package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lexirev/internal/bootstrap"
	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/dictionary"
	"github.com/at-ishikawa/lexirev/internal/word"
)

func newDictionaryCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "dictionary",
		Short: "Look words up in a dictionary",
	}
	var api dictionary.API
	addAPIFlag(rootCommand.PersistentFlags(), &api)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "lookup <word>",
		Short: "Show the definitions of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if err := word.ValidateTargetWord(target); err != nil {
				return err
			}

			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				if api == "" {
					api = dictionary.API(cfg.Dictionaries.API)
				}
				dict, err := newDictionary(app, api, cfg.Dictionaries)
				if err != nil {
					return err
				}
				entry, err := dict.Lookup(ctx, target)
				if err != nil {
					return fmt.Errorf("dictionary.Lookup(%s) > %w", target, err)
				}
				return printEntry(cmd.OutOrStdout(), entry)
			})
		},
	})
	return rootCommand
}

func printEntry(w io.Writer, entry dictionary.Entry) error {
	bold := color.New(color.Bold)
	italic := color.New(color.Italic)

	if _, err := bold.Fprint(w, entry.Word); err != nil {
		return err
	}
	if entry.Pronunciation != "" {
		if _, err := fmt.Fprintf(w, " /%s/", entry.Pronunciation); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for i, sense := range entry.Senses {
		if _, err := fmt.Fprintf(w, "%d. ", i+1); err != nil {
			return err
		}
		if sense.PartOfSpeech != "" {
			if _, err := italic.Fprintf(w, "%s ", sense.PartOfSpeech); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, sense.Definition); err != nil {
			return err
		}
		for _, example := range sense.Examples {
			if _, err := fmt.Fprintf(w, "   e.g. %s\n", example); err != nil {
				return err
			}
		}
		if len(sense.Synonyms) > 0 {
			if _, err := fmt.Fprintf(w, "   synonyms: %s\n", strings.Join(sense.Synonyms, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}
