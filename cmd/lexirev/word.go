package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lexirev/internal/bootstrap"
	"github.com/at-ishikawa/lexirev/internal/cli"
	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/dictionary"
	"github.com/at-ishikawa/lexirev/internal/word"
)

func newWordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Manage the saved words",
	}
	cmd.AddCommand(
		newWordAddCommand(),
		newWordListCommand(),
		newWordDeleteCommand(),
		newWordStagesCommand(),
	)
	return cmd
}

func newWordAddCommand() *cobra.Command {
	var input cli.AddWordInput
	var noLookup bool
	var api dictionary.API

	cmd := &cobra.Command{
		Use:   "add <word>",
		Short: "Save a new word at stage 0",
		Long:  "Saves a new word at stage 0. Fields that are not given are drafted from a dictionary unless --no-lookup is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.TargetWord = args[0]
			if err := word.ValidateTargetWord(input.TargetWord); err != nil {
				return err
			}

			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}

				var dict dictionary.Dictionary
				if !noLookup {
					if api == "" {
						api = dictionary.API(cfg.Dictionaries.API)
					}
					dict, err = newDictionary(app, api, cfg.Dictionaries)
					if err != nil {
						return err
					}
				}

				_, err = cli.NewWordAdder(word.NewDBWordRepository(db), dict, cmd.OutOrStdout()).Add(ctx, input)
				return err
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.Translation, "translation", "", "translation or meaning shown when revising")
	flags.StringVar(&input.ExampleSentence, "example", "", "example sentence containing the word")
	flags.StringVar(&input.PartOfSpeech, "part-of-speech", "", "part of speech, e.g. noun")
	flags.BoolVar(&noLookup, "no-lookup", false, "do not look the word up in a dictionary")
	addAPIFlag(flags, &api)
	return cmd
}

func newWordListCommand() *cobra.Command {
	var stage int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the saved words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}
				repo := word.NewDBWordRepository(db)

				var words []word.Word
				if cmd.Flags().Changed("stage") {
					s, err := word.ParseStage(stage)
					if err != nil {
						return err
					}
					words, err = repo.FindByStage(ctx, s)
					if err != nil {
						return fmt.Errorf("repo.FindByStage(%d) > %w", s, err)
					}
				} else {
					words, err = repo.FindAll(ctx)
					if err != nil {
						return fmt.Errorf("repo.FindAll() > %w", err)
					}
				}
				return printWords(cmd, words)
			})
		},
	}
	cmd.Flags().IntVar(&stage, "stage", 0, "only list the words of this stage, least recently revised first")
	return cmd
}

func printWords(cmd *cobra.Command, words []word.Word) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tSTAGE\tWORD\tTRANSLATION\tLAST REVISED"); err != nil {
		return err
	}
	for _, record := range words {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			record.ID,
			record.Stage,
			record.TargetWord,
			record.Translation,
			record.LastTouchedAt.Local().Format("2006-01-02 15:04"),
		); err != nil {
			return err
		}
	}
	return w.Flush()
}

func newWordDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}
				repo := word.NewDBWordRepository(db)

				w, err := repo.FindByID(ctx, id)
				if err != nil {
					return fmt.Errorf("repo.FindByID(%d) > %w", id, err)
				}
				if w == nil {
					return fmt.Errorf("%w: id %d", word.ErrWordNotFound, id)
				}
				if err := repo.Delete(ctx, w); err != nil {
					return fmt.Errorf("repo.Delete(%d) > %w", id, err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q from %s\n", w.TargetWord, w.Stage)
				return err
			})
		},
	}
}

func newWordStagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Show the number of words in every stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}
				counts, err := word.NewDBWordRepository(db).CountByStage(ctx)
				if err != nil {
					return fmt.Errorf("CountByStage() > %w", err)
				}
				for _, stage := range word.Stages() {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", stage, counts[stage]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
