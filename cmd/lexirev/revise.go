package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lexirev/internal/bootstrap"
	"github.com/at-ishikawa/lexirev/internal/cli"
	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/revision"
	"github.com/at-ishikawa/lexirev/internal/word"
)

func newReviseCommand() *cobra.Command {
	var stage int
	cmd := &cobra.Command{
		Use:   "revise",
		Short: "Revise the words of a stage interactively",
		Long: `Shows the words of a stage, least recently revised first, and asks for each word from its translation.
A correct answer moves the word to the next stage. A wrong answer keeps it in its stage.

Commands while revising:
  :hint     reveal one more letter
  :skip     go to the next word
  :delete   delete the current word
  :stage N  switch to stage N
  :quit     stop revising`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var start *word.Stage
			if cmd.Flags().Changed("stage") {
				s, err := word.ParseStage(stage)
				if err != nil {
					return err
				}
				start = &s
			}

			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				defaultStage, err := word.ParseStage(cfg.Revision.DefaultStage)
				if err != nil {
					return err
				}
				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}

				session := revision.NewSession(word.NewDBWordRepository(db), revision.WithLogger(slog.Default()))
				reviseCLI := cli.NewReviseCLI(session, defaultStage)
				if start != nil {
					if err := reviseCLI.Start(ctx, *start); err != nil {
						return err
					}
				}
				return reviseCLI.Run(ctx, reviseCLI)
			})
		},
	}
	cmd.Flags().IntVar(&stage, "stage", 0, "stage to start with, between 0 and 5. The stage is asked for when omitted")
	return cmd
}
