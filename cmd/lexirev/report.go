package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lexirev/internal/bootstrap"
	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/report"
	"github.com/at-ishikawa/lexirev/internal/word"
)

func newReportCommand() *cobra.Command {
	var markdownOnly bool
	var stdout bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a progress report of every stage",
		Long:  "Writes a markdown report under reports.output_directory and converts it to PDF.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}
				generator := report.NewGenerator(word.NewDBWordRepository(db), cfg.Reports)
				if stdout {
					return generator.WriteMarkdown(ctx, cmd.OutOrStdout())
				}

				output, err := generator.Generate(ctx, !markdownOnly)
				if err != nil {
					return fmt.Errorf("generate a report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Markdown: %s\n", output.MarkdownPath)
				if output.PDFPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "PDF:      %s\n", output.PDFPath)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&markdownOnly, "markdown-only", false, "do not convert the report to PDF")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the markdown instead of writing files")
	return cmd
}
