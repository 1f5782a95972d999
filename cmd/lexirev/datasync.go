package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lexirev/internal/bootstrap"
	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/datasync"
	"github.com/at-ishikawa/lexirev/internal/word"
)

func newExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every word as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					file, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("os.Create(%s) > %w", output, err)
					}
					defer func() { _ = file.Close() }()
					w = file
				}

				n, err := datasync.NewExporter(word.NewDBWordRepository(db)).Export(ctx, w)
				if err != nil {
					return fmt.Errorf("export words: %w", err)
				}
				if output != "" {
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words to %s\n", n, output)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write. Defaults to stdout")
	return cmd
}

func newImportCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("os.Open(%s) > %w", args[0], err)
				}
				defer func() { _ = file.Close() }()

				db, err := openDatabase(app, cfg.Database)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				opts := datasync.ImportOptions{
					DryRun:         dryRun,
					UpdateExisting: updateExisting,
				}
				result, err := datasync.ImportInTx(ctx, db, file, out, opts)
				if err != nil {
					return fmt.Errorf("import words: %w", err)
				}

				fmt.Fprintln(out, "\nImport Summary:")
				if opts.DryRun {
					fmt.Fprintln(out, "  (dry-run mode, no changes made)")
				}
				fmt.Fprintf(out, "  Words:  %d new, %d skipped, %d updated\n", result.New, result.Skipped, result.Updated)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Update existing records with new data")
	return cmd
}
