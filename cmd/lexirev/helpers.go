package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/lexirev/internal/bootstrap"
	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/database"
	"github.com/at-ishikawa/lexirev/internal/dictionary"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// runApp loads the configuration and runs fn inside a bootstrap.App, so that resources
// registered as shutdown hooks are released when fn returns or the user interrupts it.
func runApp(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, app *bootstrap.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := bootstrap.New()
	return app.Run(cmd.Context(), func(ctx context.Context) error {
		return fn(ctx, cfg, app)
	})
}

// openDatabase opens the configured database. A local SQLite file is migrated first.
func openDatabase(app *bootstrap.App, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Driver == database.DriverSQLite3 {
		version, err := database.Migrate(cfg)
		if err != nil {
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		slog.Default().Debug("sqlite database migrated", "path", cfg.Path, "version", version)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook("database", func(ctx context.Context) error {
		return db.Close()
	})
	return db, nil
}

func newDictionary(app *bootstrap.App, api dictionary.API, cfg config.DictionariesConfig) (dictionary.Dictionary, error) {
	dict, err := dictionary.New(api, cfg)
	if err != nil {
		return nil, fmt.Errorf("dictionary.New(%s) > %w", api, err)
	}
	if closer, ok := dict.(io.Closer); ok {
		app.AddShutdownHook("dictionary", func(ctx context.Context) error {
			return closer.Close()
		})
	}
	return dict, nil
}

// addAPIFlag registers --api. An empty value means dictionaries.api from the configuration.
func addAPIFlag(flags *pflag.FlagSet, api *dictionary.API) {
	flags.Var(api, "api", fmt.Sprintf("dictionary API, %s or %s. Defaults to dictionaries.api", dictionary.APIFreeDictionary, dictionary.APIWordsAPI))
}
