package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Database     DatabaseConfig     `mapstructure:"database"`
	Dictionaries DictionariesConfig `mapstructure:"dictionaries"`
	Revision     RevisionConfig     `mapstructure:"revision"`
	Reports      ReportsConfig      `mapstructure:"reports"`
}

type DatabaseConfig struct {
	// Driver is one of mysql, sqlite3 or postgres.
	Driver string `mapstructure:"driver" validate:"required,oneof=mysql sqlite3 postgres"`
	// Path is the SQLite database file. Only used by sqlite3.
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite3"`
	Host            string            `mapstructure:"host" validate:"required_unless=Driver sqlite3"`
	Port            int               `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Database        string            `mapstructure:"database" validate:"required_unless=Driver sqlite3"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"min=0"`
}

type DictionariesConfig struct {
	// API is the default dictionary provider used to draft new words.
	API            string               `mapstructure:"api" validate:"oneof=free_dictionary words_api"`
	CacheDirectory string               `mapstructure:"cache_directory" validate:"required,notfile"`
	RetryAttempts  uint                 `mapstructure:"retry_attempts" validate:"min=1,max=10"`
	RapidAPI       RapidAPIConfig       `mapstructure:"rapidapi"`
	FreeDictionary FreeDictionaryConfig `mapstructure:"free_dictionary"`
}

type RapidAPIConfig struct {
	Host string `mapstructure:"host"`
	Key  string `mapstructure:"key"`
}

type FreeDictionaryConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type RevisionConfig struct {
	// DefaultStage is selected when revise is started without --stage.
	DefaultStage int `mapstructure:"default_stage" validate:"min=0,max=5"`
}

type ReportsConfig struct {
	OutputDirectory string `mapstructure:"output_directory" validate:"required,notfile"`
	// Template overrides the embedded report template.
	Template string `mapstructure:"template" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper     *viper.Viper
	validator *configValidator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, err := newConfigValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lexirev")
	}

	return &ConfigLoader{
		viper:     v,
		validator: validate,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", "lexirev.db")
	v.SetDefault("database.port", 0)
	v.SetDefault("dictionaries.api", "free_dictionary")
	v.SetDefault("dictionaries.cache_directory", filepath.Join("dictionaries", "cache"))
	v.SetDefault("dictionaries.retry_attempts", 3)
	v.SetDefault("dictionaries.free_dictionary.base_url", "https://api.dictionaryapi.dev")
	v.SetDefault("revision.default_stage", 0)
	v.SetDefault("reports.output_directory", filepath.Join("outputs", "reports"))
	// Template is optional; the embedded template is used when empty.
	v.SetDefault("reports.template", "")

	// Bind RapidAPI config to environment variables only (not from config file)
	if err := v.BindEnv("dictionaries.rapidapi.host", "RAPID_API_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind RAPID_API_HOST environment variable: %w", err)
	}
	if err := v.BindEnv("dictionaries.rapidapi.key", "RAPID_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind RAPID_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultPort(cfg.Database.Driver)
	}

	if err := loader.validator.check(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultPort(driver string) int {
	switch driver {
	case "mysql":
		return 3306
	case "postgres":
		return 5432
	}
	return 0
}
