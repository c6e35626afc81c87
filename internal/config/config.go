// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envFile = ".env"

// envNames maps config keys to the environment variables that override
// them. Keys not listed here still resolve through AutomaticEnv with
// dots replaced by underscores.
var envNames = map[string]string{
	"population.users":            "NUM_USERS",
	"history.days":                "HISTORY_DAYS",
	"rates.archived_project":      "ARCHIVED_PROJECT_RATE",
	"rates.unassigned_task":       "UNASSIGNED_TASK_RATE",
	"rates.null_description":      "NULL_DESCRIPTION_RATE",
	"rates.comment":               "COMMENT_RATE",
	"generation.seed":             "SEED",
	"generation.scoped_owners":    "SCOPED_OWNERS",
	"generation.sprint_due_dates": "SPRINT_DUE_DATES",
	"content.api_key":             "ANTHROPIC_API_KEY",
	"content.base_url":            "CONTENT_BASE_URL",
	"content.model":               "CONTENT_MODEL",
	"content.temperature":         "CONTENT_TEMPERATURE",
	"content.max_tokens":          "CONTENT_MAX_TOKENS",
	"content.timeout":             "CONTENT_TIMEOUT",
	"content.use_keyring":         "CONTENT_USE_KEYRING",
	"store.driver":                "STORE_DRIVER",
	"store.path":                  "DB_PATH",
	"store.dsn":                   "POSTGRES_DSN",
	"store.batch_size":            "BATCH_SIZE",
	"store.reset":                 "STORE_RESET",
	"logging.level":               "LOG_LEVEL",
	"logging.file":                "LOG_FILE",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"users":     "population.users",
	"seed":      "generation.seed",
	"driver":    "store.driver",
	"db":        "store.path",
	"dsn":       "store.dsn",
	"log-level": "logging.level",
}

// RegisterFlags adds the flags that Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.Int("users", 0, "number of users to generate")
	fs.Uint64("seed", 0, "random seed (0 picks one)")
	fs.String("driver", "", "store driver: sqlite or postgres")
	fs.String("db", "", "SQLite database path")
	fs.String("dsn", "", "PostgreSQL connection string")
	fs.String("log-level", "", "log level: debug, info, warn, error")
}

// Load resolves configuration from, in increasing priority: defaults,
// the YAML file at path (if non-empty), .env, the process environment,
// and explicitly set flags. The result is validated.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// a missing .env is fine; Load never overrides the real environment
	_ = godotenv.Load(envFile)

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading config %s: %v", ErrInvalidConfig, path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envNames {
		_ = v.BindEnv(key, env)
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("population.users", 5000)
	v.SetDefault("history.days", 730)

	v.SetDefault("rates.archived_project", 0.15)
	v.SetDefault("rates.unassigned_task", 0.15)
	v.SetDefault("rates.null_description", 0.10)
	v.SetDefault("rates.comment", 0.40)

	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.scoped_owners", true)
	v.SetDefault("generation.sprint_due_dates", false)

	v.SetDefault("content.api_key", "")
	v.SetDefault("content.base_url", "https://api.anthropic.com")
	v.SetDefault("content.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("content.temperature", 0.7)
	v.SetDefault("content.max_tokens", 1024)
	v.SetDefault("content.timeout", 30*time.Second)
	v.SetDefault("content.use_keyring", true)

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", filepath.Join("output", "workspace_simulation.sqlite"))
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.batch_size", 500)
	v.SetDefault("store.reset", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
}

// Save writes cfg to a YAML file at path, creating parent directories
// if needed. The API key is never written.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	content := cfg.Content
	content.APIKey = ""

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("population", cfg.Population)
	v.Set("history", cfg.History)
	v.Set("rates", cfg.Rates)
	v.Set("generation", cfg.Generation)
	v.Set("content", content)
	v.Set("store", cfg.Store)
	v.Set("logging", cfg.Logging)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
