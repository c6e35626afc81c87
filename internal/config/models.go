package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig wraps every validation failure. Callers treat it as
// fatal before any generation starts.
var ErrInvalidConfig = errors.New("invalid config")

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the top-level application configuration.
type Config struct {
	Population PopulationConfig `mapstructure:"population" yaml:"population"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history"`
	Rates      RatesConfig      `mapstructure:"rates" yaml:"rates"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Content    ContentConfig    `mapstructure:"content" yaml:"content"`
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// PopulationConfig sizes the generated organization.
type PopulationConfig struct {
	Users int `mapstructure:"users" yaml:"users"`
}

// HistoryConfig bounds how far back user join dates reach.
type HistoryConfig struct {
	Days int `mapstructure:"days" yaml:"days"`
}

// Window returns the history length as a duration.
func (h HistoryConfig) Window() time.Duration {
	return time.Duration(h.Days) * 24 * time.Hour
}

// RatesConfig holds the fixed probabilities used by the generators.
type RatesConfig struct {
	ArchivedProject float64 `mapstructure:"archived_project" yaml:"archived_project"`
	UnassignedTask  float64 `mapstructure:"unassigned_task" yaml:"unassigned_task"`
	NullDescription float64 `mapstructure:"null_description" yaml:"null_description"`
	Comment         float64 `mapstructure:"comment" yaml:"comment"`
}

// GenerationConfig toggles optional generator behavior.
type GenerationConfig struct {
	// Seed makes a run reproducible. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`

	// ScopedOwners draws project owners from the project's team.
	// When false any user may own any project.
	ScopedOwners bool `mapstructure:"scoped_owners" yaml:"scoped_owners"`

	// SprintDueDates snaps open tasks' due dates to the end of the
	// sprint they were created in.
	SprintDueDates bool `mapstructure:"sprint_due_dates" yaml:"sprint_due_dates"`
}

// ContentConfig configures the text-generation backend.
type ContentConfig struct {
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Model       string        `mapstructure:"model" yaml:"model"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UseKeyring  bool          `mapstructure:"use_keyring" yaml:"use_keyring"`
}

// StoreConfig selects and configures the persistence sink.
type StoreConfig struct {
	Driver    string `mapstructure:"driver" yaml:"driver"`
	Path      string `mapstructure:"path" yaml:"path"`
	DSN       string `mapstructure:"dsn" yaml:"dsn"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
	Reset     bool   `mapstructure:"reset" yaml:"reset"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Validate checks numeric ranges and required fields.
func (c Config) Validate() error {
	if c.Population.Users <= 0 {
		return fmt.Errorf("%w: population.users must be positive, got %d", ErrInvalidConfig, c.Population.Users)
	}
	if c.History.Days <= 0 {
		return fmt.Errorf("%w: history.days must be positive, got %d", ErrInvalidConfig, c.History.Days)
	}

	rates := map[string]float64{
		"rates.archived_project": c.Rates.ArchivedProject,
		"rates.unassigned_task":  c.Rates.UnassignedTask,
		"rates.null_description": c.Rates.NullDescription,
		"rates.comment":          c.Rates.Comment,
	}
	for key, r := range rates {
		if r < 0 || r > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidConfig, key, r)
		}
	}

	if c.Store.BatchSize <= 0 {
		return fmt.Errorf("%w: store.batch_size must be positive", ErrInvalidConfig)
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for sqlite", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn is required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}

	if c.Content.MaxTokens <= 0 {
		return fmt.Errorf("%w: content.max_tokens must be positive", ErrInvalidConfig)
	}
	return nil
}
