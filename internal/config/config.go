// Package config defines process configuration and how it is loaded.
package config

import "fmt"

// Save store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Seed seeds every new game.
	Seed int64 `koanf:"seed"`

	// Store picks the save slot backend: file or sqlite.
	Store string `koanf:"store"`

	// SaveDir holds slot files for the file store.
	SaveDir string `koanf:"save_dir"`

	// SQLitePath is the database file for the sqlite store.
	SQLitePath string `koanf:"sqlite_path"`

	// SaveSlotCount is the number of save slots offered.
	SaveSlotCount int `koanf:"save_slot_count"`

	// StaminaRecovery is the stamina a performer regains by sitting out a show.
	StaminaRecovery int `koanf:"stamina_recovery"`

	// RosterPath and MatchTypesPath override the embedded definitions.
	RosterPath     string `koanf:"roster_path"`
	MatchTypesPath string `koanf:"match_types_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		Seed:          1337,
		Store:         StoreFile,
		SaveDir:       "data/save",
		SQLitePath:    "data/save/wrestlegm.db",
		SaveSlotCount:   3,
		StaminaRecovery: 15,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Store != StoreFile && c.Store != StoreSQLite:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownStore, c.Store)
	case c.Store == StoreFile && c.SaveDir == "":
		return fmt.Errorf("%w: save_dir must not be empty", ErrInvalidConfig)
	case c.Store == StoreSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	case c.SaveSlotCount < 1:
		return fmt.Errorf("%w: save_slot_count must be at least 1", ErrInvalidConfig)
	case c.StaminaRecovery < 0:
		return fmt.Errorf("%w: stamina_recovery must not be negative", ErrInvalidConfig)
	}
	return nil
}
