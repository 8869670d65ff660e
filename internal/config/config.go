// Package config provides Viper-based configuration loading for the bossfight tools.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileConfig holds the optional rotating log file sink.
type FileConfig struct {
	// Path enables the file sink when non-empty.
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string     `mapstructure:"format"`
	File   FileConfig `mapstructure:"file"`
}

// ContentConfig locates the YAML and Lua content the catalog loads.
type ContentConfig struct {
	ClassesDir string `mapstructure:"classes_dir"`
	BossesDir  string `mapstructure:"bosses_dir"`
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// PartyMember names one player build in the simulated party.
type PartyMember struct {
	Class string `mapstructure:"class"`
	Level int    `mapstructure:"level"`
}

// SimulationConfig drives batch runs and boss health tuning.
type SimulationConfig struct {
	// Workers bounds the number of fights simulated concurrently.
	Workers int `mapstructure:"workers"`
	// Fights is the batch size per run or per search step.
	Fights int `mapstructure:"fights"`
	// MaxTurns ends a fight as a timeout once exceeded.
	MaxTurns int `mapstructure:"max_turns"`
	// Seed makes batches reproducible; fight i uses Seed+i.
	Seed  uint64        `mapstructure:"seed"`
	Boss  string        `mapstructure:"boss"`
	Party []PartyMember `mapstructure:"party"`
	// TargetWinRate is the party win rate the tuner searches for, in [0, 1].
	TargetWinRate float64 `mapstructure:"target_win_rate"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MinHealth     int     `mapstructure:"min_health"`
	MaxHealth     int     `mapstructure:"max_health"`
	Iterations    int     `mapstructure:"iterations"`
}

// ScriptingConfig controls the Lua behaviour scripts.
type ScriptingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// InstructionLimit caps the VM instructions of a single hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.File.Path != "" && l.File.MaxSizeMB < 1 {
		return fmt.Errorf("logging.file.max_size_mb must be >= 1, got %d", l.File.MaxSizeMB)
	}
	if l.File.MaxBackups < 0 || l.File.MaxAgeDays < 0 {
		return errors.New("logging.file.max_backups and logging.file.max_age_days must not be negative")
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.ClassesDir == "" {
		errs = append(errs, "content.classes_dir must not be empty")
	}
	if c.BossesDir == "" {
		errs = append(errs, "content.bosses_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 1, got %d", s.Workers))
	}
	if s.Fights < 1 {
		errs = append(errs, fmt.Sprintf("simulation.fights must be >= 1, got %d", s.Fights))
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	if s.TargetWinRate < 0 || s.TargetWinRate > 1 {
		errs = append(errs, fmt.Sprintf("simulation.target_win_rate must be in [0, 1], got %g", s.TargetWinRate))
	}
	if s.Tolerance < 0 {
		errs = append(errs, fmt.Sprintf("simulation.tolerance must be >= 0, got %g", s.Tolerance))
	}
	if s.MinHealth < 1 {
		errs = append(errs, fmt.Sprintf("simulation.min_health must be >= 1, got %d", s.MinHealth))
	}
	if s.MaxHealth < s.MinHealth {
		errs = append(errs, "simulation.max_health must not be below simulation.min_health")
	}
	if s.Iterations < 1 {
		errs = append(errs, fmt.Sprintf("simulation.iterations must be >= 1, got %d", s.Iterations))
	}
	for i, m := range s.Party {
		if m.Class == "" {
			errs = append(errs, fmt.Sprintf("simulation.party[%d].class must not be empty", i))
		}
		if m.Level < 1 {
			errs = append(errs, fmt.Sprintf("simulation.party[%d].level must be >= 1, got %d", i, m.Level))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BOSSFIGHT_ prefix
	v.SetEnvPrefix("BOSSFIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance carrying only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.max_size_mb", 100)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age_days", 28)

	v.SetDefault("content.classes_dir", "content/classes")
	v.SetDefault("content.bosses_dir", "content/bosses")
	v.SetDefault("content.scripts_dir", "content/scripts")

	v.SetDefault("simulation.workers", 4)
	v.SetDefault("simulation.fights", 500)
	v.SetDefault("simulation.max_turns", 200)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.target_win_rate", 0.5)
	v.SetDefault("simulation.tolerance", 0.02)
	v.SetDefault("simulation.min_health", 50)
	v.SetDefault("simulation.max_health", 2000)
	v.SetDefault("simulation.iterations", 12)

	v.SetDefault("scripting.enabled", true)
	v.SetDefault("scripting.instruction_limit", 100000)
}
