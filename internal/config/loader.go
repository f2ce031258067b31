package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Loader resolves a Config from defaults, files, environment and flags
type Loader struct {
	config     *Config
	configFile string
	envFile    string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config:  NewConfig(),
		envFile: ".env",
	}
}

// DefaultConfigFile returns ~/.config/tg/config.toml
func DefaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tg", "config.toml")
}

// Load layers the TOML file, the .env file and the environment over the
// defaults. Flags are applied afterwards by LoadWithOverrides.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	// existing environment wins over .env
	if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", l.envFile, err)
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// loadFile decodes the TOML config file. An explicitly named file must
// exist; the default one is optional.
func (l *Loader) loadFile() error {
	path := l.configFile
	explicit := path != ""
	if !explicit {
		if env := os.Getenv("TG_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultConfigFile()
		}
	}
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, l.config); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	home, _ := os.UserHomeDir()
	l.config.Database.Dir = expandHome(l.config.Database.Dir, home)
	return nil
}

func expandHome(path, home string) string {
	if home != "" && len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if overrides != nil {
		if overrides.ConfigFile != nil {
			l.configFile = *overrides.ConfigFile
		}
		if overrides.EnvFile != nil {
			l.envFile = *overrides.EnvFile
		}
	}

	config, err := l.Load()
	if err != nil {
		return nil, err
	}
	if overrides == nil {
		return config, nil
	}

	l.applyOverrides(config, overrides)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ConfigOverrides carries the flags the user set; nil means unset
type ConfigOverrides struct {
	ConfigFile *string
	EnvFile    *string

	DBDir            *string
	DBFilename       *string
	DBQueryTimeout   *time.Duration
	DBWriteTimeout   *time.Duration
	DBDirPermissions *uint32

	TimeFormat *string
	Timezone   *string
	YieldEvery *int
	Timeout    *time.Duration
	Verbose    *bool
	LogLevel   *string
	LogFormat  *string
}

// applyOverrides copies every flag the user set onto config
func (l *Loader) applyOverrides(config *Config, o *ConfigOverrides) {
	override(&config.Database.Dir, o.DBDir)
	override(&config.Database.Filename, o.DBFilename)
	override(&config.Database.QueryTimeout, o.DBQueryTimeout)
	override(&config.Database.WriteTimeout, o.DBWriteTimeout)
	override(&config.Database.DirPermissions, o.DBDirPermissions)
	override(&config.Time.DisplayFormat, o.TimeFormat)
	override(&config.Time.Timezone, o.Timezone)
	override(&config.Import.YieldEvery, o.YieldEvery)
	override(&config.Application.Timeout, o.Timeout)
	override(&config.Application.Verbose, o.Verbose)
	override(&config.Logging.Level, o.LogLevel)
	override(&config.Logging.Format, o.LogFormat)
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
