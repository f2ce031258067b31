package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

// Config holds all configuration options for the time tagger application
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Time        TimeConfig        `toml:"time"`
	Validation  ValidationConfig  `toml:"validation"`
	Import      ImportConfig      `toml:"import"`
	Report      ReportConfig      `toml:"report"`
	Application ApplicationConfig `toml:"application"`
	Logging     LoggingConfig     `toml:"logging"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `toml:"dir" env:"TG_DB_DIR"`
	Filename       string        `toml:"filename" env:"TG_DB_FILENAME"`
	QueryTimeout   time.Duration `toml:"query_timeout" env:"TG_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `toml:"write_timeout" env:"TG_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `toml:"dir_permissions" env:"TG_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds time formatting configuration
type TimeConfig struct {
	DisplayFormat string `toml:"display_format" env:"TG_TIME_DISPLAY_FORMAT"`
	Timezone      string `toml:"timezone" env:"TG_TIMEZONE"`
}

// ValidationConfig holds record validation limits
type ValidationConfig struct {
	MaxKeyLength         int `toml:"max_key_length" env:"TG_VALIDATION_MAX_KEY_LENGTH"`
	MaxDescriptionLength int `toml:"max_description_length" env:"TG_VALIDATION_MAX_DS_LENGTH"`
}

// ImportConfig holds ingestion settings
type ImportConfig struct {
	YieldEvery int `toml:"yield_every" env:"TG_IMPORT_YIELD_EVERY"`
}

// ReportConfig holds the default report options
type ReportConfig struct {
	Grouping       string `toml:"grouping" env:"TG_REPORT_GROUPING"`
	Period         string `toml:"period" env:"TG_REPORT_PERIOD"`
	DurationFormat string `toml:"duration_format" env:"TG_REPORT_FORMAT"`
	ShowRecords    bool   `toml:"show_records" env:"TG_REPORT_SHOW_RECORDS"`
	HideSecondary  bool   `toml:"hide_secondary" env:"TG_REPORT_HIDE_SECONDARY"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `toml:"timeout" env:"TG_APP_TIMEOUT"`
	Verbose bool          `toml:"verbose" env:"TG_APP_VERBOSE"`
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Level  string `toml:"level" env:"TG_LOG_LEVEL"`
	Format string `toml:"format" env:"TG_LOG_FORMAT"`
}

var (
	validGroupings = []string{"none", "tagz", "ds"}
	validPeriods   = []string{"none", "day", "week", "month", "quarter", "year"}
	validFormats   = []string{"h", "h.1", "h.2", "h.3", "h:mm", "h:mm:ss"}
	validLogFormat = []string{"text", "json"}
)

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".tg")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "tg.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   30 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			DisplayFormat: "2006-01-02 15:04:05",
			Timezone:      "Local",
		},
		Validation: ValidationConfig{
			MaxKeyLength:         64,
			MaxDescriptionLength: 4096,
		},
		Import: ImportConfig{
			YieldEvery: 100,
		},
		Report: ReportConfig{
			Grouping:       "tagz",
			Period:         "none",
			DurationFormat: "h:mm",
			ShowRecords:    true,
			HideSecondary:  false,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// InMemory reports whether the store lives only for the process
func (c *Config) InMemory() bool {
	return c.Database.Filename == ":memory:"
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.InMemory() {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Location returns the time zone used to interpret and display local times
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Time.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}
	if _, err := time.LoadLocation(c.Time.Timezone); err != nil {
		return &ConfigError{Field: "time.timezone", Message: "unknown time zone " + strconv.Quote(c.Time.Timezone)}
	}

	// Validate validation configuration
	if c.Validation.MaxKeyLength < 8 {
		return &ConfigError{Field: "validation.max_key_length", Message: "maximum key length must be at least 8"}
	}
	if c.Validation.MaxDescriptionLength < 1 {
		return &ConfigError{Field: "validation.max_description_length", Message: "maximum description length must be positive"}
	}

	// Validate import configuration
	if c.Import.YieldEvery < 1 {
		return &ConfigError{Field: "import.yield_every", Message: "yield interval must be at least 1"}
	}

	// Validate report configuration
	if !slices.Contains(validGroupings, c.Report.Grouping) {
		return &ConfigError{Field: "report.grouping", Message: "grouping must be one of none, tagz, ds"}
	}
	if !slices.Contains(validPeriods, c.Report.Period) {
		return &ConfigError{Field: "report.period", Message: "period must be one of none, day, week, month, quarter, year"}
	}
	if !slices.Contains(validFormats, c.Report.DurationFormat) {
		return &ConfigError{Field: "report.duration_format", Message: "duration format must be one of h, h.1, h.2, h.3, h:mm, h:mm:ss"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	// Validate logging configuration
	if !slices.Contains(validLogFormat, c.Logging.Format) {
		return &ConfigError{Field: "logging.format", Message: "log format must be text or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
