package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// envVar binds one TG_* variable to a config field
type envVar struct {
	name string
	set  func(string) error
}

func bind[T any](dst *T, parse func(string) (T, error)) func(string) error {
	return func(raw string) error {
		v, err := parse(raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func parseString(s string) (string, error) { return s, nil }

func parseOctal(s string) (uint32, error) {
	u, err := strconv.ParseUint(s, 8, 32)
	return uint32(u), err
}

func (c *Config) envVars() []envVar {
	return []envVar{
		{"TG_DB_DIR", bind(&c.Database.Dir, parseString)},
		{"TG_DB_FILENAME", bind(&c.Database.Filename, parseString)},
		{"TG_DB_QUERY_TIMEOUT", bind(&c.Database.QueryTimeout, time.ParseDuration)},
		{"TG_DB_WRITE_TIMEOUT", bind(&c.Database.WriteTimeout, time.ParseDuration)},
		{"TG_DB_DIR_PERMISSIONS", bind(&c.Database.DirPermissions, parseOctal)},
		{"TG_TIME_DISPLAY_FORMAT", bind(&c.Time.DisplayFormat, parseString)},
		{"TG_TIMEZONE", bind(&c.Time.Timezone, parseString)},
		{"TG_VALIDATION_MAX_KEY_LENGTH", bind(&c.Validation.MaxKeyLength, strconv.Atoi)},
		{"TG_VALIDATION_MAX_DS_LENGTH", bind(&c.Validation.MaxDescriptionLength, strconv.Atoi)},
		{"TG_IMPORT_YIELD_EVERY", bind(&c.Import.YieldEvery, strconv.Atoi)},
		{"TG_REPORT_GROUPING", bind(&c.Report.Grouping, parseString)},
		{"TG_REPORT_PERIOD", bind(&c.Report.Period, parseString)},
		{"TG_REPORT_FORMAT", bind(&c.Report.DurationFormat, parseString)},
		{"TG_REPORT_SHOW_RECORDS", bind(&c.Report.ShowRecords, strconv.ParseBool)},
		{"TG_REPORT_HIDE_SECONDARY", bind(&c.Report.HideSecondary, strconv.ParseBool)},
		{"TG_APP_TIMEOUT", bind(&c.Application.Timeout, time.ParseDuration)},
		{"TG_APP_VERBOSE", bind(&c.Application.Verbose, strconv.ParseBool)},
		{"TG_LOG_LEVEL", bind(&c.Logging.Level, parseString)},
		{"TG_LOG_FORMAT", bind(&c.Logging.Format, parseString)},
	}
}

// LoadFromEnvironment applies every set TG_* variable. Empty variables are
// ignored; a value that does not parse is a ConfigError naming the variable.
func (c *Config) LoadFromEnvironment() error {
	for _, v := range c.envVars() {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		if err := v.set(raw); err != nil {
			return &ConfigError{Field: v.name, Message: fmt.Sprintf("cannot parse %q", raw)}
		}
	}
	return nil
}
