package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"time-tagger/internal/api"
	"time-tagger/internal/config"
	"time-tagger/internal/logging"
)

// APIFactory opens the storage behind the business API once configuration is
// known. The returned close function releases it.
type APIFactory func(cfg *config.Config, logger *slog.Logger) (api.BusinessAPI, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory APIFactory
	loader  *config.Loader

	app     *App
	closeFn func() error

	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	customIO bool
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(factory APIFactory) *RootCommand {
	root := &RootCommand{
		factory: factory,
		loader:  config.NewLoader(),
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}

	root.cmd = &cobra.Command{
		Use:   "tg",
		Short: "A tag-based time tracker",
		Long: `Time Tagger (tg) keeps time records described by free text with #tags.
Records are imported from tabular text and summarised in reports grouped by tags.

EXAMPLES:
  tg import hours.csv                      # Import records from a file
  pbpaste | tg import --dry-run            # Check pasted data without saving
  tg report                                # Today's report
  tg report 1w --group tagz --records      # Last week, grouped by tags, with records
  tg report --from 2024-01-01 --to 2024-01-31 --period week --format h.1
  tg report 1mo --csv > january.csv        # Spreadsheet layout
  tg export --dt iso > backup.tsv          # Export everything for re-import
  tg tags                                  # Tags in use, most recent first
  tg priority '#meeting' 2                 # Mark a tag as secondary

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > .env file > config file > defaults

  Config file:    TG_CONFIG (default: ~/.config/tg/config.toml)
  Env file:       --env-file (default: .env in the working directory)

  Database Configuration:
    TG_DB_DIR                              Database directory (default: ~/.tg)
    TG_DB_FILENAME                         Database filename (default: tg.db)
    TG_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    TG_DB_WRITE_TIMEOUT                    Write timeout (default: 30s)

  Time Configuration:
    TG_TIME_DISPLAY_FORMAT                 Time format (default: 2006-01-02 15:04:05)
    TG_TIMEZONE                            Timezone for dates (default: Local)

  Report Configuration:
    TG_REPORT_GROUPING                     none, tagz or ds (default: tagz)
    TG_REPORT_PERIOD                       none, day, week, month, quarter, year
    TG_REPORT_FORMAT                       h, h.1, h.2, h.3, h:mm, h:mm:ss
    TG_REPORT_SHOW_RECORDS                 Show records in groups
    TG_REPORT_HIDE_SECONDARY               Hide secondary tags

  Application Configuration:
    TG_IMPORT_YIELD_EVERY                  Rows between progress checks
    TG_APP_TIMEOUT                         Application timeout (default: 60s)
    TG_LOG_LEVEL                           debug, info, warn, error
    TG_LOG_FORMAT                          text or json
    TG_DEBUG                               Print debug traces

RANGES:
  today, 1d, 2w, 3mo, 1y                   # Days ending today

GETTING HELP:
  tg [command] --help                      # Get help for any specific command
  tg completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetIO replaces the process streams used by all commands
func (r *RootCommand) SetIO(in io.Reader, out, errOut io.Writer) {
	r.in = in
	r.out = out
	r.errOut = errOut
	r.customIO = true
	r.cmd.SetIn(in)
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
}

// SetArgs sets the arguments to parse instead of os.Args
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Execute runs the root command and releases the storage afterwards
func (r *RootCommand) Execute() error {
	err := r.cmd.Execute()
	if r.closeFn != nil {
		if cerr := r.closeFn(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
		r.closeFn = nil
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Sources
	flags.String("config", "", "Config file (overrides TG_CONFIG)")
	flags.String("env-file", "", "Env file read before the environment (default: .env)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TG_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TG_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TG_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TG_DB_WRITE_TIMEOUT)")

	// Time configuration
	flags.String("time-format", "", "Time display format (overrides TG_TIME_DISPLAY_FORMAT)")
	flags.String("timezone", "", "IANA timezone for dates (overrides TG_TIMEZONE)")

	// Import configuration
	flags.Int("yield-every", 0, "Rows between progress checks (overrides TG_IMPORT_YIELD_EVERY)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TG_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TG_APP_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides TG_LOG_LEVEL)")
	flags.String("log-format", "", "Log format (overrides TG_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Import command
	var dryRun bool
	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import records from tabular text",
		Long: `Import time records from CSV or tab separated text.

The first non-empty line is the header. Columns are matched by name:
start/stop (date-times or epochs), date with start/stop clock times,
duration, description/notes, tags and projectname.
Records that already exist are updated in place.

Examples:
  tg import hours.csv
  tg import - < hours.tsv
  tg import --dry-run hours.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewImportCommand(r.app).Execute(ctx, args, dryRun)
		},
	}
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Analyse the data without saving it")

	// Report command
	var params ReportParams
	var grouping, period, format string
	var hideSecondary, showRecords bool
	reportCmd := &cobra.Command{
		Use:   "report [range]",
		Short: "Summarise time per tag group",
		Long: `Summarise recorded time for a range of days.

Ranges: today (default), 1d, 2w, 3mo, 1y. --from and --to select explicit
dates (YYYY-MM-DD, both inclusive) and take precedence over the range.

Examples:
  tg report 1w
  tg report --tags '#client' --group tagz --period day
  tg report 1mo --group ds --records --format h.2
  tg report --from 2024-01-01 --to 2024-03-31 --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			flags := cmd.Flags()
			if flags.Changed("group") {
				params.Grouping = &grouping
			}
			if flags.Changed("period") {
				params.Period = &period
			}
			if flags.Changed("format") {
				params.Format = &format
			}
			if flags.Changed("hide-secondary") {
				params.HideSecondary = &hideSecondary
			}
			if flags.Changed("records") {
				params.ShowRecords = &showRecords
			}
			return NewReportCommand(r.app).Execute(ctx, args, params)
		},
	}
	reportFlags := reportCmd.Flags()
	reportFlags.StringVar(&params.From, "from", "", "First date, YYYY-MM-DD")
	reportFlags.StringVar(&params.To, "to", "", "Last date, YYYY-MM-DD (default: today)")
	reportFlags.StringSliceVar(&params.Tags, "tags", nil, "Only records carrying all of these tags")
	reportFlags.StringVar(&grouping, "group", "", "Grouping: none, tagz or ds")
	reportFlags.StringVar(&period, "period", "", "Period: none, day, week, month, quarter or year")
	reportFlags.StringVar(&format, "format", "", "Duration format: h, h.1, h.2, h.3, h:mm or h:mm:ss")
	reportFlags.BoolVar(&hideSecondary, "hide-secondary", false, "Leave secondary tags out of group names")
	reportFlags.BoolVar(&showRecords, "records", false, "List the records in each group")
	reportFlags.BoolVar(&params.CSV, "csv", false, "Write the spreadsheet layout to stdout")
	reportFlags.BoolVar(&params.Save, "save", false, "Write the spreadsheet layout to timetagger-<dates>.csv")
	reportCmd.MarkFlagsMutuallyExclusive("csv", "save")

	// Export command
	var dateTimeFormat string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all records for re-import",
		Long: `Write every record as tab separated text with the columns
key, start, stop, tags and description. The output can be imported again.

Date-time formats:
  local - 2006-01-02 15:04:05 in the configured timezone (default)
  unix  - seconds since the epoch
  iso   - RFC 3339 in UTC`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewExportCommand(r.app).Execute(ctx, dateTimeFormat)
		},
	}
	exportCmd.Flags().StringVar(&dateTimeFormat, "dt", "local", "Date-time format: local, unix or iso")

	// Tags command
	var rebuild bool
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewTagsCommand(r.app).List(ctx, rebuild)
		},
	}
	tagsCmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild the tag list from all records")

	// Priority command
	priorityCmd := &cobra.Command{
		Use:   "priority <tag> <1|2>",
		Short: "Mark a tag as primary (1) or secondary (2)",
		Long: `Set a tag's priority. Secondary tags sort after primary tags in
group names and can be left out with report --hide-secondary.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewTagsCommand(r.app).SetPriority(ctx, args)
		},
	}

	r.cmd.AddCommand(
		importCmd,
		reportCmd,
		exportCmd,
		tagsCmd,
		priorityCmd,
	)
}

// setup loads configuration, installs logging and opens the business API
func (r *RootCommand) setup(cmd *cobra.Command) error {
	cfg, err := r.loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if cfg.Application.Verbose {
		level = "debug"
	}
	logger := logging.Setup(level, cfg.Logging.Format, r.errOut)

	businessAPI, closeFn, err := r.factory(cfg, logger)
	if err != nil {
		return err
	}
	r.closeFn = closeFn

	r.app = NewApp(businessAPI, cfg)
	if r.customIO {
		r.app.SetIO(r.in, r.out, r.errOut)
	}
	logger.Debug("command started", "command", cmd.Name(), "database", cfg.GetDatabasePath())
	return nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.app != nil && r.app.config != nil {
		return r.app.config.Application.Timeout
	}
	return 60 * time.Second
}

// overridesFromFlags collects the global flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}

	overrides.ConfigFile = str("config")
	overrides.EnvFile = str("env-file")
	overrides.DBDir = str("db-dir")
	overrides.DBFilename = str("db-filename")
	overrides.DBQueryTimeout = dur("db-query-timeout")
	overrides.DBWriteTimeout = dur("db-write-timeout")
	overrides.TimeFormat = str("time-format")
	overrides.Timezone = str("timezone")
	overrides.Timeout = dur("app-timeout")
	overrides.LogLevel = str("log-level")
	overrides.LogFormat = str("log-format")

	if flags.Changed("yield-every") {
		v, _ := flags.GetInt("yield-every")
		overrides.YieldEvery = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	return overrides
}
