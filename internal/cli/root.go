package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mustafa861/library/internal/catalog"
	"github.com/mustafa861/library/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // overrides LIBRARY_DB_PATH when set

	// Clock allows overriding the catalog clock (for testing).
	// If nil, the wall clock is used.
	Clock catalog.Clock

	config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the library CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Library catalog and lending tracker",
		Long: `Record books, members and loans in a local SQLite catalog.

Run "library shell" for the interactive menu, or use the one-shot commands
for scripting. Settings come from LIBRARY_* environment variables (and an
optional .env file); --db overrides LIBRARY_DB_PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			configureLogging(cmd.ErrOrStderr(), cfg, opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $LIBRARY_DB_PATH or library.db)")

	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewAddBookCommand(opts))
	cmd.AddCommand(NewAddMemberCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewIssueCommand(opts))
	cmd.AddCommand(NewReturnCommand(opts))
	cmd.AddCommand(NewLoansCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// Execute runs the root command with args and returns the process exit code.
// Errors not already written by a command are printed to stderr.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !isReported(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}

// settings loads the environment configuration once.
func (o *RootOptions) settings() (*config.Config, error) {
	if o.config != nil {
		return o.config, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	o.config = cfg
	return cfg, nil
}

// openCatalog opens the catalog named by --db or the configuration.
// Callers must Close it.
func openCatalog(opts *RootOptions, cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, err := opts.settings()
	if err != nil {
		return nil, err
	}

	path := opts.Database
	if path == "" {
		path = cfg.DBPath
	}

	catalogOpts := []catalog.Option{
		catalog.WithLoanDays(cfg.LoanDays),
		catalog.WithLogger(slog.Default()),
	}
	if opts.Clock != nil {
		catalogOpts = append(catalogOpts, catalog.WithClock(opts.Clock))
	}

	newFormatter(opts, cmd).VerboseLog("Using database: %s (loan period %d days)", path, cfg.LoanDays)
	c, err := catalog.Open(path, catalogOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return c, nil
}

// closeCatalog closes c and logs (but does not return) a close failure.
func closeCatalog(c *catalog.Catalog) {
	if err := c.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// configureLogging installs the default slog handler on w.
// --verbose forces debug level.
func configureLogging(w io.Writer, cfg *config.Config, verbose bool) {
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
