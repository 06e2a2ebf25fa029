package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/stanza/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the stanza CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	return newRootCommand(opts)
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stanza",
		Short: "stanza - poem collection arranger",
		Long: `Rearrange a poem collection so that no two adjacent poems share a category.

stanza reads a JSON array of poem objects, finds an order in which
neighbouring poems never repeat a category (or the fewest repeats possible
when one category dominates), renumbers ids 1..n and writes the collection
back. Runs can be journaled to SQLite and restored later.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default ./"+config.DefaultFile+" if present)")

	// Add subcommands
	cmd.AddCommand(NewShuffleCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewRestoreCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stderr, or as a JSON error envelope on stdout
// when --format json is in effect.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return code
	}
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: stdout, ErrWriter: stderr}
		if ferr := formatter.Error(errorCode(code), err.Error(), nil); ferr == nil {
			return code
		}
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return code
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger builds the command logger: text on w, DEBUG with --verbose.
// It also becomes the process default logger.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// loadConfig resolves --config, falling back to ./stanza.yaml.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Resolve(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// journalPath returns the --db flag when given, else the configured
// journal. An explicit empty --db disables the journal.
func journalPath(cmd *cobra.Command, flag string, cfg *config.Config) string {
	if cmd.Flags().Changed("db") {
		return flag
	}
	return cfg.Journal
}

// requireJournal returns the journal path for commands that read it.
func requireJournal(cmd *cobra.Command, flag string, cfg *config.Config) (string, error) {
	path := journalPath(cmd, flag, cfg)
	if path == "" {
		return "", NewExitError(ExitCommandError, "no journal: pass --db or set journal in "+config.DefaultFile)
	}
	return path, nil
}
