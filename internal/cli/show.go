package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/stanza/internal/poem"
	"github.com/roach88/stanza/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a journaled run and its order",
		Long: `Print one journaled run and the order it arranged.

The run id may be shortened to any prefix that names a single run.

Examples:
  stanza show 0190a7e2 --db ./stanza.db
  stanza show 0190a7e2 --db ./stanza.db -v`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	dbPath, err := requireJournal(cmd, opts.Database, cfg)
	if err != nil {
		return err
	}

	st, err := openJournal(dbPath)
	if err != nil {
		return err
	}
	defer closeJournal(logger, st)

	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: run})
	}
	outputRunText(cmd, run, opts.Verbose)
	return nil
}

// outputRunText prints a run header followed by its order.
func outputRunText(cmd *cobra.Command, run store.Run, verbose bool) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "Seq: %d\n", run.Seq)
	fmt.Fprintf(w, "Source: %s\n", run.Source)
	fmt.Fprintf(w, "Created: %s\n", run.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Phase: %s (%d attempt(s))\n", run.Phase, run.Attempts)
	fmt.Fprintf(w, "Adjacent: %d (minimum %d)\n", run.Adjacent, run.Minimum)
	if run.Seed != "" {
		fmt.Fprintf(w, "Seed: %s\n", run.Seed)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Order ===")
	if len(run.Entries) == 0 {
		fmt.Fprintln(w, "  (empty)")
	}
	for _, e := range run.Entries {
		category := e.Category
		if category == "" {
			category = poem.Uncategorized
		}
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "  %3d. [%s] %s\n", e.Position+1, category, title)
		if verbose {
			fmt.Fprintf(w, "       %s\n", e.Fingerprint)
		}
	}
}
