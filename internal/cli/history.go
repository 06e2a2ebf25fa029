package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/stanza/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Record   string // optional - only runs containing this fingerprint
}

// HistoryResult lists journaled runs, newest first.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled runs",
		Long: `List the runs recorded in the journal, newest first.

With --record, only runs that arranged the poem with that fingerprint are
listed ('stanza show -v' prints fingerprints).

Examples:
  stanza history --db ./stanza.db
  stanza history --db ./stanza.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "only runs containing the poem with this fingerprint")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
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

	limit := opts.Limit
	if opts.Record != "" {
		limit = 0
	}
	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Record != "" {
		runs, err = filterRuns(ctx, st, runs, opts.Record, opts.Limit)
		if err != nil {
			return err
		}
	}

	result := HistoryResult{Runs: runs}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return outputHistoryText(cmd, result)
}

// filterRuns keeps the runs that journaled fingerprint, at most limit of
// them when limit > 0.
func filterRuns(ctx context.Context, st *store.Store, runs []store.Run, fingerprint string, limit int) ([]store.Run, error) {
	ids, err := st.RunsContaining(ctx, fingerprint)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to query runs", err)
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	filtered := []store.Run{}
	for _, run := range runs {
		if !keep[run.ID] {
			continue
		}
		filtered = append(filtered, run)
		if limit > 0 && len(filtered) == limit {
			break
		}
	}
	return filtered, nil
}

// outputHistoryText prints one line per run.
func outputHistoryText(cmd *cobra.Command, result HistoryResult) error {
	w := cmd.OutOrStdout()

	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs journaled")
		return nil
	}

	fmt.Fprintf(w, "Runs: %d\n", len(result.Runs))
	for _, run := range result.Runs {
		fmt.Fprintf(w, "  #%-4d %s  %-11s  %d record(s), %d adjacent  %s\n",
			run.Seq,
			run.ID,
			run.Phase,
			run.RecordCount,
			run.Adjacent,
			run.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return nil
}

// openJournal opens an existing journal. A missing file is a command
// error rather than a fresh empty journal.
func openJournal(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "journal not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	slog.Debug("journal opened", "path", path)
	return st, nil
}

// closeJournal closes a journal at the end of a command. The command's
// result is already decided, so a close error is only logged.
func closeJournal(logger *slog.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Error("error closing journal", "error", err)
	}
}
