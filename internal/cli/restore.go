package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/stanza/internal/collection"
	"github.com/roach88/stanza/internal/poem"
	"github.com/roach88/stanza/internal/store"
)

// RestoreOptions holds flags for the restore command.
type RestoreOptions struct {
	*RootOptions
	Database   string
	Collection string // optional - defaults to the run's source
	Force      bool
}

// RestoreResult is the outcome of a restore.
type RestoreResult struct {
	RunID string `json:"run_id"`
	Path  string `json:"path"`
	Total int    `json:"total"`
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RestoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "restore [run-id]",
		Short: "Rewrite a collection in a journaled order",
		Long: `Rewrite a collection in the order recorded by a journaled run.

Without a run id the latest run is restored. The collection written to is
the run's source unless --collection is given. This is how a shuffle whose
final write failed is retried.

The target must still hold the same poems as the run; --force overwrites
it regardless.

Examples:
  stanza restore --db ./stanza.db
  stanza restore 0190a7e2 --db ./stanza.db --collection ./poems.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runRestore(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal")
	cmd.Flags().StringVar(&opts.Collection, "collection", "", "collection to write (default: the run's source)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite even if the collection holds different poems")

	return cmd
}

func runRestore(opts *RestoreOptions, runID string, cmd *cobra.Command) error {
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

	var run store.Run
	if runID == "" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, runID)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	records, err := run.Records()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode run", err)
	}

	target := opts.Collection
	if target == "" {
		target = run.Source
	}

	if !opts.Force {
		if err := verifyTarget(ctx, target, records); err != nil {
			return err
		}
	}

	if err := collection.Save(ctx, target, records); err != nil {
		return WrapExitError(ExitCommandError, "failed to save collection", err)
	}
	logger.Info("run restored", "run_id", run.ID, "path", target)

	result := RestoreResult{RunID: run.ID, Path: target, Total: len(records)}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from run %s. Total items: %d\n",
		filepath.Base(result.Path), result.RunID, result.Total)
	return nil
}

// verifyTarget checks that the collection at path holds the same poems as
// records, in any order. A missing file passes.
func verifyTarget(ctx context.Context, path string, records []*poem.Record) error {
	current, err := collection.Load(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load collection", err)
	}

	same, err := samePoems(current, records)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compare collection", err)
	}
	if !same {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%s no longer holds the poems of this run; use --force to overwrite", filepath.Base(path)))
	}
	return nil
}

// samePoems reports whether a and b hold the same multiset of poems,
// ignoring ids and order.
func samePoems(a, b []*poem.Record) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	fa, err := fingerprints(a)
	if err != nil {
		return false, err
	}
	fb, err := fingerprints(b)
	if err != nil {
		return false, err
	}
	return slices.Equal(fa, fb), nil
}

func fingerprints(records []*poem.Record) ([]string, error) {
	out := make([]string, len(records))
	for i, r := range records {
		fp, err := r.Fingerprint()
		if err != nil {
			return nil, err
		}
		out[i] = fp
	}
	slices.Sort(out)
	return out, nil
}
