package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/stanza/internal/arrange"
	"github.com/roach88/stanza/internal/collection"
	"github.com/roach88/stanza/internal/store"
)

// ShuffleOptions holds flags for the shuffle command.
type ShuffleOptions struct {
	*RootOptions
	Database    string
	MaxAttempts int
	Seed        uint64
	RepairOnly  bool
	DryRun      bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// Now allows overriding the journal timestamp (for testing).
	// If nil, defaults to time.Now.
	Now func() time.Time

	// Persister allows overriding how the arranged collection is written
	// (for testing). If nil, defaults to collection.File.
	Persister func(path string) collection.Persister
}

// ShuffleResult is the outcome of one shuffle invocation.
type ShuffleResult struct {
	Path      string        `json:"path"`
	Total     int           `json:"total"`
	Phase     arrange.Phase `json:"phase"`
	Attempts  int           `json:"attempts"`
	Adjacent  int           `json:"adjacent"`
	Minimum   int           `json:"minimum"`
	Seed      string        `json:"seed,omitempty"`
	RunID     string        `json:"run_id,omitempty"` // set when journaled
	DryRun    bool          `json:"dry_run,omitempty"`
	Journaled bool          `json:"journaled"`
}

// NewShuffleCommand creates the shuffle command.
func NewShuffleCommand(rootOpts *RootOptions) *cobra.Command {
	return newShuffleCommand(&ShuffleOptions{RootOptions: rootOpts})
}

func newShuffleCommand(opts *ShuffleOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shuffle [collection.json]",
		Short: "Rearrange a collection so neighbours never share a category",
		Long: `Shuffle the poems in a collection so that no two adjacent poems share a
category, renumber ids 1..n and rewrite the file.

Random shuffles are tried first. When none of them separates every
category, the poems are dealt round-robin by category and repaired
locally. If one category holds more than half of the collection the
result keeps the fewest adjacent repeats possible.

The collection path defaults to the config's collection. With --db (or a
configured journal) the arranged order is journaled before the file is
written, so a failed write can be retried with 'stanza restore'.

Examples:
  stanza shuffle
  stanza shuffle ./src/data/poemsData.json --db ./stanza.db
  stanza shuffle poems.json --seed 42 --dry-run --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runShuffle(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (empty disables)")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", arrange.DefaultMaxAttempts, "random shuffles to try before falling back")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for a reproducible arrangement")
	cmd.Flags().BoolVar(&opts.RepairOnly, "repair-only", false, "skip the interleave pass after round-robin repair")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "arrange and report without writing anything")

	return cmd
}

func runShuffle(opts *ShuffleOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	if path == "" {
		path = cfg.CollectionPath()
	}
	maxAttempts := cfg.MaxAttempts()
	if cmd.Flags().Changed("max-attempts") {
		if opts.MaxAttempts <= 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("--max-attempts must be positive, got %d", opts.MaxAttempts))
		}
		maxAttempts = opts.MaxAttempts
	}
	repairOnly := cfg.Arrange.RepairOnly
	if cmd.Flags().Changed("repair-only") {
		repairOnly = opts.RepairOnly
	}
	seed := cfg.Arrange.Seed
	if cmd.Flags().Changed("seed") {
		seed = &opts.Seed
	}

	var rng arrange.RandomSource
	result := ShuffleResult{Path: path, DryRun: opts.DryRun}
	if seed != nil {
		rng = arrange.NewSeeded(*seed)
		result.Seed = strconv.FormatUint(*seed, 10)
	} else {
		rng = arrange.NewRandom()
	}

	logger.Debug("loading collection", "path", path)
	records, err := collection.Load(ctx, path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load collection", err)
	}

	arranged := arrange.Arrange(records, rng, arrange.Options{
		MaxAttempts: maxAttempts,
		RepairOnly:  repairOnly,
		Logger:      logger,
	})
	result.Total = len(arranged.Records)
	result.Phase = arranged.Phase
	result.Attempts = arranged.Attempts
	result.Adjacent = arranged.Adjacent
	result.Minimum = arranged.Minimum

	if !opts.DryRun {
		dbPath := journalPath(cmd, opts.Database, cfg)
		if dbPath != "" {
			runID, err := journalRun(ctx, logger, opts, dbPath, path, result, arranged)
			if err != nil {
				return err
			}
			result.RunID = runID
			result.Journaled = true
			logger.Info("run journaled", "run_id", runID, "db", dbPath)
		}

		if err := opts.persister(path).Save(ctx, arranged.Records); err != nil {
			if result.Journaled {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("failed to save collection; run %s is journaled, retry with 'stanza restore %s'", result.RunID, result.RunID),
					err)
			}
			return WrapExitError(ExitCommandError, "failed to save collection", err)
		}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return outputShuffleText(cmd, result)
}

func (o *ShuffleOptions) persister(path string) collection.Persister {
	if o.Persister == nil {
		return collection.File{Path: path}
	}
	return o.Persister(path)
}

// journalRun writes the arranged order to the journal at dbPath and
// returns its run id.
func journalRun(ctx context.Context, logger *slog.Logger, opts *ShuffleOptions, dbPath, source string, result ShuffleResult, arranged *arrange.Result) (string, error) {
	entries, err := store.EntriesFrom(arranged.Records)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to journal run", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer closeJournal(logger, st)

	gen := opts.RunIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	source, err = filepath.Abs(source)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to resolve collection path", err)
	}

	run := store.Run{
		ID:          gen.Generate(),
		Source:      source,
		RecordCount: result.Total,
		Phase:       string(result.Phase),
		Attempts:    result.Attempts,
		Adjacent:    result.Adjacent,
		Minimum:     result.Minimum,
		Seed:        result.Seed,
		CreatedAt:   now(),
		Entries:     entries,
	}
	if _, _, err := st.WriteRun(ctx, run); err != nil {
		return "", WrapExitError(ExitCommandError, "failed to journal run", err)
	}
	return run.ID, nil
}

// outputShuffleText prints the shuffle summary.
func outputShuffleText(cmd *cobra.Command, result ShuffleResult) error {
	w := cmd.OutOrStdout()
	name := filepath.Base(result.Path)

	if result.DryRun {
		fmt.Fprintf(w, "Dry run: %s not written. Total items: %d\n", name, result.Total)
	} else {
		fmt.Fprintf(w, "Shuffled %s successfully. Total items: %d\n", name, result.Total)
	}

	if result.Phase != arrange.PhaseShuffle {
		fmt.Fprintf(w, "  Fallback: %s after %d attempt(s)\n", result.Phase, result.Attempts)
	}
	if result.Adjacent > 0 {
		fmt.Fprintf(w, "  Adjacent pairs: %d (minimum %d)\n", result.Adjacent, result.Minimum)
	}
	if result.Journaled {
		fmt.Fprintf(w, "  Run: %s\n", result.RunID)
	}
	return nil
}
