package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/stanza/internal/arrange"
	"github.com/roach88/stanza/internal/collection"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// CheckResult is the read-only report on a collection's current order.
type CheckResult struct {
	Path        string              `json:"path"`
	Adjacent    int                 `json:"adjacent"`
	OK          bool                `json:"ok"` // Adjacent <= Feasibility.Minimum
	Feasibility arrange.Feasibility `json:"feasibility"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [collection.json]",
		Short: "Report adjacent categories without changing the collection",
		Long: `Report how the collection's current order separates categories.

The report lists each category's size, the dominant category, whether an
order without adjacent repeats exists and the fewest adjacent repeats any
order must keep. The collection is not modified.

Exits 1 when the current order has more adjacent repeats than necessary.

Examples:
  stanza check
  stanza check ./src/data/poemsData.json --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCheck(opts, path, cmd)
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if path == "" {
		cfg, err := loadConfig(opts.RootOptions)
		if err != nil {
			return err
		}
		path = cfg.CollectionPath()
	}

	records, err := collection.Load(ctx, path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load collection", err)
	}

	feas := arrange.Analyze(records)
	result := CheckResult{
		Path:        path,
		Adjacent:    arrange.CountAdjacent(records),
		Feasibility: feas,
	}
	result.OK = result.Adjacent <= feas.Minimum

	if opts.Format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result}); err != nil {
			return err
		}
	} else {
		outputCheckText(cmd, result)
	}

	if !result.OK {
		return newReportedError(ExitFailure,
			fmt.Sprintf("%d avoidable adjacent pair(s)", result.Adjacent-feas.Minimum))
	}
	return nil
}

// outputCheckText prints the check report.
func outputCheckText(cmd *cobra.Command, result CheckResult) {
	w := cmd.OutOrStdout()
	feas := result.Feasibility

	fmt.Fprintf(w, "Collection: %s\n", filepath.Base(result.Path))
	fmt.Fprintf(w, "Records: %d\n", feas.N)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Categories ===")
	if len(feas.Categories) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, c := range feas.Categories {
		fmt.Fprintf(w, "  %-20s %d\n", c.Category, c.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Feasibility ===")
	if feas.Dominant != "" {
		fmt.Fprintf(w, "  Dominant:  %s (%d of %d)\n", feas.Dominant, feas.DominantCount, feas.N)
	} else {
		fmt.Fprintln(w, "  Dominant:  (none)")
	}
	fmt.Fprintf(w, "  Threshold: %d\n", feas.Threshold)
	fmt.Fprintf(w, "  Feasible:  %s\n", yesNo(feas.Feasible))
	fmt.Fprintf(w, "  Minimum:   %d\n", feas.Minimum)
	fmt.Fprintf(w, "  Adjacent:  %d\n", result.Adjacent)
	fmt.Fprintln(w)

	if result.OK {
		fmt.Fprintln(w, "✓ No avoidable adjacent categories")
		return
	}
	fmt.Fprintf(w, "✗ %d avoidable adjacent pair(s); run 'stanza shuffle'\n", result.Adjacent-feas.Minimum)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
