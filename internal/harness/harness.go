package harness

import (
	"log/slog"

	"github.com/roach88/stanza/internal/arrange"
	"github.com/roach88/stanza/internal/poem"
	"github.com/roach88/stanza/internal/testutil"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool

	// Errors holds one message per failed assertion.
	Errors []string

	// Input is the collection in its original order.
	Input []*poem.Record

	// Arranged is the engine's output.
	Arranged *arrange.Result

	// Feasibility is Analyze of the input.
	Feasibility arrange.Feasibility
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed assertion and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run arranges the scenario's collection and evaluates its assertions.
// Scenarios are deterministic: the same scenario always produces the same
// result.
func Run(s *Scenario) (*Result, error) {
	return RunWithLogger(s, nil)
}

// RunWithLogger is Run with the engine logging to logger.
func RunWithLogger(s *Scenario, logger *slog.Logger) (*Result, error) {
	if err := validateScenario(s); err != nil {
		return nil, err
	}

	records := testutil.Records(s.Categories...)
	input := make([]*poem.Record, len(records))
	copy(input, records)

	result := NewResult()
	result.Input = input
	result.Feasibility = arrange.Analyze(records)
	result.Arranged = arrange.Arrange(records, randomSource(s.Random), arrange.Options{
		MaxAttempts: s.MaxAttempts,
		RepairOnly:  s.RepairOnly,
		Logger:      logger,
	})

	for _, a := range s.Assertions {
		if err := evaluate(a, result); err != nil {
			result.AddError(err.Error())
		}
	}
	return result, nil
}

func randomSource(cfg RandomConfig) arrange.RandomSource {
	if cfg.Seed != nil {
		return arrange.NewSeeded(*cfg.Seed)
	}
	return testutil.NewScriptedSource(cfg.Script...)
}
