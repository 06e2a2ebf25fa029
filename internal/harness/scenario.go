package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines one arrangement case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Categories lists one category per record, in input order.
	// An empty string builds an uncategorized record.
	Categories []string `yaml:"categories"`

	// Random selects the random source.
	Random RandomConfig `yaml:"random"`

	// MaxAttempts bounds the random phase. Zero means the default.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// RepairOnly skips the interleave pass.
	RepairOnly bool `yaml:"repair_only,omitempty"`

	// Golden snapshots the arranged order to testdata/golden/{name}.golden.
	Golden bool `yaml:"golden,omitempty"`

	// Assertions validate the arrangement.
	Assertions []Assertion `yaml:"assertions"`
}

// RandomConfig selects a scripted or seeded random source.
// Exactly one of Script or Seed must be set.
type RandomConfig struct {
	Script []int   `yaml:"script,omitempty"`
	Seed   *uint64 `yaml:"seed,omitempty"`
}

// Assertion validates the arranged order.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Phase is the expected phase (used by phase).
	Phase string `yaml:"phase,omitempty"`

	// Count is the expected number of adjacent pairs (used by adjacent).
	Count int `yaml:"count,omitempty"`

	// Feasible is the expected feasibility (used by feasible).
	Feasible bool `yaml:"feasible,omitempty"`

	// Titles is the expected order (used by order).
	Titles []string `yaml:"titles,omitempty"`
}

// Assertion type constants.
const (
	AssertPermutation       = "permutation"
	AssertSequentialIDs     = "sequential_ids"
	AssertNoAdjacent        = "no_adjacent"
	AssertAdjacentAtMinimum = "adjacent_at_minimum"
	AssertAdjacent          = "adjacent"
	AssertPhase             = "phase"
	AssertFeasible          = "feasible"
	AssertOrder             = "order"
)

var assertionTypes = []string{
	AssertPermutation,
	AssertSequentialIDs,
	AssertNoAdjacent,
	AssertAdjacentAtMinimum,
	AssertAdjacent,
	AssertPhase,
	AssertFeasible,
	AssertOrder,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), is missing required fields or
// violates schema.cue.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", filepath.Base(path), err)
	}
	if err := checkSchema(data); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", filepath.Base(path), err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be >= 0, got %d", s.MaxAttempts)
	}

	hasScript := len(s.Random.Script) > 0
	hasSeed := s.Random.Seed != nil
	if hasScript == hasSeed {
		return fmt.Errorf("random needs exactly one of script or seed")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if !slices.Contains(assertionTypes, a.Type) {
			return fmt.Errorf("assertion[%d]: unknown type %q", i, a.Type)
		}
		if a.Type == AssertPhase && a.Phase == "" {
			return fmt.Errorf("assertion[%d]: phase is required", i)
		}
		if a.Type == AssertOrder && len(a.Titles) != len(s.Categories) {
			return fmt.Errorf("assertion[%d]: order lists %d titles for %d records", i, len(a.Titles), len(s.Categories))
		}
	}
	return nil
}
