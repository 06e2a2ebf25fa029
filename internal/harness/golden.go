package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file form of an arrangement.
type Snapshot struct {
	Scenario string   `json:"scenario"`
	Phase    string   `json:"phase"`
	Attempts int      `json:"attempts"`
	Adjacent int      `json:"adjacent"`
	Minimum  int      `json:"minimum"`
	Order    []string `json:"order"` // "id category title"
}

// NewSnapshot captures the arranged order of a scenario result.
func NewSnapshot(name string, r *Result) Snapshot {
	order := make([]string, len(r.Arranged.Records))
	for i, rec := range r.Arranged.Records {
		order[i] = fmt.Sprintf("%d %s %s", rec.ID, rec.Label(), rec.Title())
	}
	return Snapshot{
		Scenario: name,
		Phase:    string(r.Arranged.Phase),
		Attempts: r.Arranged.Attempts,
		Adjacent: r.Arranged.Adjacent,
		Minimum:  r.Arranged.Minimum,
		Order:    order,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := json.MarshalIndent(NewSnapshot(name, result), "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, append(data, '\n'))
	return nil
}
