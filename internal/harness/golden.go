package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/opload/internal/ir"
)

// snapshotMap converts a result to a map[string]any for canonical JSON.
// ir.MarshalCanonical only handles ops and generic JSON shapes.
func snapshotMap(scenarioName string, result *Result) (map[string]any, error) {
	steps := make([]any, len(result.Steps))
	for i, s := range result.Steps {
		step := map[string]any{"index": s.Index}
		if s.Name != "" {
			step["name"] = s.Name
		}
		if s.OK() {
			wire, err := ir.WireFields(s.Op)
			if err != nil {
				return nil, err
			}
			step["kind"] = string(s.Op.Kind())
			step["key"] = s.Key
			step["op"] = wire
		} else {
			step["code"] = s.Code
		}
		steps[i] = step
	}

	return map[string]any{
		"scenario_name": scenarioName,
		"trace_id":      result.TraceID,
		"steps":         steps,
	}, nil
}

// MarshalSnapshot returns the canonical JSON snapshot of a scenario run.
// Error messages are left out so rewording one does not churn golden files.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	m, err := snapshotMap(scenarioName, result)
	if err != nil {
		return nil, err
	}
	return ir.MarshalCanonical(m)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
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
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
