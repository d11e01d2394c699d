package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pauli(qubits []any, label string) Step {
	return Step{Instruction: map[string]any{
		"name":   "obs_pauli",
		"qubits": qubits,
		"params": []any{label},
		"coeffs": []any{1},
	}}
}

func runSteps(t *testing.T, steps []Step) *Result {
	t.Helper()
	result, err := Run(&Scenario{Name: "assertions", Description: "d", Steps: steps})
	require.NoError(t, err)
	return result
}

func TestAssertSameKey(t *testing.T) {
	result := runSteps(t, []Step{
		pauli([]any{2, 0, 1}, "XYZ"),
		pauli([]any{0, 1, 2}, "YZX"),
		pauli([]any{0, 1, 2}, "XYZ"),
		{Instruction: map[string]any{"name": "probs"}},
	})

	assert.Empty(t, EvaluateAssertions(result, []Assertion{{Type: AssertSameKey, Steps: []int{0, 1}}}))

	errs := EvaluateAssertions(result, []Assertion{{Type: AssertSameKey, Steps: []int{0, 2}}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: same_key")

	errs = EvaluateAssertions(result, []Assertion{{Type: AssertSameKey, Steps: []int{0, 3}}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "step 3 to compile")
}

func TestAssertDistinctKeys(t *testing.T) {
	result := runSteps(t, []Step{
		pauli([]any{2, 0, 1}, "XYZ"),
		pauli([]any{0, 1, 2}, "YZX"),
		pauli([]any{0, 1, 2}, "XYZ"),
	})

	assert.Empty(t, EvaluateAssertions(result, []Assertion{{Type: AssertDistinctKeys, Steps: []int{0, 2}}}))

	errs := EvaluateAssertions(result, []Assertion{{Type: AssertDistinctKeys, Steps: []int{0, 1, 2}}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "steps 0 and 1 share")
}

func TestAssertKindCount(t *testing.T) {
	result := runSteps(t, []Step{
		{Instruction: map[string]any{"name": "h", "qubits": []any{0}}},
		{Instruction: map[string]any{"name": "x", "qubits": []any{1}}},
		{Instruction: map[string]any{"name": "y"}},
	})

	assert.Empty(t, EvaluateAssertions(result, []Assertion{{Type: AssertKindCount, Kind: "gate", Count: 2}}))
	assert.Empty(t, EvaluateAssertions(result, []Assertion{{Type: AssertKindCount, Kind: "measure", Count: 0}}))

	errs := EvaluateAssertions(result, []Assertion{{Type: AssertKindCount, Kind: "gate", Count: 3}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: 3 op(s) of kind gate")
	assert.Contains(t, errs[0], "Actual: 2")
}

func TestAssertUnknownType(t *testing.T) {
	errs := EvaluateAssertions(NewResult("t"), []Assertion{{Type: "final_state"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown assertion type")
}
