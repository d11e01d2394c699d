package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../../testdata/scenarios"

const passingScenario = `name: single_gate
description: "One gate compiles"
trace_id: trace-single
steps:
  - instruction: {name: h, qubits: [0]}
    expect:
      kind: gate
`

const failingScenario = `name: wrong_expectation
description: "The expectation does not hold"
steps:
  - instruction: {name: h, qubits: [0]}
    expect:
      error: E202
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "json"}, t.TempDir())
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testTraceID, resp.TraceID)
	assert.Equal(t, float64(0), data["total"])
}

func TestTestCommandShippedScenarios(t *testing.T) {
	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, scenariosDir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ pauli_canonical")
	assert.Contains(t, out, "✓ strict_dimensions")
	assert.Contains(t, out, "Test Summary: 4 passed, 0 failed, 4 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "json"}, "--filter", "pauli_*", scenariosDir)
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	assert.Equal(t, float64(1), data["total"])
	scenarios := data["scenarios"].([]any)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "pauli_canonical", scenarios[0].(map[string]any)["name"])
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "single_gate.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong_expectation.yaml"), failingScenario)

	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ single_gate")
	assert.Contains(t, out, "✗ wrong_expectation")
	assert.Contains(t, out, "expected error E202, got gate")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")

	out, _, err = runCommand(t, NewTestCommand, &RootOptions{Format: "json"}, dir)
	require.Error(t, err)
	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, float64(1), data["failed"])
}

func TestTestCommandInvalidScenarioFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: broken\nsteps: []\n")

	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "single_gate.yaml"), passingScenario)

	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ single_gate (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "single_gate.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name":"single_gate"`)
	assert.Contains(t, string(golden), `"trace_id":"trace-single"`)

	_, _, err = runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, dir)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "golden", "single_gate.golden"), `{"scenario_name":"single_gate"}`)
	out, _, err = runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, dir)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestTestHelpText(t *testing.T) {
	out, _, err := runCommand(t, NewTestCommand, &RootOptions{Format: "text"}, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "conformance")
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "scenarios-dir")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "b.yml"), passingScenario)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "nested", "c.yaml"), passingScenario)

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = findScenarioFiles(dir, "a*")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.yaml", filepath.Base(files[0]))

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	tests := []struct {
		scenario string
		want     string
	}{
		{"scenarios/pauli.yaml", "scenarios/golden/pauli.golden"},
		{"/tmp/x/mixed.yml", "/tmp/x/golden/mixed.golden"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, goldenFilePath(tt.scenario))
	}
}
