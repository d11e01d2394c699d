package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/opload/internal/compiler"
)

func TestValidateValidCircuit(t *testing.T) {
	out, _, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, circuitPath("bell.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 3 instruction(s) valid")
}

func TestValidateValidCircuitJSON(t *testing.T) {
	out, _, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "json"}, circuitPath("experiments.json"))
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testTraceID, resp.TraceID)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(7), data["instructions"])
}

func TestValidateReportsEveryError(t *testing.T) {
	out, _, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "json"}, circuitPath("invalid.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, compiler.ErrLengthMismatch, resp.Error.Code)
	assert.Equal(t, false, data["valid"])
	assert.Equal(t, float64(4), data["instructions"])
	assert.Len(t, data["errors"].([]any), 3)
}

func TestValidateInvalidCircuitText(t *testing.T) {
	out, _, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, circuitPath("invalid.json"))
	require.Error(t, err)

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E204")
	assert.Contains(t, out, "E201")
	assert.Contains(t, out, "E206")
}

func TestValidateStrictDimensions(t *testing.T) {
	// Without --strict a 4x4 matrix on one qubit is accepted.
	out, _, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, circuitPath("oversized.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 2 instruction(s) valid")

	out, stderr, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "json"}, "--strict", circuitPath("oversized.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decodeResponse(t, out)
	assert.Equal(t, compiler.ErrDimensionMismatch, resp.Error.Code)
	errs := data["errors"].([]any)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, "mat", first["name"])
	assert.Equal(t, float64(0), first["index"])
	assert.Equal(t, "params", first["field"])

	assert.Contains(t, stderr, `msg="instruction invalid"`)
	assert.Contains(t, stderr, "code="+compiler.ErrDimensionMismatch)
}

func TestValidateLoadErrors(t *testing.T) {
	for _, file := range []string{"missing.json", "circuit.qasm", "malformed.json"} {
		t.Run(file, func(t *testing.T) {
			out, _, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "text"}, circuitPath(file))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E00")
		})
	}
}

func TestValidateRequiresOneArg(t *testing.T) {
	_, _, err := runCommand(t, NewValidateCommand, &RootOptions{Format: "text"})
	require.Error(t, err)
}
