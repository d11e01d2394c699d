package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/opload/internal/ir"
)

func TestCompileObsPauliCanonicalizes(t *testing.T) {
	op := mustCompile(t, `{name: "obs_pauli", qubits: [2, 0, 1], params: ["XYZ", "IIZ"], coeffs: [1, [0, 2]]}`)

	p := op.(*ir.ObsPauli)
	assert.Equal(t, []uint64{0, 1, 2}, p.Qubits)
	assert.Equal(t, []string{"YZX", "IZI"}, p.Labels)
	assert.Equal(t, []complex128{1, complex(0, 2)}, p.Coeffs)
}

func TestCompileObsPauliErrorOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"empty qubits first", `{name: "obs_pauli", params: [], coeffs: [1]}`, ErrEmptyQubits},
		{"empty labels", `{name: "obs_pauli", qubits: [0], coeffs: [1]}`, ErrEmptyParams},
		{"label too short", `{name: "obs_pauli", qubits: [0, 1], params: ["X"], coeffs: []}`, ErrLabelLengthMismatch},
		{"label too long", `{name: "obs_pauli", qubits: [0], params: ["Z", "XX"], coeffs: [1, 1]}`, ErrLabelLengthMismatch},
		{"too few coeffs", `{name: "obs_pauli", qubits: [0, 1], params: ["XX", "ZZ"], coeffs: [1]}`, ErrCoeffCountMismatch},
		{"no coeffs", `{name: "obs_pauli", qubits: [0], params: ["X"]}`, ErrCoeffCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := compileSrc(t, tt.src)
			requireCode(t, err, tt.code)
			assert.Nil(t, op)
		})
	}
}

func TestCompileObsPauliCountsCharacters(t *testing.T) {
	// Two characters, four bytes.
	op := mustCompile(t, `{name: "obs_pauli", qubits: [1, 0], params: ["αβ"], coeffs: [1]}`)
	assert.Equal(t, []string{"βα"}, op.(*ir.ObsPauli).Labels)
}

func TestCompileObsPauliSameKeyForReorderedInput(t *testing.T) {
	a := mustCompile(t, `{name: "obs_pauli", qubits: [2, 0, 1], params: ["XYZ"], coeffs: [1]}`)
	b := mustCompile(t, `{name: "obs_pauli", qubits: [0, 1, 2], params: ["YZX"], coeffs: [1]}`)

	assert.Equal(t, a, b)
	assert.Equal(t, ir.MustCacheKey(a), ir.MustCacheKey(b))
}

func TestCompileObsMat(t *testing.T) {
	op := mustCompile(t, `{
		name: "obs_mat"
		qubits: [0, 1, 2]
		sub_qubits: [[0, 1], [2]]
		sub_params: [
			[[1, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0], [0, 0, 0, 1]],
			[[0, 1], [1, 0]],
		]
	}`)

	m := op.(*ir.ObsMat)
	assert.Equal(t, [][]uint64{{0, 1}, {2}}, m.SubQubits)
	require.Len(t, m.Matrices, 2)
	assert.Equal(t, ir.CMatrix{{0, 1}, {1, 0}}, m.Matrices[1])
	assert.Empty(t, Validate(op, WithDimensionChecks()))
}

func TestCompileSubRegisterObservables(t *testing.T) {
	d := mustCompile(t, `{name: "obs_dmat", qubits: [0, 1], sub_qubits: [[1], [0]], sub_params: [[1, -1], [[0, 1], 1]]}`).(*ir.ObsDMat)
	assert.Equal(t, []ir.CVector{{1, -1}, {complex(0, 1), 1}}, d.Diagonals)

	v := mustCompile(t, `{name: "obs_vec", qubits: [4], sub_qubits: [[4]], sub_params: [[0, 1]]}`).(*ir.ObsVec)
	assert.Equal(t, []ir.CVector{{0, 1}}, v.Vectors)
}

func TestCompileSubRegisterErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"empty parent", `{qubits: [], sub_qubits: [], sub_params: []}`, ErrEmptyQubits},
		{"duplicate parent", `{qubits: [0, 0], sub_qubits: [[0], [0]], sub_params: [[1, 0], [1, 0]]}`, ErrDuplicateQubits},
		{"overlap", `{qubits: [0, 1, 2, 3], sub_qubits: [[0, 1], [1, 2, 3]], sub_params: [[1, 0], [1, 0]]}`, ErrBadPartition},
		{"not covered", `{qubits: [0, 1, 2], sub_qubits: [[0, 1]], sub_params: [[1, 0]]}`, ErrBadPartition},
		{"foreign member", `{qubits: [0, 1], sub_qubits: [[0], [5]], sub_params: [[1, 0], [1, 0]]}`, ErrBadPartition},
		{"too few payloads", `{qubits: [0, 1], sub_qubits: [[0], [1]], sub_params: [[1, 0]]}`, ErrPayloadCountMismatch},
		{"missing payloads", `{qubits: [0, 1], sub_qubits: [[0, 1]]}`, ErrPayloadCountMismatch},
	}

	for _, kind := range []string{"obs_dmat", "obs_vec"} {
		for _, tt := range tests {
			t.Run(kind+"/"+tt.name, func(t *testing.T) {
				src := `{name: "` + kind + `"} & ` + tt.src
				op, err := compileSrc(t, src)
				requireCode(t, err, tt.code)
				assert.Nil(t, op)
			})
		}
	}
}

func TestCompileObsMatPartitionChecked(t *testing.T) {
	_, err := compileSrc(t, `{name: "obs_mat", qubits: [0, 1, 2], sub_qubits: [[0, 1]], sub_params: [[[1, 0], [0, 1]]]}`)
	requireCode(t, err, ErrBadPartition)
	assert.Contains(t, err.Error(), "qubit 2 is not covered")
}
