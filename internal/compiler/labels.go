package compiler

import (
	"cmp"
	"slices"
)

// CanonicalizeLabels sorts qubits ascending and reorders every label so
// that character j still refers to the same qubit. Inputs are not modified.
//
//	CanonicalizeLabels([]uint64{2, 0, 1}, []string{"XYZ"})
//	// []uint64{0, 1, 2}, []string{"YZX"}
//
// The sort is stable, so repeated qubits keep their relative order.
// A label whose length in characters differs from len(qubits) is returned
// unchanged.
func CanonicalizeLabels(qubits []uint64, labels []string) ([]uint64, []string) {
	perm := sortPermutation(qubits)

	sorted := make([]uint64, len(qubits))
	for j, p := range perm {
		sorted[j] = qubits[p]
	}

	out := make([]string, len(labels))
	for i, label := range labels {
		chars := []rune(label)
		if len(chars) != len(perm) {
			out[i] = label
			continue
		}
		permuted := make([]rune, len(perm))
		for j, p := range perm {
			permuted[j] = chars[p]
		}
		out[i] = string(permuted)
	}
	return sorted, out
}

// sortPermutation returns perm such that qubits[perm[j]] is ascending in j.
func sortPermutation(qubits []uint64) []int {
	perm := make([]int, len(qubits))
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		return cmp.Compare(qubits[a], qubits[b])
	})
	return perm
}
