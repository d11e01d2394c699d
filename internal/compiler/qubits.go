package compiler

import (
	"fmt"

	"github.com/roach88/opload/internal/ir"
	"github.com/roach88/opload/internal/record"
)

// readQubits reads the required qubits field of op.
func readQubits(r record.Record, op string) ([]uint64, error) {
	qubits, err := r.Uints(ir.FieldQubits)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	if len(qubits) == 0 {
		return nil, &CompileError{
			Code:    ErrEmptyQubits,
			Op:      op,
			Field:   ir.FieldQubits,
			Message: "qubits are empty",
			Pos:     r.FieldPos(ir.FieldQubits),
		}
	}
	return qubits, nil
}

// duplicateQubit returns the first index that appears twice in qubits.
func duplicateQubit(qubits []uint64) (uint64, bool) {
	seen := make(map[uint64]struct{}, len(qubits))
	for _, q := range qubits {
		if _, ok := seen[q]; ok {
			return q, true
		}
		seen[q] = struct{}{}
	}
	return 0, false
}

// checkQubits verifies qubits form a non-empty set.
func checkQubits(qubits []uint64) (code, msg string) {
	if len(qubits) == 0 {
		return ErrEmptyQubits, "qubits are empty"
	}
	if q, ok := duplicateQubit(qubits); ok {
		return ErrDuplicateQubits, fmt.Sprintf("qubit %d appears more than once", q)
	}
	return "", ""
}

// checkPartition verifies subsets split parent exactly: every member of a
// subset belongs to parent, no qubit is in two subsets, and every qubit of
// parent is covered. Returns "" when subsets partition parent.
func checkPartition(parent []uint64, subsets [][]uint64) string {
	inParent := make(map[uint64]struct{}, len(parent))
	for _, q := range parent {
		inParent[q] = struct{}{}
	}

	covered := make(map[uint64]struct{}, len(parent))
	total := 0
	for i, sub := range subsets {
		for _, q := range sub {
			total++
			if _, ok := inParent[q]; !ok {
				return fmt.Sprintf("sub_qubits[%d] contains qubit %d, which is not in qubits", i, q)
			}
			if _, ok := covered[q]; ok {
				return fmt.Sprintf("qubit %d appears in more than one subset", q)
			}
			covered[q] = struct{}{}
		}
	}

	if len(covered) != len(parent) || total != len(parent) {
		for _, q := range parent {
			if _, ok := covered[q]; !ok {
				return fmt.Sprintf("qubit %d is not covered by any subset", q)
			}
		}
		return "sub_qubits do not partition qubits"
	}
	return ""
}
