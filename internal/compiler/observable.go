package compiler

import (
	"unicode/utf8"

	"github.com/roach88/opload/internal/ir"
	"github.com/roach88/opload/internal/record"
)

func compileProbs(r record.Record) (ir.Op, error) {
	qubits, err := readQubits(r, string(ir.KindProbs))
	if err != nil {
		return nil, err
	}
	return &ir.Probs{Qubits: qubits}, nil
}

func compileObsPauli(r record.Record) (ir.Op, error) {
	const op = string(ir.KindObsPauli)

	qubits, err := r.Uints(ir.FieldQubits)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	labels, err := r.Strings(ir.FieldParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	coeffs, err := r.Complexes(ir.FieldCoeffs)
	if err != nil {
		return nil, fromRecordError(op, err)
	}

	if len(qubits) == 0 {
		return nil, fieldError(r, ErrEmptyQubits, op, ir.FieldQubits, "qubits are empty")
	}
	if len(labels) == 0 {
		return nil, fieldError(r, ErrEmptyParams, op, ir.FieldParams, "Pauli labels are empty")
	}
	for i, label := range labels {
		if n := utf8.RuneCountInString(label); n != len(qubits) {
			return nil, fieldError(r, ErrLabelLengthMismatch, op, ir.FieldParams,
				"label %d (%q) has %d characters but there are %d qubits", i, label, n, len(qubits))
		}
	}
	if len(coeffs) != len(labels) {
		return nil, fieldError(r, ErrCoeffCountMismatch, op, ir.FieldCoeffs,
			"%d coefficients for %d Pauli labels", len(coeffs), len(labels))
	}

	sorted, permuted := CanonicalizeLabels(qubits, labels)
	return &ir.ObsPauli{Qubits: sorted, Labels: permuted, Coeffs: coeffs}, nil
}

func compileObsMat(r record.Record) (ir.Op, error) {
	const op = string(ir.KindObsMat)

	qubits, subs, err := readSubRegisters(r, op)
	if err != nil {
		return nil, err
	}
	mats, err := r.Matrices(ir.FieldSubParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	if err := checkSubRegisters(r, op, qubits, subs, len(mats)); err != nil {
		return nil, err
	}
	return &ir.ObsMat{Qubits: qubits, SubQubits: subs, Matrices: mats}, nil
}

func compileObsDMat(r record.Record) (ir.Op, error) {
	const op = string(ir.KindObsDMat)

	qubits, subs, err := readSubRegisters(r, op)
	if err != nil {
		return nil, err
	}
	diags, err := r.Vectors(ir.FieldSubParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	if err := checkSubRegisters(r, op, qubits, subs, len(diags)); err != nil {
		return nil, err
	}
	return &ir.ObsDMat{Qubits: qubits, SubQubits: subs, Diagonals: diags}, nil
}

func compileObsVec(r record.Record) (ir.Op, error) {
	const op = string(ir.KindObsVec)

	qubits, subs, err := readSubRegisters(r, op)
	if err != nil {
		return nil, err
	}
	vecs, err := r.Vectors(ir.FieldSubParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	if err := checkSubRegisters(r, op, qubits, subs, len(vecs)); err != nil {
		return nil, err
	}
	return &ir.ObsVec{Qubits: qubits, SubQubits: subs, Vectors: vecs}, nil
}

func readSubRegisters(r record.Record, op string) ([]uint64, [][]uint64, error) {
	qubits, err := r.Uints(ir.FieldQubits)
	if err != nil {
		return nil, nil, fromRecordError(op, err)
	}
	subs, err := r.UintLists(ir.FieldSubQubits)
	if err != nil {
		return nil, nil, fromRecordError(op, err)
	}
	return qubits, subs, nil
}

// checkSubRegisters validates the parent qubit set, the partition, and the
// payload count, in that order.
func checkSubRegisters(r record.Record, op string, qubits []uint64, subs [][]uint64, payloads int) error {
	if code, msg := checkQubits(qubits); code != "" {
		return fieldError(r, code, op, ir.FieldQubits, "%s", msg)
	}
	if msg := checkPartition(qubits, subs); msg != "" {
		return fieldError(r, ErrBadPartition, op, ir.FieldSubQubits, "%s", msg)
	}
	if payloads != len(subs) {
		return fieldError(r, ErrPayloadCountMismatch, op, ir.FieldSubParams,
			"%d sub_params for %d sub_qubits", payloads, len(subs))
	}
	return nil
}
