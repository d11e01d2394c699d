package compiler

import (
	"github.com/roach88/opload/internal/ir"
	"github.com/roach88/opload/internal/record"
)

// Payload dimensions are not checked here; see WithDimensionChecks.

func compileMat(r record.Record) (ir.Op, error) {
	const op = string(ir.KindMat)

	qubits, err := readQubits(r, op)
	if err != nil {
		return nil, err
	}
	m, err := r.Matrix(ir.FieldParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	return &ir.Mat{Qubits: qubits, Matrix: m}, nil
}

func compileDMat(r record.Record) (ir.Op, error) {
	const op = string(ir.KindDMat)

	qubits, err := readQubits(r, op)
	if err != nil {
		return nil, err
	}
	diag, err := r.Complexes(ir.FieldParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	return &ir.DMat{Qubits: qubits, Diagonal: diag}, nil
}

func compileKraus(r record.Record) (ir.Op, error) {
	const op = string(ir.KindKraus)

	qubits, err := readQubits(r, op)
	if err != nil {
		return nil, err
	}
	mats, err := r.Matrices(ir.FieldParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	return &ir.Kraus{Qubits: qubits, Operators: mats}, nil
}
