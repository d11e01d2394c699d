package compiler

import (
	"fmt"

	"github.com/roach88/opload/internal/ir"
	"github.com/roach88/opload/internal/record"
)

// fieldError builds a CompileError positioned at field within r.
func fieldError(r record.Record, code, op, field, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    code,
		Op:      op,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Pos:     r.FieldPos(field),
	}
}

func compileGate(r record.Record) (ir.Op, error) {
	name, err := readName(r, "gate")
	if err != nil {
		return nil, err
	}
	qubits, err := readQubits(r, name)
	if err != nil {
		return nil, err
	}
	params, err := r.Floats(ir.FieldParams)
	if err != nil {
		return nil, fromRecordError(name, err)
	}
	return &ir.Gate{GateName: name, Qubits: qubits, Params: params}, nil
}

func compileMeasure(r record.Record) (ir.Op, error) {
	const op = string(ir.KindMeasure)

	qubits, err := readQubits(r, op)
	if err != nil {
		return nil, err
	}
	memory, err := r.Uints(ir.FieldMemory)
	if err != nil {
		return nil, fromRecordError(op, err)
	}
	registers, err := r.Uints(ir.FieldRegister)
	if err != nil {
		return nil, fromRecordError(op, err)
	}

	if len(memory) > 0 && len(memory) != len(qubits) {
		return nil, fieldError(r, ErrLengthMismatch, op, ir.FieldMemory,
			"memory and qubits are different lengths (%d != %d)", len(memory), len(qubits))
	}
	if len(registers) > 0 && len(registers) != len(qubits) {
		return nil, fieldError(r, ErrLengthMismatch, op, ir.FieldRegister,
			"register and qubits are different lengths (%d != %d)", len(registers), len(qubits))
	}
	return &ir.Measure{Qubits: qubits, Memory: memory, Registers: registers}, nil
}

func compileReset(r record.Record) (ir.Op, error) {
	const op = string(ir.KindReset)

	qubits, err := readQubits(r, op)
	if err != nil {
		return nil, err
	}
	states, err := r.Floats(ir.FieldParams)
	if err != nil {
		return nil, fromRecordError(op, err)
	}

	switch {
	case len(states) == 0:
		// Reset to |0> on every qubit.
		states = make([]float64, len(qubits))
	case len(states) != len(qubits):
		return nil, fieldError(r, ErrLengthMismatch, op, ir.FieldParams,
			"params and qubits are different lengths (%d != %d)", len(states), len(qubits))
	}
	return &ir.Reset{Qubits: qubits, States: states}, nil
}

// snapshotDefaultType is appended to a snapshot with only a label.
const snapshotDefaultType = "default"

func compileSnapshot(r record.Record) (ir.Op, error) {
	labels, err := r.Strings(ir.FieldParams)
	if err != nil {
		return nil, fromRecordError(string(ir.KindSnapshot), err)
	}
	if len(labels) == 1 {
		labels = append(labels, snapshotDefaultType)
	}
	return &ir.Snapshot{Labels: labels}, nil
}
