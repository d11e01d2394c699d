package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/opload/internal/ir"
	"github.com/roach88/opload/internal/record"
)

// reservedNames are instruction names the wire format defines but this
// compiler cannot build yet. They fail instead of becoming gates.
var reservedNames = map[string]bool{
	"bfunc":   true,
	"roerror": true,
}

// CompileOp parses one instruction record into a typed instruction.
// Uses the CUE SDK's Go API; JSON and YAML records are CUE values too.
//
// The name field selects the constructor by exact, case-sensitive match.
// Any name that is neither a known kind nor reserved is compiled as a gate:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`{name: "cx", qubits: [0, 1]}`)
//	op, err := CompileOp(v) // *ir.Gate
func CompileOp(v cue.Value) (ir.Op, error) {
	r, err := record.New(v)
	if err != nil {
		return nil, fromRecordError("", err)
	}
	return compileRecord(r)
}

func compileRecord(r record.Record) (ir.Op, error) {
	name, err := readName(r, "")
	if err != nil {
		return nil, err
	}

	switch ir.Kind(name) {
	case ir.KindMeasure:
		return compileMeasure(r)
	case ir.KindReset:
		return compileReset(r)
	case ir.KindMat:
		return compileMat(r)
	case ir.KindDMat:
		return compileDMat(r)
	case ir.KindProbs:
		return compileProbs(r)
	case ir.KindObsPauli:
		return compileObsPauli(r)
	case ir.KindObsMat:
		return compileObsMat(r)
	case ir.KindObsDMat:
		return compileObsDMat(r)
	case ir.KindObsVec:
		return compileObsVec(r)
	case ir.KindSnapshot:
		return compileSnapshot(r)
	case ir.KindKraus:
		return compileKraus(r)
	}

	if reservedNames[name] {
		return nil, &CompileError{
			Code:    ErrUnknownName,
			Op:      name,
			Field:   ir.FieldName,
			Message: fmt.Sprintf("%q is reserved but not supported", name),
			Pos:     r.FieldPos(ir.FieldName),
		}
	}
	return compileGate(r)
}

// CompileObservable parses a record that must describe an observable
// (obs_pauli, obs_mat, obs_dmat or obs_vec).
func CompileObservable(v cue.Value) (ir.Op, error) {
	r, err := record.New(v)
	if err != nil {
		return nil, fromRecordError("", err)
	}
	name, err := readName(r, "observable")
	if err != nil {
		return nil, err
	}

	switch ir.Kind(name) {
	case ir.KindObsPauli:
		return compileObsPauli(r)
	case ir.KindObsMat:
		return compileObsMat(r)
	case ir.KindObsDMat:
		return compileObsDMat(r)
	case ir.KindObsVec:
		return compileObsVec(r)
	default:
		return nil, &CompileError{
			Code:    ErrUnknownName,
			Op:      "observable",
			Field:   ir.FieldName,
			Message: fmt.Sprintf("%q is not an observable", name),
			Pos:     r.FieldPos(ir.FieldName),
		}
	}
}

// readName reads the discriminator. op labels errors; empty means unknown.
func readName(r record.Record, op string) (string, error) {
	name, err := r.String(ir.FieldName)
	if err != nil {
		return "", fromRecordError(op, err)
	}
	if name == "" {
		return "", &CompileError{
			Code:    ErrMissingName,
			Op:      op,
			Field:   ir.FieldName,
			Message: "name is required and must be non-empty",
			Pos:     r.FieldPos(ir.FieldName),
		}
	}
	return name, nil
}
