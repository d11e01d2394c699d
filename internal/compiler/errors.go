package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"

	"github.com/roach88/opload/internal/record"
)

// Instruction error codes (E200-E299)
const (
	ErrUnsupportedOp = "E200" // Validate given an unknown op type

	// Construction errors (E201-E210)
	ErrMissingName          = "E201" // name absent or empty
	ErrEmptyQubits          = "E202" // qubits absent or empty
	ErrDuplicateQubits      = "E203" // qubits repeat an index
	ErrLengthMismatch       = "E204" // two lists that must agree in length differ
	ErrEmptyParams          = "E205" // required label/param list is empty
	ErrLabelLengthMismatch  = "E206" // Pauli label length != qubit count
	ErrCoeffCountMismatch   = "E207" // coeffs count != label count
	ErrBadPartition         = "E208" // sub_qubits do not partition qubits
	ErrPayloadCountMismatch = "E209" // sub_qubits count != sub_params count
	ErrUnknownName          = "E210" // reserved name with no constructor

	// Record and post-construction errors (E211-E219)
	ErrFieldType         = "E211" // field present with the wrong shape
	ErrDimensionMismatch = "E212" // payload size disagrees with qubit count (strict only)
	ErrNotCanonical      = "E213" // Pauli qubits not sorted ascending
)

// CompileError reports why one instruction record could not be compiled.
type CompileError struct {
	Code    string
	Op      string // instruction name, empty if unknown
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	op := e.Op
	if op == "" {
		op = "operation"
	}
	msg := fmt.Sprintf("[%s] invalid %s: %s", e.Code, op, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("[%s] invalid %s: %s: %s", e.Code, op, e.Field, e.Message)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// Code returns the error code carried by err, or "" if it has none.
// Record reader errors map to ErrFieldType.
func Code(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var fe *record.FieldError
	if errors.As(err, &fe) {
		return ErrFieldType
	}
	return ""
}

// fromRecordError converts a record reader failure into a CompileError.
func fromRecordError(op string, err error) error {
	var fe *record.FieldError
	if errors.As(err, &fe) {
		return &CompileError{
			Code:    ErrFieldType,
			Op:      op,
			Field:   fe.Field,
			Message: fe.Message,
			Pos:     fe.Pos,
		}
	}
	return err
}
