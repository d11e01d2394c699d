package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/opload/internal/ir"
)

// Mode controls how CompileCircuit handles a failing instruction.
type Mode int

const (
	// FailFast stops at the first failing instruction.
	FailFast Mode = iota
	// CollectAll skips failing instructions and reports every failure.
	CollectAll
)

// InstructionError ties a compile failure to its position in a circuit.
type InstructionError struct {
	Index int
	Name  string // best-effort; empty if the record has no readable name
	Err   error
}

func (e *InstructionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("instruction %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("instruction %d: %v", e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

// CompileCircuit compiles a list of instruction records in order.
// The returned ops keep the input order, minus any that failed.
func CompileCircuit(list cue.Value, mode Mode) ([]ir.Op, []error) {
	if err := list.Err(); err != nil {
		return nil, []error{fmt.Errorf("instructions: %w", err)}
	}
	if k := list.Kind(); k != cue.ListKind {
		return nil, []error{&CompileError{
			Code:    ErrFieldType,
			Field:   "instructions",
			Message: fmt.Sprintf("must be a list, got %v", k),
			Pos:     list.Pos(),
		}}
	}

	iter, err := list.List()
	if err != nil {
		return nil, []error{fmt.Errorf("instructions: %w", err)}
	}

	var ops []ir.Op
	var errs []error
	for i := 0; iter.Next(); i++ {
		v := iter.Value()
		op, err := CompileOp(v)
		if err != nil {
			errs = append(errs, &InstructionError{Index: i, Name: peekName(v), Err: err})
			if mode == FailFast {
				return ops, errs
			}
			continue
		}
		ops = append(ops, op)
	}
	return ops, errs
}

// peekName reads the name field for error reporting, ignoring failures.
func peekName(v cue.Value) string {
	name, err := v.LookupPath(cue.ParsePath(ir.FieldName)).String()
	if err != nil {
		return ""
	}
	return name
}

// AsInstructionError reports whether err wraps an InstructionError.
func AsInstructionError(err error) (*InstructionError, bool) {
	var ie *InstructionError
	ok := errors.As(err, &ie)
	return ie, ok
}
