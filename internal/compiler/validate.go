package compiler

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/roach88/opload/internal/ir"
)

// maxDenseQubits bounds the dimension checks. 2^30 entries is already far
// past anything a dense payload can hold.
const maxDenseQubits = 30

// ValidationError represents one violated instruction invariant.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Option configures Validate.
type Option func(*validateConfig)

type validateConfig struct {
	dimensions bool
}

// WithDimensionChecks makes Validate also check that every matrix, diagonal
// and vector payload has size 2^n for the n qubits it acts on.
func WithDimensionChecks() Option {
	return func(c *validateConfig) { c.dimensions = true }
}

// Validate re-checks the invariants every constructor guarantees.
// Use it on ops built by hand or decoded by other means.
// Returns all errors found (does not fail-fast).
func Validate(op ir.Op, opts ...Option) []ValidationError {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &validator{cfg: cfg}
	switch o := op.(type) {
	case *ir.Gate:
		if o.GateName == "" {
			v.add(ErrMissingName, ir.FieldName, "name is required and must be non-empty")
		}
		v.nonEmpty(o.Qubits)
	case *ir.Measure:
		v.nonEmpty(o.Qubits)
		v.optionalLength(ir.FieldMemory, len(o.Memory), len(o.Qubits))
		v.optionalLength(ir.FieldRegister, len(o.Registers), len(o.Qubits))
	case *ir.Reset:
		v.nonEmpty(o.Qubits)
		if len(o.States) != len(o.Qubits) {
			v.add(ErrLengthMismatch, ir.FieldParams,
				fmt.Sprintf("params and qubits are different lengths (%d != %d)", len(o.States), len(o.Qubits)))
		}
	case *ir.Snapshot:
		// Any label list is valid.
	case *ir.Mat:
		v.nonEmpty(o.Qubits)
		v.matrix(ir.FieldParams, o.Matrix, len(o.Qubits))
	case *ir.DMat:
		v.nonEmpty(o.Qubits)
		v.vector(ir.FieldParams, o.Diagonal, len(o.Qubits))
	case *ir.Kraus:
		v.nonEmpty(o.Qubits)
		for i, m := range o.Operators {
			v.matrix(fmt.Sprintf("%s[%d]", ir.FieldParams, i), m, len(o.Qubits))
		}
	case *ir.Probs:
		v.nonEmpty(o.Qubits)
	case *ir.ObsPauli:
		v.pauli(o)
	case *ir.ObsMat:
		v.subRegisters(o.Qubits, o.SubQubits, len(o.Matrices))
		for i, m := range o.Matrices {
			if i < len(o.SubQubits) {
				v.matrix(fmt.Sprintf("%s[%d]", ir.FieldSubParams, i), m, len(o.SubQubits[i]))
			}
		}
	case *ir.ObsDMat:
		v.subRegisters(o.Qubits, o.SubQubits, len(o.Diagonals))
		v.vectors(o.SubQubits, o.Diagonals)
	case *ir.ObsVec:
		v.subRegisters(o.Qubits, o.SubQubits, len(o.Vectors))
		v.vectors(o.SubQubits, o.Vectors)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported op type: %T", op),
			Code:    ErrUnsupportedOp,
		}}
	}
	return v.errs
}

type validator struct {
	cfg  validateConfig
	errs []ValidationError
}

func (v *validator) add(code, field, msg string) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: msg, Code: code})
}

func (v *validator) nonEmpty(qubits []uint64) {
	if len(qubits) == 0 {
		v.add(ErrEmptyQubits, ir.FieldQubits, "qubits are empty")
	}
}

func (v *validator) optionalLength(field string, n, want int) {
	if n > 0 && n != want {
		v.add(ErrLengthMismatch, field,
			fmt.Sprintf("%s and qubits are different lengths (%d != %d)", field, n, want))
	}
}

func (v *validator) pauli(o *ir.ObsPauli) {
	v.nonEmpty(o.Qubits)
	if len(o.Labels) == 0 {
		v.add(ErrEmptyParams, ir.FieldParams, "Pauli labels are empty")
	}
	for i, label := range o.Labels {
		if n := utf8.RuneCountInString(label); n != len(o.Qubits) {
			v.add(ErrLabelLengthMismatch, fmt.Sprintf("%s[%d]", ir.FieldParams, i),
				fmt.Sprintf("label %q has %d characters but there are %d qubits", label, n, len(o.Qubits)))
		}
	}
	if len(o.Coeffs) != len(o.Labels) {
		v.add(ErrCoeffCountMismatch, ir.FieldCoeffs,
			fmt.Sprintf("%d coefficients for %d Pauli labels", len(o.Coeffs), len(o.Labels)))
	}
	if !slices.IsSorted(o.Qubits) {
		v.add(ErrNotCanonical, ir.FieldQubits, "qubits must be sorted ascending")
	}
}

func (v *validator) subRegisters(qubits []uint64, subs [][]uint64, payloads int) {
	code, msg := checkQubits(qubits)
	if code != "" {
		v.add(code, ir.FieldQubits, msg)
	}
	// A partition of a broken parent set says nothing new.
	if code == "" {
		if msg := checkPartition(qubits, subs); msg != "" {
			v.add(ErrBadPartition, ir.FieldSubQubits, msg)
		}
	}
	if payloads != len(subs) {
		v.add(ErrPayloadCountMismatch, ir.FieldSubParams,
			fmt.Sprintf("%d sub_params for %d sub_qubits", payloads, len(subs)))
	}
}

func (v *validator) vectors(subs [][]uint64, vecs []ir.CVector) {
	for i, vec := range vecs {
		if i < len(subs) {
			v.vector(fmt.Sprintf("%s[%d]", ir.FieldSubParams, i), vec, len(subs[i]))
		}
	}
}

func (v *validator) matrix(field string, m ir.CMatrix, nqubits int) {
	if !v.cfg.dimensions {
		return
	}
	dim, ok := denseDim(nqubits)
	if !ok {
		v.add(ErrDimensionMismatch, field, fmt.Sprintf("%d qubits is too many for a dense matrix", nqubits))
		return
	}
	rows, cols := m.Dims()
	if !m.IsSquare() || rows != dim {
		v.add(ErrDimensionMismatch, field,
			fmt.Sprintf("matrix is %dx%d, want %dx%d for %d qubit(s)", rows, cols, dim, dim, nqubits))
	}
}

func (v *validator) vector(field string, vec ir.CVector, nqubits int) {
	if !v.cfg.dimensions {
		return
	}
	dim, ok := denseDim(nqubits)
	if !ok {
		v.add(ErrDimensionMismatch, field, fmt.Sprintf("%d qubits is too many for a dense vector", nqubits))
		return
	}
	if len(vec) != dim {
		v.add(ErrDimensionMismatch, field,
			fmt.Sprintf("vector has %d entries, want %d for %d qubit(s)", len(vec), dim, nqubits))
	}
}

func denseDim(nqubits int) (int, bool) {
	if nqubits > maxDenseQubits {
		return 0, false
	}
	return 1 << nqubits, true
}
