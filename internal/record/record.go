package record

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/opload/internal/ir"
)

// Record is a read-only view of one instruction record.
type Record struct {
	v cue.Value
}

// New wraps v. It fails if v does not evaluate or is not a struct.
func New(v cue.Value) (Record, error) {
	if err := v.Err(); err != nil {
		return Record{}, fromCUEError("", err)
	}
	if k := v.Kind(); k != cue.StructKind {
		return Record{}, &FieldError{
			Message: fmt.Sprintf("instruction must be an object, got %v", k),
			Pos:     v.Pos(),
		}
	}
	return Record{v: v}, nil
}

// Value returns the underlying CUE value.
func (r Record) Value() cue.Value {
	return r.v
}

// Pos returns the source position of the record.
func (r Record) Pos() token.Pos {
	return r.v.Pos()
}

// Has reports whether key is present and not null.
func (r Record) Has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

// FieldPos returns the position of key, or the record position if key is absent.
func (r Record) FieldPos(key string) token.Pos {
	if v, ok := r.lookup(key); ok {
		return v.Pos()
	}
	return r.v.Pos()
}

func (r Record) lookup(key string) (cue.Value, bool) {
	v := r.v.LookupPath(cue.MakePath(cue.Str(key)))
	if !v.Exists() || v.Kind() == cue.NullKind {
		return cue.Value{}, false
	}
	return v, true
}

// String reads a string field.
func (r Record) String(key string) (string, error) {
	v, ok := r.lookup(key)
	if !ok {
		return "", nil
	}
	return toString(v, key)
}

// Bool reads a boolean field.
func (r Record) Bool(key string) (bool, error) {
	v, ok := r.lookup(key)
	if !ok {
		return false, nil
	}
	if v.Kind() != cue.BoolKind {
		return false, typeError(v, key, "a boolean")
	}
	b, err := v.Bool()
	if err != nil {
		return false, fromCUEError(key, err)
	}
	return b, nil
}

// Uint reads a non-negative integer field.
func (r Record) Uint(key string) (uint64, error) {
	v, ok := r.lookup(key)
	if !ok {
		return 0, nil
	}
	return toUint(v, key)
}

// Uints reads a list of non-negative integers (qubit or clbit indices).
func (r Record) Uints(key string) ([]uint64, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return readList(v, key, toUint)
}

// UintLists reads a list of index lists (sub-registers).
func (r Record) UintLists(key string) ([][]uint64, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return readList(v, key, func(elem cue.Value, path string) ([]uint64, error) {
		return readList(elem, path, toUint)
	})
}

// Floats reads a list of reals.
func (r Record) Floats(key string) ([]float64, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return readList(v, key, toFloat)
}

// Strings reads a list of strings.
func (r Record) Strings(key string) ([]string, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return readList(v, key, toString)
}

// Complexes reads a list of complex numbers.
func (r Record) Complexes(key string) (ir.CVector, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return toVector(v, key)
}

// Vectors reads a list of complex vectors.
func (r Record) Vectors(key string) ([]ir.CVector, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return readList(v, key, toVector)
}

// Matrix reads a single complex matrix given as a list of rows.
func (r Record) Matrix(key string) (ir.CMatrix, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return toMatrix(v, key)
}

// Matrices reads a list of complex matrices.
func (r Record) Matrices(key string) ([]ir.CMatrix, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	return readList(v, key, toMatrix)
}
