package record

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/opload/internal/ir"
)

// readList converts every element of list v with elem.
// An empty list reads as nil.
func readList[T any](v cue.Value, path string, elem func(cue.Value, string) (T, error)) ([]T, error) {
	if v.Kind() != cue.ListKind {
		return nil, typeError(v, path, "a list")
	}
	iter, err := v.List()
	if err != nil {
		return nil, fromCUEError(path, err)
	}

	var out []T
	for i := 0; iter.Next(); i++ {
		x, err := elem(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func toString(v cue.Value, path string) (string, error) {
	if v.Kind() != cue.StringKind {
		return "", typeError(v, path, "a string")
	}
	s, err := v.String()
	if err != nil {
		return "", fromCUEError(path, err)
	}
	return s, nil
}

func toUint(v cue.Value, path string) (uint64, error) {
	if v.Kind() != cue.IntKind {
		return 0, typeError(v, path, "a non-negative integer")
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, &FieldError{
			Field:   path,
			Message: "must be a non-negative integer that fits in 64 bits",
			Pos:     v.Pos(),
		}
	}
	return n, nil
}

func toFloat(v cue.Value, path string) (float64, error) {
	if k := v.Kind(); k != cue.IntKind && k != cue.FloatKind {
		return 0, typeError(v, path, "a number")
	}
	f, err := v.Float64()
	if err != nil {
		return 0, fromCUEError(path, err)
	}
	return f, nil
}

// toComplex accepts a bare real or a [re, im] pair.
func toComplex(v cue.Value, path string) (complex128, error) {
	switch v.Kind() {
	case cue.IntKind, cue.FloatKind:
		re, err := toFloat(v, path)
		if err != nil {
			return 0, err
		}
		return complex(re, 0), nil
	case cue.ListKind:
		parts, err := readList(v, path, toFloat)
		if err != nil {
			return 0, err
		}
		if len(parts) != 2 {
			return 0, &FieldError{
				Field:   path,
				Message: fmt.Sprintf("complex number must be [re, im], got %d element(s)", len(parts)),
				Pos:     v.Pos(),
			}
		}
		return complex(parts[0], parts[1]), nil
	default:
		return 0, typeError(v, path, "a complex number ([re, im] or a real)")
	}
}

func toVector(v cue.Value, path string) (ir.CVector, error) {
	xs, err := readList(v, path, toComplex)
	if err != nil {
		return nil, err
	}
	return ir.CVector(xs), nil
}

func toRow(v cue.Value, path string) ([]complex128, error) {
	return readList(v, path, toComplex)
}

func toMatrix(v cue.Value, path string) (ir.CMatrix, error) {
	rows, err := readList(v, path, toRow)
	if err != nil {
		return nil, err
	}
	return ir.CMatrix(rows), nil
}
