package ir

import "fmt"

// Wire field keys shared with the record reader.
const (
	FieldName           = "name"
	FieldQubits         = "qubits"
	FieldParams         = "params"
	FieldMemory         = "memory"
	FieldRegister       = "register"
	FieldCoeffs         = "coeffs"
	FieldSubQubits      = "sub_qubits"
	FieldSubParams      = "sub_params"
	FieldConditional    = "conditional"
	FieldConditionalReg = "conditional_reg"
)

// WireFields converts op to the generic record shape it is read from.
// Empty lists are omitted, complex numbers become [re, im] pairs.
// Compiling the result again yields an equal op.
func WireFields(op Op) (map[string]any, error) {
	m := map[string]any{FieldName: op.Name()}

	switch v := op.(type) {
	case *Gate:
		putUints(m, FieldQubits, v.Qubits)
		putFloats(m, FieldParams, v.Params)
	case *Measure:
		putUints(m, FieldQubits, v.Qubits)
		putUints(m, FieldMemory, v.Memory)
		putUints(m, FieldRegister, v.Registers)
	case *Reset:
		putUints(m, FieldQubits, v.Qubits)
		putFloats(m, FieldParams, v.States)
	case *Snapshot:
		if len(v.Labels) > 0 {
			m[FieldParams] = stringList(v.Labels)
		}
	case *Mat:
		putUints(m, FieldQubits, v.Qubits)
		if len(v.Matrix) > 0 {
			m[FieldParams] = matrixList(v.Matrix)
		}
	case *DMat:
		putUints(m, FieldQubits, v.Qubits)
		if len(v.Diagonal) > 0 {
			m[FieldParams] = complexList(v.Diagonal)
		}
	case *Kraus:
		putUints(m, FieldQubits, v.Qubits)
		if len(v.Operators) > 0 {
			ops := make([]any, len(v.Operators))
			for i, k := range v.Operators {
				ops[i] = matrixList(k)
			}
			m[FieldParams] = ops
		}
	case *Probs:
		putUints(m, FieldQubits, v.Qubits)
	case *ObsPauli:
		putUints(m, FieldQubits, v.Qubits)
		if len(v.Labels) > 0 {
			m[FieldParams] = stringList(v.Labels)
		}
		if len(v.Coeffs) > 0 {
			m[FieldCoeffs] = complexList(v.Coeffs)
		}
	case *ObsMat:
		putUints(m, FieldQubits, v.Qubits)
		putSubQubits(m, v.SubQubits)
		if len(v.Matrices) > 0 {
			mats := make([]any, len(v.Matrices))
			for i, mat := range v.Matrices {
				mats[i] = matrixList(mat)
			}
			m[FieldSubParams] = mats
		}
	case *ObsDMat:
		putUints(m, FieldQubits, v.Qubits)
		putSubQubits(m, v.SubQubits)
		putVectors(m, FieldSubParams, v.Diagonals)
	case *ObsVec:
		putUints(m, FieldQubits, v.Qubits)
		putSubQubits(m, v.SubQubits)
		putVectors(m, FieldSubParams, v.Vectors)
	default:
		return nil, fmt.Errorf("unknown op type: %T", op)
	}

	if c := op.Condition(); c.Conditional {
		m[FieldConditional] = true
		m[FieldConditionalReg] = c.Register
	}
	return m, nil
}

func putUints(m map[string]any, key string, xs []uint64) {
	if len(xs) == 0 {
		return
	}
	m[key] = uintList(xs)
}

func putFloats(m map[string]any, key string, xs []float64) {
	if len(xs) == 0 {
		return
	}
	list := make([]any, len(xs))
	for i, x := range xs {
		list[i] = x
	}
	m[key] = list
}

func putSubQubits(m map[string]any, subs [][]uint64) {
	if len(subs) == 0 {
		return
	}
	list := make([]any, len(subs))
	for i, s := range subs {
		list[i] = uintList(s)
	}
	m[FieldSubQubits] = list
}

func putVectors(m map[string]any, key string, vecs []CVector) {
	if len(vecs) == 0 {
		return
	}
	list := make([]any, len(vecs))
	for i, v := range vecs {
		list[i] = complexList(v)
	}
	m[key] = list
}

func uintList(xs []uint64) []any {
	list := make([]any, len(xs))
	for i, x := range xs {
		list[i] = x
	}
	return list
}

func stringList(xs []string) []any {
	list := make([]any, len(xs))
	for i, s := range xs {
		list[i] = s
	}
	return list
}

func complexList(xs []complex128) []any {
	list := make([]any, len(xs))
	for i, z := range xs {
		list[i] = []any{real(z), imag(z)}
	}
	return list
}

func matrixList(m CMatrix) []any {
	rows := make([]any, len(m))
	for i, row := range m {
		rows[i] = complexList(row)
	}
	return rows
}

// MarshalOpJSON encodes op in canonical wire form.
func MarshalOpJSON(op Op) ([]byte, error) {
	fields, err := WireFields(op)
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(fields)
}

func (g *Gate) MarshalJSON() ([]byte, error)     { return MarshalOpJSON(g) }
func (m *Measure) MarshalJSON() ([]byte, error)  { return MarshalOpJSON(m) }
func (r *Reset) MarshalJSON() ([]byte, error)    { return MarshalOpJSON(r) }
func (s *Snapshot) MarshalJSON() ([]byte, error) { return MarshalOpJSON(s) }
func (m *Mat) MarshalJSON() ([]byte, error)      { return MarshalOpJSON(m) }
func (d *DMat) MarshalJSON() ([]byte, error)     { return MarshalOpJSON(d) }
func (k *Kraus) MarshalJSON() ([]byte, error)    { return MarshalOpJSON(k) }
func (p *Probs) MarshalJSON() ([]byte, error)    { return MarshalOpJSON(p) }
func (o *ObsPauli) MarshalJSON() ([]byte, error) { return MarshalOpJSON(o) }
func (o *ObsMat) MarshalJSON() ([]byte, error)   { return MarshalOpJSON(o) }
func (o *ObsDMat) MarshalJSON() ([]byte, error)  { return MarshalOpJSON(o) }
func (o *ObsVec) MarshalJSON() ([]byte, error)   { return MarshalOpJSON(o) }
