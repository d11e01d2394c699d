package ir

import "fmt"

// Gate is a named unitary gate with optional real parameters.
// Any name the compiler does not recognize becomes a Gate.
type Gate struct {
	base
	GateName string
	Qubits   []uint64
	Params   []float64
}

func (g *Gate) Name() string     { return g.GateName }
func (*Gate) Kind() Kind         { return KindGate }
func (g *Gate) ActsOn() []uint64 { return g.Qubits }

// Measure measures qubits into classical memory and/or register bits.
// Memory and Registers are either empty or as long as Qubits.
type Measure struct {
	base
	Qubits    []uint64
	Memory    []uint64
	Registers []uint64
}

func (*Measure) Name() string       { return string(KindMeasure) }
func (*Measure) Kind() Kind         { return KindMeasure }
func (m *Measure) ActsOn() []uint64 { return m.Qubits }

// Reset resets each qubit to the matching entry of States.
type Reset struct {
	base
	Qubits []uint64
	States []float64
}

func (*Reset) Name() string       { return string(KindReset) }
func (*Reset) Kind() Kind         { return KindReset }
func (r *Reset) ActsOn() []uint64 { return r.Qubits }

// Snapshot records simulator state under a label.
// Labels[0] is the snapshot label and Labels[1] its type.
type Snapshot struct {
	base
	Labels []string
}

func (*Snapshot) Name() string     { return string(KindSnapshot) }
func (*Snapshot) Kind() Kind       { return KindSnapshot }
func (*Snapshot) ActsOn() []uint64 { return nil }

// Mat applies a dense matrix.
type Mat struct {
	base
	Qubits []uint64
	Matrix CMatrix
}

func (*Mat) Name() string       { return string(KindMat) }
func (*Mat) Kind() Kind         { return KindMat }
func (m *Mat) ActsOn() []uint64 { return m.Qubits }

// DMat applies a diagonal matrix given by its diagonal.
type DMat struct {
	base
	Qubits   []uint64
	Diagonal CVector
}

func (*DMat) Name() string       { return string(KindDMat) }
func (*DMat) Kind() Kind         { return KindDMat }
func (d *DMat) ActsOn() []uint64 { return d.Qubits }

// Kraus applies a non-unitary channel given by its Kraus operators.
type Kraus struct {
	base
	Qubits    []uint64
	Operators []CMatrix
}

func (*Kraus) Name() string       { return string(KindKraus) }
func (*Kraus) Kind() Kind         { return KindKraus }
func (k *Kraus) ActsOn() []uint64 { return k.Qubits }

// Probs requests measurement probabilities for Qubits.
type Probs struct {
	base
	Qubits []uint64
}

func (*Probs) Name() string       { return string(KindProbs) }
func (*Probs) Kind() Kind         { return KindProbs }
func (p *Probs) ActsOn() []uint64 { return p.Qubits }

// ObsPauli is a weighted sum of Pauli strings.
// Qubits are sorted ascending and Labels[i][j] acts on Qubits[j].
type ObsPauli struct {
	base
	Qubits []uint64
	Labels []string
	Coeffs []complex128
}

func (*ObsPauli) Name() string       { return string(KindObsPauli) }
func (*ObsPauli) Kind() Kind         { return KindObsPauli }
func (o *ObsPauli) ActsOn() []uint64 { return o.Qubits }

// ObsMat is a tensor product of matrices, one per sub-register.
// SubQubits partitions Qubits and Matrices[i] acts on SubQubits[i].
type ObsMat struct {
	base
	Qubits    []uint64
	SubQubits [][]uint64
	Matrices  []CMatrix
}

func (*ObsMat) Name() string       { return string(KindObsMat) }
func (*ObsMat) Kind() Kind         { return KindObsMat }
func (o *ObsMat) ActsOn() []uint64 { return o.Qubits }

// ObsDMat is a tensor product of diagonal matrices, one per sub-register.
type ObsDMat struct {
	base
	Qubits    []uint64
	SubQubits [][]uint64
	Diagonals []CVector
}

func (*ObsDMat) Name() string       { return string(KindObsDMat) }
func (*ObsDMat) Kind() Kind         { return KindObsDMat }
func (o *ObsDMat) ActsOn() []uint64 { return o.Qubits }

// ObsVec is a tensor product of vector projectors, one per sub-register.
type ObsVec struct {
	base
	Qubits    []uint64
	SubQubits [][]uint64
	Vectors   []CVector
}

func (*ObsVec) Name() string       { return string(KindObsVec) }
func (*ObsVec) Kind() Kind         { return KindObsVec }
func (o *ObsVec) ActsOn() []uint64 { return o.Qubits }

// WithCondition returns a copy of op conditioned on classical register bit reg.
// The original op is left untouched. Payload slices are shared, which is safe
// because ops are never mutated after construction.
func WithCondition(op Op, reg uint64) (Op, error) {
	cond := Condition{Conditional: true, Register: reg}
	switch v := op.(type) {
	case *Gate:
		c := *v
		c.cond = cond
		return &c, nil
	case *Measure:
		c := *v
		c.cond = cond
		return &c, nil
	case *Reset:
		c := *v
		c.cond = cond
		return &c, nil
	case *Snapshot:
		c := *v
		c.cond = cond
		return &c, nil
	case *Mat:
		c := *v
		c.cond = cond
		return &c, nil
	case *DMat:
		c := *v
		c.cond = cond
		return &c, nil
	case *Kraus:
		c := *v
		c.cond = cond
		return &c, nil
	case *Probs:
		c := *v
		c.cond = cond
		return &c, nil
	case *ObsPauli:
		c := *v
		c.cond = cond
		return &c, nil
	case *ObsMat:
		c := *v
		c.cond = cond
		return &c, nil
	case *ObsDMat:
		c := *v
		c.cond = cond
		return &c, nil
	case *ObsVec:
		c := *v
		c.cond = cond
		return &c, nil
	default:
		return nil, fmt.Errorf("unknown op type: %T", op)
	}
}
