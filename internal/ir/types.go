package ir

// Kind identifies the category of an instruction.
// For every kind except KindGate the kind string is also the instruction name.
type Kind string

const (
	KindGate     Kind = "gate"
	KindMeasure  Kind = "measure"
	KindReset    Kind = "reset"
	KindSnapshot Kind = "snapshot"
	KindMat      Kind = "mat"
	KindDMat     Kind = "dmat"
	KindKraus    Kind = "kraus"
	KindProbs    Kind = "probs"
	KindObsPauli Kind = "obs_pauli"
	KindObsMat   Kind = "obs_mat"
	KindObsDMat  Kind = "obs_dmat"
	KindObsVec   Kind = "obs_vec"
)

// IsObservable reports whether k requests an observable rather than acting on state.
func (k Kind) IsObservable() bool {
	switch k {
	case KindProbs, KindObsPauli, KindObsMat, KindObsDMat, KindObsVec:
		return true
	}
	return false
}

// CVector is a complex vector payload (diagonal or state vector).
type CVector []complex128

// CMatrix is a row-major complex matrix payload.
type CMatrix [][]complex128

// Dims returns the number of rows and the width of the first row.
// Ragged matrices are not detected here.
func (m CMatrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// IsSquare reports whether every row has exactly len(m) entries.
func (m CMatrix) IsSquare() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

// Condition describes classical conditioning of an instruction.
// Constructors always leave it zero; see WithCondition.
type Condition struct {
	Conditional bool
	Register    uint64
}

// Op is a sealed interface implemented by the instruction variants in this
// package. Use a type switch over the concrete types for exhaustive handling.
type Op interface {
	// Name returns the discriminator the instruction was read from.
	Name() string
	// Kind returns the instruction category.
	Kind() Kind
	// ActsOn returns the qubits of the instruction in stored order.
	// Snapshot returns nil.
	ActsOn() []uint64
	// Condition returns the classical condition (zero unless set by WithCondition).
	Condition() Condition

	isOp() // Sealed
}

// base holds the fields shared by every variant.
type base struct {
	cond Condition
}

func (b base) Condition() Condition { return b.cond }
func (base) isOp()                  {}
