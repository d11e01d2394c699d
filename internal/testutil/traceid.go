package testutil

// DefaultTraceID is used when a test or scenario does not set one.
const DefaultTraceID = "test-trace-default"

// FixedTraceID generates the same trace ID every time.
//
// This keeps CLI output and golden snapshots byte-identical across runs.
//
// Thread-safety: FixedTraceID is stateless and safe for concurrent use.
type FixedTraceID struct {
	id string
}

// NewFixedTraceID creates a fixed trace ID generator.
//
// The ID is typically set in the scenario YAML:
//
//	trace_id: "trace-pauli"
//
// If id is empty, Generate() returns DefaultTraceID.
func NewFixedTraceID(id string) *FixedTraceID {
	if id == "" {
		id = DefaultTraceID
	}
	return &FixedTraceID{id: id}
}

// Generate returns the fixed trace ID.
//
// Implements traceid.Generator.
func (g *FixedTraceID) Generate() string {
	return g.id
}
