// Package harness runs conformance scenarios against the instruction compiler.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: pauli_canonical
//	description: "Reordered Pauli observables share a cache key"
//	trace_id: trace-pauli        # optional, fixed for golden output
//	strict: false                # optional, adds dimension checks
//	steps:
//	  - instruction: {name: obs_pauli, qubits: [2, 0, 1], params: ["XYZ"], coeffs: [1]}
//	    expect:
//	      kind: obs_pauli
//	      qubits: [0, 1, 2]
//	      labels: ["YZX"]
//	  - instruction: {name: measure, qubits: [0, 1], memory: [0]}
//	    expect:
//	      error: E204
//	assertions:
//	  - type: same_key
//	    steps: [0, 1]
//
// Each instruction is compiled on its own with compiler.CompileOp. An expect
// block either names the error code the step must fail with or describes
// the op it must produce (subset match).
//
// # Assertion Types
//
//   - same_key: the listed steps compiled and share one cache key
//   - distinct_keys: the listed steps compiled and have pairwise different keys
//   - kind_count: exactly count compiled ops have the given kind
//
// # Golden Snapshots
//
// RunWithGolden marshals every step outcome (name, kind, cache key and wire
// form, or the error code) as canonical JSON and compares it against
// testdata/golden/{name}.golden with goldie. Scenarios use a fixed trace ID,
// so the snapshot is byte-identical across runs.
package harness
