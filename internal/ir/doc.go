// Package ir provides the typed instruction representation for opload.
//
// An instruction is an Op: a sealed interface with one concrete struct per
// instruction kind. Each variant carries only the fields its kind needs.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Ops are values built once by the compiler and never mutated afterwards
//   - Numeric payloads (CVector, CMatrix) are opaque here; no dimension checks
//   - Wire and canonical JSON use the same field names as the input records
//   - Complex numbers serialize as [re, im]
package ir
