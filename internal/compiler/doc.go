// Package compiler turns instruction records into typed ir.Op values.
//
// CompileOp reads the name field and hands the record to the constructor
// for that kind. Unrecognized names become generic gates. Every constructor
// validates its own invariants and fails with a *CompileError carrying one
// of the E2xx codes; no partially built op is ever returned.
//
// Validate re-checks the same invariants on an op that did not come from a
// constructor, collecting every violation instead of stopping at the first.
package compiler
