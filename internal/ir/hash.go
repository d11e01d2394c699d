package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainOp is the domain prefix for instruction cache keys.
// The version suffix allows a future algorithm migration.
const DomainOp = "opload/op/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CacheKey computes the content-addressed key of an instruction from its
// canonical JSON. Downstream caches key observables by it, so it depends only
// on what the instruction means: Pauli observables are stored with sorted
// qubits, and two records naming the same observable in different qubit
// orders produce the same key.
func CacheKey(op Op) (string, error) {
	canonical, err := MarshalCanonical(op)
	if err != nil {
		return "", fmt.Errorf("CacheKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOp, canonical), nil
}

// MustCacheKey is like CacheKey but panics on error.
// Use only in tests or when the op is known to hold finite numbers.
func MustCacheKey(op Op) string {
	key, err := CacheKey(op)
	if err != nil {
		panic(err)
	}
	return key
}
