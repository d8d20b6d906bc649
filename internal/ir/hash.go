package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainData = "dichuniv/data/v1"
	DomainDraw = "dichuniv/draw/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DataFingerprint computes a content-addressed ID for an observed dataset.
// fields maps variable names to their values (ints, int slices, float slices).
// Identical datasets produce identical fingerprints regardless of the
// source format they were loaded from.
func DataFingerprint(fields map[string]any) (string, error) {
	obj := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		obj[k] = v
	}
	obj["model"] = ModelName

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DataFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainData, canonical), nil
}

// DrawID computes a content-addressed ID for a stored draw.
// The ID is stable across re-runs given the same run, sequence and values.
func DrawID(runID string, seq int64, draw Draw) (string, error) {
	obj := map[string]any{
		"run_id": runID,
		"seq":    seq,
		"values": draw,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DrawID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDraw, canonical), nil
}

// MustDrawID is like DrawID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDrawID(runID string, seq int64, draw Draw) string {
	id, err := DrawID(runID, seq, draw)
	if err != nil {
		panic(err)
	}
	return id
}
