package ir

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleFields() map[string]any {
	return map[string]any{
		"Z": 3,
		"N": []int{10, 10, 10},
		"Y": []int{5, 7, 2},
		"X": []float64{0, 1, -1},
	}
}

func TestDataFingerprintDeterminism(t *testing.T) {
	fp1, err := DataFingerprint(exampleFields())
	require.NoError(t, err)
	fp2, err := DataFingerprint(exampleFields())
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2, "DataFingerprint must be deterministic")
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
	_, err = hex.DecodeString(fp1)
	assert.NoError(t, err)
}

func TestDataFingerprintChangesWithContent(t *testing.T) {
	base, err := DataFingerprint(exampleFields())
	require.NoError(t, err)

	changed := exampleFields()
	changed["Y"] = []int{5, 7, 3}
	fp, err := DataFingerprint(changed)
	require.NoError(t, err)
	assert.NotEqual(t, base, fp)

	// A covariate of 1 and 1.0000000000000002 must differ
	changed = exampleFields()
	changed["X"] = []float64{0, 1.0000000000000002, -1}
	fp, err = DataFingerprint(changed)
	require.NoError(t, err)
	assert.NotEqual(t, base, fp)
}

func TestDataFingerprintDoesNotMutateInput(t *testing.T) {
	fields := exampleFields()
	_, err := DataFingerprint(fields)
	require.NoError(t, err)
	assert.NotContains(t, fields, "model")
}

func TestDrawIDDeterminism(t *testing.T) {
	d := Draw{{Name: "alpha", Value: 0.25}, {Name: "beta", Value: -1}}

	id1, err := DrawID("run-1", 1, d)
	require.NoError(t, err)
	id2, err := DrawID("run-1", 1, d)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)
}

func TestDrawIDChangesWithInput(t *testing.T) {
	d := Draw{{Name: "alpha", Value: 0.25}, {Name: "beta", Value: -1}}
	other := Draw{{Name: "alpha", Value: 0.25}, {Name: "beta", Value: -2}}

	id := MustDrawID("run-1", 1, d)
	assert.NotEqual(t, id, MustDrawID("run-2", 1, d), "different runs")
	assert.NotEqual(t, id, MustDrawID("run-1", 2, d), "different seq")
	assert.NotEqual(t, id, MustDrawID("run-1", 1, other), "different values")
}

func TestDomainSeparation(t *testing.T) {
	payload := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainData, payload), hashWithDomain(DomainDraw, payload))
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" must differ from "a" + 0x00 + "bc"
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}
