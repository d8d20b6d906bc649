package store

import (
	"errors"
	"fmt"

	"github.com/roach88/dichuniv/internal/ir"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored run.
type Run struct {
	ID              string   `json:"id"`
	Seq             int64    `json:"seq"`
	ModelName       string   `json:"model_name"`
	KernelVersion   string   `json:"kernel_version"`
	DataFingerprint string   `json:"data_fingerprint"`
	ParamNames      []string `json:"param_names"`
}

// StoredDraw is one stored draw. LogDensity is NaN when it was not
// recorded or was not finite.
type StoredDraw struct {
	ID         string  `json:"id"`
	RunID      string  `json:"run_id"`
	Seq        int64   `json:"seq"`
	Values     ir.Draw `json:"values"`
	LogDensity float64 `json:"-"`
}

// ConflictError reports a write of different values under an existing
// (run, seq).
type ConflictError struct {
	RunID      string
	Seq        int64
	ExistingID string
	NewID      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("draw %d of run %s already stored with different values (existing %s, new %s)",
		e.Seq, e.RunID, shortID(e.ExistingID), shortID(e.NewID))
}

// IsConflict returns true if err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
