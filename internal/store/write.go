package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/roach88/dichuniv/internal/ir"
)

// CreateRun inserts a new run for the dataset with the given fingerprint and
// returns it. paramNames lists the names every draw of the run carries.
// Runs are numbered 1, 2, ... in creation order.
func (s *Store) CreateRun(ctx context.Context, dataFingerprint string, paramNames []string) (Run, error) {
	return s.createRun(ctx, s.db, dataFingerprint, paramNames)
}

func (s *Store) createRun(ctx context.Context, q querier, dataFingerprint string, paramNames []string) (Run, error) {
	namesJSON, err := marshalNames(paramNames)
	if err != nil {
		return Run{}, fmt.Errorf("create run: %w", err)
	}

	run := Run{
		ID:              s.ids.Generate(),
		ModelName:       ir.ModelName,
		KernelVersion:   ir.KernelVersion,
		DataFingerprint: dataFingerprint,
		ParamNames:      append([]string{}, paramNames...),
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO runs (id, seq, model_name, kernel_version, data_fingerprint, param_names)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?)
		RETURNING seq
	`,
		run.ID,
		run.ModelName,
		run.KernelVersion,
		run.DataFingerprint,
		namesJSON,
	).Scan(&run.Seq)
	if err != nil {
		return Run{}, fmt.Errorf("create run: %w", err)
	}

	return run, nil
}

// WriteDraw stores one draw under (runID, seq) and returns its
// content-addressed ID. logDensity may be NaN when unknown.
//
// Writing the same values again is a no-op. Writing different values under
// an existing (runID, seq) returns a ConflictError. The run must exist
// (foreign key constraint).
func (s *Store) WriteDraw(ctx context.Context, runID string, seq int64, draw ir.Draw, logDensity float64) (string, error) {
	return writeDraw(ctx, s.db, runID, seq, draw, logDensity)
}

func writeDraw(ctx context.Context, q querier, runID string, seq int64, draw ir.Draw, logDensity float64) (string, error) {
	id, err := ir.DrawID(runID, seq, draw)
	if err != nil {
		return "", fmt.Errorf("write draw: %w", err)
	}
	valuesJSON, err := marshalDraw(draw)
	if err != nil {
		return "", fmt.Errorf("write draw: %w", err)
	}

	var lp sql.NullFloat64
	if !math.IsNaN(logDensity) && !math.IsInf(logDensity, 0) {
		lp = sql.NullFloat64{Float64: logDensity, Valid: true}
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO draws (id, run_id, seq, draw_values, log_density)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, id, runID, seq, valuesJSON, lp)
	if err != nil {
		return "", fmt.Errorf("write draw: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("write draw: %w", err)
	}
	if n > 0 {
		return id, nil
	}

	var existing string
	err = q.QueryRowContext(ctx, `
		SELECT id FROM draws WHERE run_id = ? AND seq = ?
	`, runID, seq).Scan(&existing)
	if err != nil {
		return "", fmt.Errorf("write draw: check existing: %w", err)
	}
	if existing != id {
		return "", &ConflictError{RunID: runID, Seq: seq, ExistingID: existing, NewID: id}
	}
	return id, nil
}

// DrawRecord is one draw to append, with its log density (NaN when
// unknown).
type DrawRecord struct {
	Values     ir.Draw
	LogDensity float64
}

// AppendResult describes a committed Append.
type AppendResult struct {
	Run      Run
	FirstSeq int64
	DrawIDs  []string
}

// ErrFingerprintMismatch is returned by Append when the existing run was
// created from different data.
var ErrFingerprintMismatch = errors.New("run was created from different data")

// Append writes records after the last draw of run runID, or into a new run
// when runID is empty. Run creation and every draw insert share one
// transaction: on error nothing is stored.
//
// An existing run must carry dataFingerprint, and every record must carry
// exactly the run's parameter names in order.
func (s *Store) Append(ctx context.Context, runID, dataFingerprint string, paramNames []string, records []DrawRecord) (AppendResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AppendResult{}, fmt.Errorf("append: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var run Run
	if runID == "" {
		run, err = s.createRun(ctx, tx, dataFingerprint, paramNames)
	} else {
		run, err = getRun(ctx, tx, runID)
		if err == nil && run.DataFingerprint != dataFingerprint {
			err = fmt.Errorf("append to run %s: %w (fingerprint %s, data has %s)",
				run.ID, ErrFingerprintMismatch, run.DataFingerprint, dataFingerprint)
		}
	}
	if err != nil {
		return AppendResult{}, err
	}

	first, err := nextSeq(ctx, tx, run.ID)
	if err != nil {
		return AppendResult{}, err
	}

	result := AppendResult{Run: run, FirstSeq: first, DrawIDs: make([]string, 0, len(records))}
	for i, rec := range records {
		if names := rec.Values.Names(); !slices.Equal(names, run.ParamNames) {
			return AppendResult{}, fmt.Errorf("draw %d: names %v do not match run names %v", i+1, names, run.ParamNames)
		}
		id, err := writeDraw(ctx, tx, run.ID, first+int64(i), rec.Values, rec.LogDensity)
		if err != nil {
			return AppendResult{}, fmt.Errorf("draw %d: %w", i+1, err)
		}
		result.DrawIDs = append(result.DrawIDs, id)
	}

	if err := tx.Commit(); err != nil {
		return AppendResult{}, fmt.Errorf("append: commit: %w", err)
	}
	return result, nil
}
