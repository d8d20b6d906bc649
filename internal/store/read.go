package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
)

// GetRun returns the run with the given ID, or an error wrapping
// ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	return getRun(ctx, s.db, id)
}

func getRun(ctx context.Context, q querier, id string) (Run, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, seq, model_name, kernel_version, data_fingerprint, param_names
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs ordered by seq.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, model_name, kernel_version, data_fingerprint, param_names
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadDraws returns all draws of a run ordered by seq.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadDraws(ctx context.Context, runID string) ([]StoredDraw, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, draw_values, log_density
		FROM draws
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	draws := []StoredDraw{}
	for rows.Next() {
		var (
			d          StoredDraw
			valuesJSON string
			lp         sql.NullFloat64
		)
		if err := rows.Scan(&d.ID, &d.RunID, &d.Seq, &valuesJSON, &lp); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		d.Values, err = unmarshalDraw(valuesJSON)
		if err != nil {
			return nil, err
		}
		d.LogDensity = math.NaN()
		if lp.Valid {
			d.LogDensity = lp.Float64
		}
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draws: %w", err)
	}
	return draws, nil
}

// NextSeq returns the seq the next draw appended to runID should use:
// one past the largest stored seq, or 1 for an empty run.
func (s *Store) NextSeq(ctx context.Context, runID string) (int64, error) {
	return nextSeq(ctx, s.db, runID)
}

func nextSeq(ctx context.Context, q querier, runID string) (int64, error) {
	var next int64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM draws WHERE run_id = ?
	`, runID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return next, nil
}

// querier is the subset of *sql.DB and *sql.Tx the store uses.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		namesJSON string
	)
	if err := row.Scan(&run.ID, &run.Seq, &run.ModelName, &run.KernelVersion, &run.DataFingerprint, &namesJSON); err != nil {
		return Run{}, err
	}
	names, err := unmarshalNames(namesJSON)
	if err != nil {
		return Run{}, err
	}
	run.ParamNames = names
	return run, nil
}
