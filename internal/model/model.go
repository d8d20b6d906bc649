package model

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/dichuniv/internal/catalog"
	"github.com/roach88/dichuniv/internal/data"
	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/transform"
)

// Prior hyperparameters.
const (
	AlphaNu    = 1.0
	AlphaMu    = 0.0
	AlphaSigma = 100.0
	BetaNu     = 1.0
	BetaMu     = 0.0
	BetaSigma  = 10.0
)

// GeneratedQuantity derives one output value from the constrained
// parameters (catalog order) and the observed data.
type GeneratedQuantity func(params []float64, obs *data.Observed) float64

type generated struct {
	name string
	fn   GeneratedQuantity
}

// Model holds validated data and the parameter layout.
type Model struct {
	obs       *data.Observed
	cat       *catalog.Catalog
	tr        *transform.Transform
	generated []generated
	logger    *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used during construction.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// WithGeneratedQuantity registers a derived output named name. Registered
// quantities appear after the parameters in WriteArray and in
// ConstrainedParamNames when includeGQs is true, in registration order.
func WithGeneratedQuantity(name string, fn GeneratedQuantity) Option {
	return func(m *Model) {
		m.generated = append(m.generated, generated{name: name, fn: fn})
	}
}

// New validates src and builds a Model. ctx carries tracing only; the
// build never blocks.
//
// Errors are those of data.New.
func New(ctx context.Context, src data.VarContext, opts ...Option) (*Model, error) {
	ctx, span := startBuildSpan(ctx)
	defer span.End()
	start := time.Now()

	m := &Model{logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}

	obs, err := data.New(src)
	if err != nil {
		span.RecordError(err)
		recordBuildMetrics(ctx, time.Since(start), 0, false)
		return nil, fmt.Errorf("building %s: %w", ir.ModelName, err)
	}

	cat := catalog.Default()
	if len(m.generated) > 0 {
		names := make([]string, len(m.generated))
		for i, g := range m.generated {
			names[i] = g.name
		}
		cat = cat.WithGenerated(names...)
	}

	m.obs = obs
	m.cat = cat
	m.tr = transform.New(cat)

	setBuildSpanResult(span, obs.Z(), cat.NumParams())
	recordBuildMetrics(ctx, time.Since(start), obs.Z(), true)
	m.logger.Debug("model built",
		"model", ir.ModelName,
		"z", obs.Z(),
		"params", cat.NumParams(),
		"generated", len(m.generated))

	return m, nil
}

// Name returns the model name.
func (m *Model) Name() string { return ir.ModelName }

// Observed returns the validated data.
func (m *Model) Observed() *data.Observed { return m.obs }

// Catalog returns the parameter catalog.
func (m *Model) Catalog() *catalog.Catalog { return m.cat }

// NumParams returns the length of the unconstrained vector.
func (m *Model) NumParams() int { return m.cat.NumParams() }

// ConstrainedParamNames returns the names WriteArray emits for the same flags.
func (m *Model) ConstrainedParamNames(includeTparams, includeGQs bool) []string {
	return m.cat.ConstrainedParamNames(includeTparams, includeGQs)
}

// UnconstrainedParamNames returns one name per unconstrained scalar.
func (m *Model) UnconstrainedParamNames(includeTparams, includeGQs bool) []string {
	return m.cat.UnconstrainedParamNames(includeTparams, includeGQs)
}

// TransformInits reads constrained alpha and beta from src and returns the
// unconstrained vector. See transform.Transform.Unconstrain for errors.
func (m *Model) TransformInits(src data.VarContext) ([]float64, error) {
	return m.tr.Unconstrain(src)
}
