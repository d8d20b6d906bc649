package model

import (
	"github.com/roach88/dichuniv/internal/ad"
	"github.com/roach88/dichuniv/internal/data"
	"github.com/roach88/dichuniv/internal/ir"
	"github.com/roach88/dichuniv/internal/transform"
)

// WriteArray maps an unconstrained draw to named constrained values in
// catalog order, without any Jacobian. The model declares no transformed
// parameters, so includeTparams adds nothing; includeGQs appends every
// registered GeneratedQuantity.
func (m *Model) WriteArray(theta []float64, includeTparams, includeGQs bool) (ir.Draw, error) {
	params, err := transform.Constrain(m.tr, ad.Float{}, theta, false, nil)
	if err != nil {
		return nil, err
	}

	names := m.cat.ConstrainedParamNames(includeTparams, false)
	draw := make(ir.Draw, 0, len(names)+len(m.generated))
	for i, name := range names {
		draw = append(draw, ir.NamedValue{Name: name, Value: params[i]})
	}
	if includeGQs {
		for _, g := range m.generated {
			draw = append(draw, ir.NamedValue{Name: g.name, Value: g.fn(params, m.obs)})
		}
	}
	return draw, nil
}

// MeanSuccessProbabilityName is the output name the CLI registers
// MeanSuccessProbability under.
const MeanSuccessProbabilityName = "p_mean"

// MeanSuccessProbability is a GeneratedQuantity: the average over groups of
// inv_logit(alpha + beta*X[i]). It is NaN when there are no groups.
func MeanSuccessProbability(params []float64, obs *data.Observed) float64 {
	f := ad.Float{}
	var sum float64
	for i := range obs.Z() {
		sum += ad.InvLogit[float64](f, params[0]+params[1]*obs.X(i))
	}
	return sum / float64(obs.Z())
}
