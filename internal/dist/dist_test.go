package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/roach88/dichuniv/internal/ad"
)

func TestStudentTMatchesGonum(t *testing.T) {
	tests := []struct {
		name              string
		x, nu, mu, sigma float64
	}{
		{"alpha prior at zero", 0, 1, 0, 100},
		{"beta prior at zero", 0, 1, 0, 10},
		{"tail", 250, 1, 0, 100},
		{"shifted", -3.5, 4, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := distuv.StudentsT{Mu: tt.mu, Sigma: tt.sigma, Nu: tt.nu}
			got := StudentT(ad.Float{}, tt.x, tt.nu, tt.mu, tt.sigma, false)
			assert.InDelta(t, ref.LogProb(tt.x), got, 1e-12)
		})
	}
}

func TestStudentTAtZeroClosedForm(t *testing.T) {
	// With nu=1 (Cauchy) the density at the location is 1/(pi*sigma).
	got := StudentT(ad.Float{}, 0, 1, 0, 100, false)
	assert.InDelta(t, -math.Log(100*math.Pi), got, 1e-12)
}

func TestStudentTProptoDropsConstant(t *testing.T) {
	full := StudentT(ad.Float{}, 7, 1, 0, 10, false)
	prop := StudentT(ad.Float{}, 7, 1, 0, 10, true)
	assert.InDelta(t, -math.Log(10*math.Pi), full-prop, 1e-12)
	assert.InDelta(t, -math.Log1p(0.49), prop, 1e-12)
}

func TestStudentTGradient(t *testing.T) {
	// d/dx of -(nu+1)/2 log(1 + z^2/nu) = -(nu+1) z / (sigma (nu + z^2))
	x, nu, mu, sigma := 3.0, 1.0, 0.0, 10.0
	g := StudentT(ad.GradField{}, ad.Seed([]float64{x})[0], nu, mu, sigma, false)
	require.Len(t, g.D, 1)

	z := (x - mu) / sigma
	assert.InDelta(t, -(nu+1)*z/(sigma*(nu+z*z)), g.D[0], 1e-14)
}

func TestBinomialLogitMatchesGonum(t *testing.T) {
	tests := []struct {
		name string
		n, y int
		eta  float64
	}{
		{"even odds", 10, 5, 0},
		{"positive eta", 10, 7, 1.3},
		{"negative eta", 12, 2, -0.8},
		{"no successes", 4, 0, 0.2},
		{"all successes", 4, 4, -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := 1 / (1 + math.Exp(-tt.eta))
			ref := distuv.Binomial{N: float64(tt.n), P: p}
			got := BinomialLogit(ad.Float{}, tt.n, tt.y, tt.eta, false)
			assert.InDelta(t, ref.LogProb(float64(tt.y)), got, 1e-10)
		})
	}
}

func TestBinomialLogitPropto(t *testing.T) {
	// y*eta - n*log(1+exp(eta)) with eta=0 is -n*log(2).
	got := BinomialLogit(ad.Float{}, 10, 7, 0.0, true)
	assert.InDelta(t, -10*math.Log(2), got, 1e-12)

	full := BinomialLogit(ad.Float{}, 10, 7, 0.0, false)
	assert.InDelta(t, math.Log(120), full-got, 1e-10)
}

func TestBinomialLogitExtremeEta(t *testing.T) {
	f := ad.Float{}
	for _, eta := range []float64{-1e6, 1e6, -1e300, 1e300} {
		got := BinomialLogit(f, 10, 3, eta, false)
		assert.False(t, math.IsNaN(got), "eta=%v", eta)
		assert.False(t, math.IsInf(got, 0), "eta=%v", eta)
	}

	// Certain outcomes stay exact at infinite log-odds.
	assert.Equal(t, 0.0, BinomialLogit(f, 5, 5, math.Inf(1), true))
	assert.Equal(t, 0.0, BinomialLogit(f, 5, 0, math.Inf(-1), true))
}

func TestBinomialLogitGradient(t *testing.T) {
	// d/deta = y - n*inv_logit(eta)
	eta := 0.4
	g := BinomialLogit(ad.GradField{}, 10, 6, ad.Seed([]float64{eta})[0], false)
	require.Len(t, g.D, 1)
	assert.InDelta(t, 6-10/(1+math.Exp(-eta)), g.D[0], 1e-12)
}

func TestLogChoose(t *testing.T) {
	f := ad.Float{}
	assert.InDelta(t, math.Log(252), LogChoose(f, 10.0, 5.0), 1e-12)
	assert.InDelta(t, 0, LogChoose(f, 7.0, 0.0), 1e-12)
	assert.InDelta(t, 0, LogChoose(f, 7.0, 7.0), 1e-12)
}
