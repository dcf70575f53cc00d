package ahp

import (
	"fmt"
	"math"
)

// Result holds the priority weights and consistency report for one matrix.
type Result struct {
	Weights   []float64 `json:"weights"`
	LambdaMax float64   `json:"lambda_max"`
	CI        float64   `json:"ci"`
	CR        float64   `json:"cr"`
	N         int       `json:"n"`
	// RandomIndex is the divisor applied to CI.
	RandomIndex float64 `json:"ri"`
	// RandomIndexFallback is set when the order had no table entry and CI
	// was divided by 1 (see WithPermissiveRandomIndex).
	RandomIndexFallback bool `json:"ri_fallback,omitempty"`
}

// Consistent reports whether the result's CR is within ConsistencyThreshold.
func (r *Result) Consistent() bool { return IsConsistent(r.CR) }

// Compute derives priority weights from m with the geometric-mean method and
// reports lambdaMax, CI and CR. m is not modified.
//
// Orders 1 and 2 are consistent by construction and always yield CR 0.
// Orders above MaxOrder fail with ErrUnsupportedOrder unless
// WithPermissiveRandomIndex is given.
func Compute(m Matrix, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.trusted {
		if err := checkShape(m); err != nil {
			return nil, err
		}
	} else if err := Validate(m, o.tol); err != nil {
		return nil, err
	}

	n := len(m)
	ri, ok := RandomIndex(n)
	fallback := false
	if !ok {
		if !o.permissive {
			return nil, fmt.Errorf("ahp: order %d exceeds %d: %w", n, MaxOrder, ErrUnsupportedOrder)
		}
		ri, fallback = 1, true
	}

	weights := geometricMeanWeights(m)
	lambdaMax := principalEigenvalue(m, weights)

	for i, w := range weights {
		if !isFinite(w) || w <= 0 {
			return nil, fmt.Errorf("ahp: weight %d=%g: %w", i, w, ErrNonFinite)
		}
	}
	if !isFinite(lambdaMax) {
		return nil, fmt.Errorf("ahp: lambdaMax=%g: %w", lambdaMax, ErrNonFinite)
	}

	var ci, cr float64
	if n > 1 {
		ci = (lambdaMax - float64(n)) / float64(n-1)
	}
	switch {
	case fallback:
		cr = ci
	case n > 2:
		cr = ci / ri
	}

	return &Result{
		Weights:             weights,
		LambdaMax:           lambdaMax,
		CI:                  ci,
		CR:                  cr,
		N:                   n,
		RandomIndex:         ri,
		RandomIndexFallback: fallback,
	}, nil
}

// geometricMeanWeights returns the row geometric means of m normalized to sum to 1.
// The means are taken in log space and shifted by the largest one, so finite
// entries of any magnitude cannot overflow the product.
func geometricMeanWeights(m Matrix) []float64 {
	n := len(m)
	logMean := make([]float64, n)
	top := math.Inf(-1)
	for i, row := range m {
		var sum float64
		for _, v := range row {
			sum += math.Log(v)
		}
		logMean[i] = sum / float64(n)
		top = math.Max(top, logMean[i])
	}
	gm := make([]float64, n)
	var total float64
	for i, lm := range logMean {
		gm[i] = math.Exp(lm - top)
		total += gm[i]
	}
	for i := range gm {
		gm[i] /= total
	}
	return gm
}

// principalEigenvalue estimates lambdaMax as the mean of (m·w)[i] / w[i].
func principalEigenvalue(m Matrix, w []float64) float64 {
	var total float64
	for i, row := range m {
		var ws float64
		for j, v := range row {
			ws += v * w[j]
		}
		total += ws / w[i]
	}
	return total / float64(len(m))
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
