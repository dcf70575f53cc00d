// Package ahp derives Analytic Hierarchy Process priority weights from a
// reciprocal pairwise-comparison matrix and reports how consistent the
// underlying judgments are.
//
// Weights are computed with the geometric-mean method: each row's geometric
// mean, normalized to sum to 1. The principal eigenvalue is estimated from the
// weighted row sums, which gives the consistency index (CI) and, normalized by
// Saaty's random index for the matrix order, the consistency ratio (CR).
// A CR of at most 0.10 is conventionally accepted as consistent; the weights are
// returned either way.
//
// Everything in this package is pure: no I/O, no package state beyond the
// read-only random index table, and inputs are never modified. Functions may be
// called concurrently without synchronization.
//
//	m := ahp.Matrix{
//		{1, 3, 5},
//		{1.0 / 3, 1, 2},
//		{1.0 / 5, 1.0 / 2, 1},
//	}
//	res, err := ahp.Compute(m)
//	// res.Weights ≈ [0.648 0.230 0.122], res.CR ≈ 0.0032
package ahp
