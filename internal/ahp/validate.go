package ahp

import (
	"fmt"
	"math"
)

// DefaultTolerance bounds |m[i][j]*m[j][i] - 1| and |m[i][i] - 1| during validation.
const DefaultTolerance = 1e-9

// Matrix is a square pairwise-comparison matrix: m[i][j] is the importance
// of criterion i relative to criterion j.
type Matrix [][]float64

// Order returns the number of criteria compared by the matrix.
func (m Matrix) Order() int { return len(m) }

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// checkShape verifies m is non-empty and square.
func checkShape(m Matrix) error {
	n := len(m)
	if n == 0 {
		return ErrEmptyMatrix
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("ahp: row %d has %d entries, want %d: %w", i, len(row), n, ErrNonSquare)
		}
	}
	return nil
}

// Validate checks that m is a well-formed reciprocal comparison matrix:
// non-empty, square, finite strictly positive entries, unit diagonal and
// reciprocal symmetry, each within tol. A tol that is not a positive finite
// number selects DefaultTolerance.
func Validate(m Matrix, tol float64) error {
	if !validTolerance(tol) {
		tol = DefaultTolerance
	}
	if err := checkShape(m); err != nil {
		return err
	}
	n := len(m)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("ahp: entry (%d,%d): %w", i, j, ErrNonFinite)
			}
			if v <= 0 {
				return fmt.Errorf("ahp: entry (%d,%d)=%g: %w", i, j, v, ErrNonPositive)
			}
		}
	}
	for i := 0; i < n; i++ {
		if math.Abs(m[i][i]-1) > tol {
			return fmt.Errorf("ahp: entry (%d,%d)=%g: %w", i, i, m[i][i], ErrDiagonal)
		}
		// upper triangle only; the product is symmetric in (i, j)
		for j := i + 1; j < n; j++ {
			if math.Abs(m[i][j]*m[j][i]-1) > tol {
				return fmt.Errorf("ahp: entries (%d,%d)=%g and (%d,%d)=%g: %w",
					i, j, m[i][j], j, i, m[j][i], ErrNotReciprocal)
			}
		}
	}
	return nil
}

func validTolerance(tol float64) bool {
	return tol > 0 && !math.IsInf(tol, 1)
}
