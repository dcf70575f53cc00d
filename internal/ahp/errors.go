package ahp

import "errors"

// Sentinel errors. Messages carry the "ahp:" prefix; positional context is
// added with fmt.Errorf("...: %w", ErrX) so callers match with errors.Is.
var (
	// ErrEmptyMatrix is returned for a matrix (or vector set) with no rows.
	ErrEmptyMatrix = errors.New("ahp: empty matrix")

	// ErrNonSquare is returned when a row length differs from the row count.
	ErrNonSquare = errors.New("ahp: matrix is not square")

	// ErrNonFinite is returned for NaN or ±Inf entries.
	ErrNonFinite = errors.New("ahp: non-finite entry")

	// ErrNonPositive is returned for entries <= 0; the geometric mean is undefined there.
	ErrNonPositive = errors.New("ahp: non-positive entry")

	// ErrDiagonal is returned when a diagonal entry is not 1 within tolerance.
	ErrDiagonal = errors.New("ahp: diagonal entry is not 1")

	// ErrNotReciprocal is returned when m[i][j]*m[j][i] is not 1 within tolerance.
	ErrNotReciprocal = errors.New("ahp: matrix is not reciprocal")

	// ErrUnsupportedOrder is returned when no random index exists for the matrix order.
	ErrUnsupportedOrder = errors.New("ahp: no random index for matrix order")

	// ErrOffScale is returned for a judgment that is not on the 1/9..9 scale.
	ErrOffScale = errors.New("ahp: judgment is not on the 1-9 scale")

	// ErrBadPair is returned for a judgment key outside the upper triangle.
	ErrBadPair = errors.New("ahp: invalid comparison pair")

	// ErrDimensionMismatch is returned when weight vectors differ in length.
	ErrDimensionMismatch = errors.New("ahp: dimension mismatch")
)
