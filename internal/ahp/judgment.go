package ahp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// scaleTolerance is how far a parsed judgment may sit from a scale value and
// still snap to it; wide enough for "0.333" but far below the 1/8-1/9 gap.
const scaleTolerance = 5e-3

// scale holds Saaty's fundamental scale in ascending order.
var scale = [...]float64{
	1.0 / 9, 1.0 / 8, 1.0 / 7, 1.0 / 6, 1.0 / 5, 1.0 / 4, 1.0 / 3, 1.0 / 2,
	1,
	2, 3, 4, 5, 6, 7, 8, 9,
}

// Scale returns the 17 admissible judgment values, 1/9 through 9.
func Scale() []float64 {
	return append([]float64(nil), scale[:]...)
}

// snap returns the scale value v is closest to, if it lies within scaleTolerance.
// Values below 1 are compared on their reciprocal so 1/9 and 1/8 stay distinguishable.
func snap(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	if v < 1 {
		r, ok := snap(1 / v)
		if !ok {
			return 0, false
		}
		return 1 / r, true
	}
	r := math.Round(v)
	if r < 1 || r > 9 || math.Abs(v-r) > scaleTolerance*r {
		return 0, false
	}
	return r, true
}

// SnapJudgment maps v onto the exact scale value it represents.
func SnapJudgment(v float64) (float64, error) {
	s, ok := snap(v)
	if !ok {
		return 0, fmt.Errorf("ahp: judgment %g: %w", v, ErrOffScale)
	}
	return s, nil
}

// ParseJudgment parses "3", "1/3" or a decimal such as "0.333" into a scale value.
func ParseJudgment(s string) (float64, error) {
	s = strings.TrimSpace(s)
	var v float64
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("ahp: judgment %q: %w", s, ErrOffScale)
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || b == 0 {
			return 0, fmt.Errorf("ahp: judgment %q: %w", s, ErrOffScale)
		}
		v = a / b
	} else {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("ahp: judgment %q: %w", s, ErrOffScale)
		}
		v = f
	}
	return SnapJudgment(v)
}

// FormatJudgment renders a matrix entry the way the survey displays it:
// "1", "1/k" below one, and the rounded value above one.
func FormatJudgment(v float64) string {
	switch {
	case v == 1:
		return "1"
	case v < 1 && v > 0:
		return "1/" + strconv.Itoa(int(math.Round(1/v)))
	default:
		return strconv.Itoa(int(math.Round(v)))
	}
}

// Pair identifies an upper-triangle cell (I < J) of a comparison matrix.
type Pair struct {
	I, J int
}

// Key returns the "i_j" form used by survey forms.
func (p Pair) Key() string {
	return strconv.Itoa(p.I) + "_" + strconv.Itoa(p.J)
}

// ParsePairKey parses an "i_j" key.
func ParsePairKey(key string) (Pair, error) {
	a, b, ok := strings.Cut(key, "_")
	if !ok {
		return Pair{}, fmt.Errorf("ahp: pair %q: %w", key, ErrBadPair)
	}
	i, err := strconv.Atoi(a)
	if err != nil {
		return Pair{}, fmt.Errorf("ahp: pair %q: %w", key, ErrBadPair)
	}
	j, err := strconv.Atoi(b)
	if err != nil {
		return Pair{}, fmt.Errorf("ahp: pair %q: %w", key, ErrBadPair)
	}
	return Pair{I: i, J: j}, nil
}

// Pairs lists every upper-triangle pair of an order-n matrix in row-major order.
func Pairs(n int) []Pair {
	if n < 2 {
		return nil
	}
	out := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Pair{I: i, J: j})
		}
	}
	return out
}

// BuildMatrix assembles an order-n reciprocal matrix from upper-triangle
// judgments. Unanswered pairs default to 1 (equal importance); each judgment
// v at (i, j) also sets 1/v at (j, i).
func BuildMatrix(n int, judgments map[Pair]float64) (Matrix, error) {
	if n < 1 {
		return nil, ErrEmptyMatrix
	}
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = 1
		}
	}
	for p, v := range judgments {
		if p.I < 0 || p.J >= n || p.I >= p.J {
			return nil, fmt.Errorf("ahp: pair %s for order %d: %w", p.Key(), n, ErrBadPair)
		}
		s, err := SnapJudgment(v)
		if err != nil {
			return nil, fmt.Errorf("ahp: pair %s: %w", p.Key(), err)
		}
		m[p.I][p.J] = s
		m[p.J][p.I] = 1 / s
	}
	return m, nil
}

// ConsistentMatrix builds the perfectly consistent matrix m[i][j] = v[i]/v[j].
func ConsistentMatrix(v []float64) (Matrix, error) {
	if len(v) == 0 {
		return nil, ErrEmptyMatrix
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("ahp: value %d: %w", i, ErrNonFinite)
		}
		if x <= 0 {
			return nil, fmt.Errorf("ahp: value %d=%g: %w", i, x, ErrNonPositive)
		}
	}
	m := make(Matrix, len(v))
	for i := range v {
		m[i] = make([]float64, len(v))
		for j := range v {
			m[i][j] = v[i] / v[j]
		}
	}
	return m, nil
}
