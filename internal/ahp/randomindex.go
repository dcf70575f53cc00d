package ahp

// ConsistencyThreshold is the largest CR still considered consistent.
const ConsistencyThreshold = 0.10

// MaxOrder is the largest matrix order covered by the random index table.
const MaxOrder = 9

// randomIndex holds Saaty's random consistency index by matrix order.
// Index 0 is unused. Arrays are values, so the table cannot be mutated
// through anything this package hands out.
var randomIndex = [MaxOrder + 1]float64{
	0,    // unused
	0,    // 1
	0,    // 2
	0.58, // 3
	0.90, // 4
	1.12, // 5
	1.24, // 6
	1.32, // 7
	1.41, // 8
	1.45, // 9
}

// RandomIndex returns the random index for a matrix of order n.
// ok is false when n lies outside 1..MaxOrder.
func RandomIndex(n int) (ri float64, ok bool) {
	if n < 1 || n > MaxOrder {
		return 0, false
	}
	return randomIndex[n], true
}

// IsConsistent reports whether a consistency ratio is within the accepted threshold.
func IsConsistent(cr float64) bool {
	return cr <= ConsistencyThreshold
}
