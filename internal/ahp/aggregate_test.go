package ahp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
)

func TestAggregatePriorities(t *testing.T) {
	got, err := ahp.AggregatePriorities([][]float64{
		{0.5, 0.5},
		{0.8, 0.2},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, got[0], eps)
	assert.InDelta(t, 1.0/3, got[1], eps)

	single := []float64{0.6, 0.3, 0.1}
	got, err = ahp.AggregatePriorities([][]float64{single})
	require.NoError(t, err)
	assert.InDeltaSlice(t, single, got, eps)
}

func TestAggregatePriorities_Errors(t *testing.T) {
	_, err := ahp.AggregatePriorities(nil)
	assert.ErrorIs(t, err, ahp.ErrEmptyMatrix)

	_, err = ahp.AggregatePriorities([][]float64{{0.5, 0.5}, {1}})
	assert.ErrorIs(t, err, ahp.ErrDimensionMismatch)

	_, err = ahp.AggregatePriorities([][]float64{{1, 0}})
	assert.ErrorIs(t, err, ahp.ErrNonPositive)
}
