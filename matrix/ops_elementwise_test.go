// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvcov/matrix"
	"github.com/stretchr/testify/require"
)

// diag builds a 2×2 diagonal matrix that may hold NaN or Inf.
func diag(t *testing.T, a, b float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(2, 2, []float64{a, 0, 0, b}, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)

	return m
}

// TestAllCloseNaNPolicy never treats NaN as close.
func TestAllCloseNaNPolicy(t *testing.T) {
	t.Parallel()

	a := diag(t, math.NaN(), 1)
	ok, err := matrix.AllClose(a, a.Clone(), 0, 1e-9)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = matrix.AllClose(diag(t, 2, 1), hide{diag(t, 2, 1+1e-10)}, 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = matrix.AllClose(a, a, math.Inf(1), 0)
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.AllClose(a, MustDense(t, 3, 3), 0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestAllCloseInfinities treats matching infinities as equal.
func TestAllCloseInfinities(t *testing.T) {
	t.Parallel()

	a := diag(t, math.Inf(1), math.Inf(-1))
	ok, err := matrix.AllClose(a, a.Clone(), 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
}
