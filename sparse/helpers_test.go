// SPDX-License-Identifier: MIT
package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcov/sparse"
)

// MustCOO builds a canonical matrix or fails the test.
func MustCOO(t *testing.T, r, c int, i, j []int, v []float64) *sparse.COO {
	t.Helper()
	m, err := sparse.NewCOO(r, c, i, j, v)
	require.NoError(t, err)

	return m
}

// denseRows renders m as [][]float64 for readable assertions.
func denseRows(m *sparse.COO) [][]float64 {
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = make([]float64, m.Cols())
	}
	m.Do(func(i, j int, v float64) bool {
		out[i][j] = v
		return true
	})

	return out
}
