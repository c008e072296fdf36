// SPDX-License-Identifier: MIT

package covariance_test

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcov/covariance"
	"github.com/katalvlaran/lvcov/matrix"
)

// banded returns the n×n matrix with 1.0, 0.5, 0.2 on offsets 0, ±1, ±2.
func banded(n int) [][]float64 {
	rows := make([][]float64, n)
	band := []float64{1.0, 0.5, 0.2}
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			if d := abs(i - j); d < len(band) {
				rows[i][j] = band[d]
			}
		}
	}

	return rows
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// randomSymmetric returns a symmetric n×n matrix with diagonal in [1,2) and
// roughly density*n*n off-diagonal entries in [-0.5,0.5).
func randomSymmetric(n int, density float64, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		rows[i][i] = 1 + rng.Float64()
		for j := i + 1; j < n; j++ {
			if rng.Float64() < density {
				v := rng.Float64() - 0.5
				rows[i][j], rows[j][i] = v, v
			}
		}
	}

	return rows
}

// warnings collects Warning values delivered to a handler.
type warnings struct {
	mu   sync.Mutex
	list []covariance.Warning
}

func (w *warnings) handler() covariance.WarningHandler {
	return func(x covariance.Warning) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.list = append(w.list, x)
	}
}

func (w *warnings) all() []covariance.Warning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]covariance.Warning(nil), w.list...)
}

// mustFromArray builds a Covariance or fails the test.
func mustFromArray(t *testing.T, x any, opts ...covariance.Option) *covariance.Covariance {
	t.Helper()
	c, err := covariance.FromArray(x, opts...)
	require.NoError(t, err)

	return c
}

// requireDenseClose asserts c's dense reconstruction matches want within atol.
func requireDenseClose(t *testing.T, want [][]float64, c *covariance.Covariance, atol float64) {
	t.Helper()
	w, err := matrix.NewDenseRows(want)
	require.NoError(t, err)
	ok, err := matrix.AllClose(c.Dense(), w, 0, atol)
	require.NoError(t, err)
	require.True(t, ok, "got:\n%v\nwant:\n%v", c.Dense(), w)
}

// requireSymmetric asserts D[i,j] == D[j,i] exactly.
func requireSymmetric(t *testing.T, c *covariance.Covariance) {
	t.Helper()
	d := c.Dense()
	for i := 0; i < d.Rows(); i++ {
		for j := i + 1; j < d.Cols(); j++ {
			a, _ := d.At(i, j)
			b, _ := d.At(j, i)
			if math.IsNaN(a) && math.IsNaN(b) {
				continue
			}
			require.Equal(t, a, b, "(%d,%d)", i, j)
		}
	}
}

func at(t *testing.T, c *covariance.Covariance, i, j int) float64 {
	t.Helper()
	v, err := c.At(i, j)
	require.NoError(t, err)

	return v
}
