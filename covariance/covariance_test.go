// SPDX-License-Identifier: MIT

package covariance_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/covariance"
	"github.com/katalvlaran/lvcov/matrix"
	"github.com/katalvlaran/lvcov/rawshape"
	"github.com/katalvlaran/lvcov/sparse"
)

func TestFromArray_StoresUpperTriangle(t *testing.T) {
	t.Parallel()
	var w warnings
	c := mustFromArray(t, banded(6), covariance.WithWarningHandler(w.handler()))
	require.Empty(t, w.all())

	require.Equal(t, 6+5+4, c.NNZ())
	c.Upper().Do(func(i, j int, _ float64) bool {
		require.LessOrEqual(t, i, j)
		return true
	})
	requireDenseClose(t, banded(6), c, 0)
	require.Equal(t, "<Covariance; shape = (6, 6)>", c.String())
	require.Equal(t, "cov", c.UncertaintyType())

	r, k := c.Shape()
	require.Equal(t, 6, r)
	require.Equal(t, 6, k)
	require.Nil(t, c.RawShape())
}

func TestFromArray_SymmetryInvariant(t *testing.T) {
	t.Parallel()
	for seed := int64(1); seed <= 5; seed++ {
		c := mustFromArray(t, randomSymmetric(12, 0.3, seed))
		requireSymmetric(t, c)
	}
	// Lower-only input is folded up without a warning.
	var w warnings
	c := mustFromArray(t, [][]float64{{2, 0}, {0.7, 3}}, covariance.WithWarningHandler(w.handler()))
	require.Empty(t, w.all())
	require.Equal(t, 0.7, at(t, c, 0, 1))
	require.Equal(t, 0.7, at(t, c, 1, 0))
	requireSymmetric(t, c)
}

func TestFromArray_AsymmetryTolerance(t *testing.T) {
	t.Parallel()

	t.Run("tiny", func(t *testing.T) {
		t.Parallel()
		var w warnings
		c := mustFromArray(t, [][]float64{{2, 1}, {1 + 1e-12, 2}}, covariance.WithWarningHandler(w.handler()))
		got := w.all()
		require.Len(t, got, 1)
		require.Equal(t, 1, got[0].Pairs)
		require.InDelta(t, 1e-12, got[0].MaxDeviation, 1e-15)
		require.Equal(t, "FromArray", got[0].Op)
		requireDenseClose(t, [][]float64{{2, 1}, {1, 2}}, c, 1e-11)
	})

	t.Run("upper wins", func(t *testing.T) {
		t.Parallel()
		var w warnings
		c := mustFromArray(t, [][]float64{{2, 1}, {5, 2}}, covariance.WithWarningHandler(w.handler()))
		require.Len(t, w.all(), 1)
		require.Equal(t, 4.0, w.all()[0].MaxDeviation)
		require.Equal(t, 1.0, at(t, c, 0, 1))
		require.Equal(t, 1.0, at(t, c, 1, 0))
		requireSymmetric(t, c)
	})

	t.Run("within tolerance", func(t *testing.T) {
		t.Parallel()
		var w warnings
		mustFromArray(t, [][]float64{{2, 1}, {1 + 1e-12, 2}},
			covariance.WithSymmetryTolerance(1e-9), covariance.WithWarningHandler(w.handler()))
		require.Empty(t, w.all())
	})

	t.Run("one warning for many pairs", func(t *testing.T) {
		t.Parallel()
		var w warnings
		rows := banded(5)
		rows[2][0], rows[3][1], rows[4][2] = 0.3, 0.4, 0.9
		mustFromArray(t, rows, covariance.WithWarningHandler(w.handler()))
		got := w.all()
		require.Len(t, got, 1)
		require.Equal(t, 3, got[0].Pairs)
		require.InDelta(t, 0.7, got[0].MaxDeviation, 1e-15)
		require.Contains(t, got[0].String(), "3 pair(s)")
	})
}

func TestFromArray_Errors(t *testing.T) {
	t.Parallel()
	_, err := covariance.FromArray([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.ErrorIs(t, err, covariance.ErrNonSquare)

	_, err = covariance.FromArray("not a matrix")
	require.ErrorIs(t, err, covariance.ErrConversion)

	_, err = covariance.FromArray(nil)
	require.ErrorIs(t, err, covariance.ErrConversion)

	_, err = covariance.New(nil)
	require.ErrorIs(t, err, covariance.ErrConversion)

	_, err = covariance.FromArray(banded(10), covariance.WithRawShape(4, 4))
	require.ErrorIs(t, err, covariance.ErrShapeMismatch)

	c, err := covariance.FromArray(banded(10), covariance.WithRawShape(5, 2))
	require.NoError(t, err)
	require.Equal(t, []int{5, 2}, []int(c.RawShape()))
}

func TestFromArray_Tolerances(t *testing.T) {
	t.Parallel()
	rows := [][]float64{
		{4, -0.05, 1},
		{-0.05, 1, 0.02},
		{1, 0.02, 1},
	}

	c := mustFromArray(t, rows)
	require.Equal(t, -0.05, at(t, c, 0, 1), "negative covariances are kept")

	c = mustFromArray(t, rows, covariance.WithCovTolerance(0.03))
	require.Equal(t, -0.05, at(t, c, 0, 1))
	require.Equal(t, 0.0, at(t, c, 1, 2))
	require.Equal(t, 5, c.NNZ())

	// rho(0,1) = -0.025, rho(0,2) = 0.5, rho(1,2) = 0.02
	c = mustFromArray(t, rows, covariance.WithRhoTolerance(0.1))
	require.Equal(t, 0.0, at(t, c, 0, 1))
	require.Equal(t, 0.0, at(t, c, 1, 2))
	require.InDelta(t, 1.0, at(t, c, 0, 2), 1e-15)
	require.Equal(t, []float64{4, 1, 1}, c.Variance())

	require.Panics(t, func() { covariance.WithCovTolerance(-1) })
	require.Panics(t, func() { covariance.WithRhoTolerance(math.NaN()) })
	require.Panics(t, func() { covariance.WithSymmetryTolerance(math.Inf(1)) })
}

func TestWriteOptions_PanicOnUnknownEnum(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { covariance.WithFormat(container.Format(0)) })
	require.Panics(t, func() { covariance.WithFormat(container.Format(7)) })
	require.Panics(t, func() { covariance.WithCompression(container.Compression(4)) })
	require.NotPanics(t, func() { covariance.WithFormat(container.FormatSQLite) })
	require.NotPanics(t, func() { covariance.WithCompression(container.CompressionNone) })
}

func TestVariance_Immutability(t *testing.T) {
	t.Parallel()
	c := mustFromArray(t, banded(4))
	require.ErrorIs(t, c.SetVariance([]float64{1, 2, 3, 4}), covariance.ErrImmutableField)

	v := c.Variance()
	v[0] = 99
	require.Equal(t, 1.0, c.Variance()[0], "Variance returns a copy")
	require.Equal(t, c.Variance(), c.VarianceView())

	nv := []float64{4, 9, 16, 25}
	d, err := c.ApplyNewVariance(nv)
	require.NoError(t, err)
	require.Equal(t, nv, d.Dense().Diagonal())
	require.Equal(t, []float64{1, 1, 1, 1}, c.Dense().Diagonal())
	// rho(0,1) = 0.5 → C'(0,1) = 0.5*sqrt(4*9) = 3
	require.InDelta(t, 3.0, at(t, d, 0, 1), 1e-12)

	_, err = c.ApplyNewVariance([]float64{1})
	require.ErrorIs(t, err, covariance.ErrShapeMismatch)
}

func TestApplyNewVariance_ZeroVarianceIndex(t *testing.T) {
	t.Parallel()
	c, err := covariance.FromVariance([]float64{2, 0, 3})
	require.NoError(t, err)
	d, err := c.ApplyNewVariance([]float64{1, 5, 1})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 5, 1}, d.Variance())
}

func TestBuild_RejectsEmpty(t *testing.T) {
	t.Parallel()
	_, err := covariance.FromVariance(nil)
	require.ErrorIs(t, err, covariance.ErrConversion)

	_, err = covariance.FromArray([][]float64{})
	require.ErrorIs(t, err, covariance.ErrConversion)

	empty, err := sparse.Zeros(0, 0)
	require.NoError(t, err)
	_, err = covariance.New(empty)
	require.ErrorIs(t, err, covariance.ErrConversion)

	c := mustFromArray(t, banded(4))
	_, err = c.SubMatrix(rawshape.Range(2, 2))
	require.ErrorIs(t, err, covariance.ErrConversion)
}

func TestApplyNewVariance_RejectsDegenerate(t *testing.T) {
	t.Parallel()
	c := mustFromArray(t, banded(3))
	for _, bad := range [][]float64{
		{-1, 4, 9},
		{1, math.NaN(), 9},
		{1, 4, math.Inf(1)},
	} {
		_, err := c.ApplyNewVariance(bad)
		require.ErrorIs(t, err, covariance.ErrDegenerateVariance, "%v", bad)
	}
	require.Equal(t, []float64{1, 1, 1}, c.Variance(), "receiver unchanged")
}

func TestFromArray_KeepsRawShapeAndUnit(t *testing.T) {
	t.Parallel()
	c := mustFromArray(t, banded(6), covariance.WithRawShape(3, 2), covariance.WithUnit("Jy2"))
	require.Equal(t, "Jy2", c.Unit())

	cp := c.Copy()
	require.Equal(t, c.RawShape(), cp.RawShape())
	require.Equal(t, c.Unit(), cp.Unit())
	require.Equal(t, c.Dense().RowMajor(), cp.Dense().RowMajor())
	require.NotSame(t, c.Upper(), cp.Upper())
}

func TestFullAndFind(t *testing.T) {
	t.Parallel()
	c := mustFromArray(t, [][]float64{{1, 0.5}, {0.5, 2}})
	full := c.Full()
	require.Equal(t, 4, full.NNZ())
	i, j, v := c.Find()
	require.Equal(t, []int{0, 0, 1, 1}, i)
	require.Equal(t, []int{0, 1, 0, 1}, j)
	require.Equal(t, []float64{1, 0.5, 0.5, 2}, v)
}

func TestFromSamples(t *testing.T) {
	t.Parallel()
	// Parameter b = 2a exactly, so var(b) = 4 var(a) and cov = 2 var(a).
	s, err := matrix.NewDenseRows([][]float64{
		{1, 2, 3, 4},
		{2, 4, 6, 8},
	})
	require.NoError(t, err)
	c, err := covariance.FromSamples(s)
	require.NoError(t, err)
	va := 5.0 / 3.0
	requireDenseClose(t, [][]float64{{va, 2 * va}, {2 * va, 4 * va}}, c, 1e-12)

	few, err := matrix.NewDenseRows([][]float64{{1}, {2}})
	require.NoError(t, err)
	_, err = covariance.FromSamples(few)
	require.ErrorIs(t, err, covariance.ErrTooFewSamples)

	_, err = covariance.FromSamples(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestFromMatrixMultiplication(t *testing.T) {
	t.Parallel()
	T := [][]float64{
		{1, 1, 0},
		{0, 1, 1},
	}
	c, err := covariance.FromMatrixMultiplication(T, []float64{1, 2, 3})
	require.NoError(t, err)
	requireDenseClose(t, [][]float64{{3, 2}, {2, 5}}, c, 0)

	sigma := [][]float64{
		{1, 0.5, 0},
		{0.5, 2, 0},
		{0, 0, 3},
	}
	c, err = covariance.FromMatrixMultiplication(T, sigma, covariance.WithUnit("m2"))
	require.NoError(t, err)
	// T Σ Tᵀ = [[1+1+2*0.5, 0.5+2], [., 2+3]]
	requireDenseClose(t, [][]float64{{4, 2.5}, {2.5, 5}}, c, 1e-12)
	require.Equal(t, "m2", c.Unit())

	_, err = covariance.FromMatrixMultiplication(T, []float64{1, 2})
	require.ErrorIs(t, err, covariance.ErrShapeMismatch)
	_, err = covariance.FromMatrixMultiplication(T, [][]float64{{1, 0}, {0, 1}})
	require.ErrorIs(t, err, covariance.ErrShapeMismatch)
	_, err = covariance.FromMatrixMultiplication(42, []float64{1})
	require.ErrorIs(t, err, covariance.ErrConversion)
}

func TestFromVariance(t *testing.T) {
	t.Parallel()
	c, err := covariance.FromVariance([]float64{1, 0, 3})
	require.NoError(t, err)
	require.Equal(t, 2, c.NNZ())
	require.Equal(t, []float64{1, 0, 3}, c.Variance())
	requireSymmetric(t, c)
}

func TestNew_FromSparse(t *testing.T) {
	t.Parallel()
	m, err := sparse.NewCOO(3, 3, []int{0, 1, 2, 0}, []int{0, 1, 2, 2}, []float64{1, 1, 1, 0.3})
	require.NoError(t, err)
	c, err := covariance.New(m, covariance.WithRawShape(3))
	require.NoError(t, err)
	require.Equal(t, 0.3, at(t, c, 2, 0))
	require.Equal(t, []int{3}, []int(c.RawShape()))
}

func TestConcurrentLazyCaches(t *testing.T) {
	t.Parallel()
	c := mustFromArray(t, randomSymmetric(30, 0.2, 7))
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.VarianceView()
			_, _, err := c.ToCorrelation()
			assert.NoError(t, err)
			_, err = c.CovToRaw(29)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestPropagationHooksAndUnits(t *testing.T) {
	t.Parallel()
	c := mustFromArray(t, banded(3))
	for _, f := range []func(*covariance.Covariance, float64) (*covariance.Covariance, error){
		c.PropagateAdd, c.PropagateSubtract, c.PropagateMultiply, c.PropagateDivide,
	} {
		got, err := f(c, 0)
		require.NoError(t, err)
		require.Nil(t, got)
	}
	require.Equal(t, "", covariance.SquareUnit(""))
	require.Equal(t, "m2", covariance.SquareUnit("m"))
	require.Equal(t, "(m/s)2", covariance.SquareUnit("m/s"))
}
