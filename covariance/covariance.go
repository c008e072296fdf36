// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"
	"slices"
	"sync"

	"github.com/katalvlaran/lvcov/matrix"
	"github.com/katalvlaran/lvcov/rawshape"
	"github.com/katalvlaran/lvcov/sparse"
)

// Covariance is an immutable sparse symmetric covariance matrix stored as its
// upper triangle, with an optional raw data shape and unit.
//
// Variance and correlation form are derived on first use and cached; a
// *Covariance is safe for concurrent use.
type Covariance struct {
	cov    *sparse.COO // upper triangle (i <= j), n×n
	mapper *rawshape.Mapper
	unit   string

	varOnce  sync.Once
	variance []float64

	corrOnce sync.Once
	rho      *sparse.COO
	corrErr  error
}

// build is the canonical constructor every public constructor funnels into.
// Implementation:
//   - Stage 1: require a non-nil, non-empty square matrix.
//   - Stage 2: fold into the upper triangle, reporting asymmetry as a Warning.
//   - Stage 3: apply the optional correlation then covariance tolerances.
//   - Stage 4: validate the raw shape against the axis length.
//
// Errors:
//   - ErrConversion (nil or 0×0 input), ErrNonSquare, ErrShapeMismatch,
//     rawshape.ErrInvalidShape, ErrDegenerateVariance (rho tolerance only).
func build(op string, m *sparse.COO, o Options) (*Covariance, error) {
	if m == nil {
		return nil, covErrorf(op, fmt.Errorf("nil matrix: %w", ErrConversion))
	}
	if !m.IsSquare() {
		return nil, covErrorf(op, fmt.Errorf("%dx%d: %w", m.Rows(), m.Cols(), ErrNonSquare))
	}
	if m.Rows() == 0 {
		return nil, covErrorf(op, fmt.Errorf("empty matrix: %w", ErrConversion))
	}

	up, w, err := symmetricUpper(m, o.symTol)
	if err != nil {
		return nil, covErrorf(op, err)
	}
	if w.Pairs > 0 {
		w.Op = op
		o.onWarning(w)
	}

	if o.rhoTol > 0 {
		variance, rho, err := ToCorrelation(up)
		if err != nil {
			return nil, covErrorf(op, err)
		}
		if up, err = RevertCorrelation(variance, dropBelow(rho, o.rhoTol)); err != nil {
			return nil, covErrorf(op, err)
		}
	}
	if o.covTol > 0 {
		up = dropBelow(up, o.covTol)
	}

	mapper, err := rawshape.NewMapper(up.Rows(), o.rawShape)
	if err != nil {
		return nil, covErrorf(op, err)
	}

	return &Covariance{cov: up, mapper: mapper, unit: o.unit}, nil
}

// New builds a Covariance from a sparse matrix. Entries below the diagonal
// are folded into the upper triangle (see FromArray for the rules).
func New(m *sparse.COO, opts ...Option) (*Covariance, error) {
	return build("New", m, gatherOptions(opts...))
}

// Shape returns (n, n).
func (c *Covariance) Shape() (int, int) { return c.cov.Dims() }

// Len returns the axis length n.
func (c *Covariance) Len() int { return c.cov.Rows() }

// RawShape returns a copy of the raw data shape, or nil when unset.
func (c *Covariance) RawShape() rawshape.Shape { return c.mapper.Shape() }

// Unit returns the covariance unit ("" when unset).
func (c *Covariance) Unit() string { return c.unit }

// NNZ returns the number of stored upper-triangle entries.
func (c *Covariance) NNZ() int { return c.cov.NNZ() }

// UncertaintyType identifies this uncertainty kind.
func (c *Covariance) UncertaintyType() string { return "cov" }

// String renders "<Covariance; shape = (n, n)>".
func (c *Covariance) String() string {
	r, k := c.Shape()
	return fmt.Sprintf("<Covariance; shape = %s>", rawshape.FormatTuple([]int{r, k}))
}

// Upper returns the stored upper triangle. The matrix is immutable.
func (c *Covariance) Upper() *sparse.COO { return c.cov }

// At returns C[i,j]; (i,j) and (j,i) read the same stored value.
// Errors: sparse.ErrOutOfRange.
func (c *Covariance) At(i, j int) (float64, error) {
	if i > j {
		i, j = j, i
	}

	return c.cov.At(i, j)
}

// Full returns the symmetric matrix triu(C) + triu(C,1)ᵀ.
func (c *Covariance) Full() *sparse.COO {
	full, _ := c.cov.Mirror() // square by construction
	return full
}

// Dense returns the full symmetric matrix as a dense copy.
func (c *Covariance) Dense() *matrix.Dense { return c.Full().ToDense() }

// Find returns the nonzero triplets of the full matrix in row-major order.
func (c *Covariance) Find() (rows, cols []int, vals []float64) { return c.Full().Find() }

// Copy returns an independent Covariance with the same data, raw shape and unit.
func (c *Covariance) Copy() *Covariance {
	mapper, _ := rawshape.NewMapper(c.Len(), c.mapper.Shape()) // validated at construction
	return &Covariance{cov: c.cov.Clone(), mapper: mapper, unit: c.unit}
}

func (c *Covariance) cachedVariance() []float64 {
	c.varOnce.Do(func() {
		c.variance, _ = c.cov.Diag() // square by construction
	})

	return c.variance
}

// Variance returns a copy of the diagonal.
func (c *Covariance) Variance() []float64 {
	return slices.Clone(c.cachedVariance())
}

// VarianceView returns the cached diagonal without copying.
// The caller must not modify it.
func (c *Covariance) VarianceView() []float64 {
	return c.cachedVariance()
}

// SetVariance always fails: the variance is derived from the matrix.
// Use ApplyNewVariance to obtain a matrix with different variances.
func (c *Covariance) SetVariance([]float64) error {
	return covErrorf("SetVariance", ErrImmutableField)
}
