// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/lvcov/sparse"
)

const (
	opToCorrelation     = "ToCorrelation"
	opRevertCorrelation = "RevertCorrelation"
	opApplyNewVariance  = "ApplyNewVariance"
)

// ToCorrelation splits a covariance matrix into its variance vector and
// correlation matrix: var = diag(C), rho[i,j] = C[i,j]/sqrt(var[i]*var[j]).
//
// Behavior highlights:
//   - Only stored entries are converted; the sparsity pattern is kept.
//   - Diagonal correlations are exactly 1.
//   - NaN covariances stay NaN.
//
// Errors:
//   - ErrNonSquare.
//   - ErrDegenerateVariance when a stored entry touches an index whose
//     variance is <= 0 or NaN.
//
// Complexity: O(nnz).
func ToCorrelation(cov *sparse.COO) ([]float64, *sparse.COO, error) {
	variance, err := cov.Diag()
	if err != nil {
		return nil, nil, covErrorf(opToCorrelation, err)
	}

	var bad error
	rho := cov.Map(func(i, j int, v float64) float64 {
		if bad != nil {
			return 0
		}
		for _, k := range [2]int{i, j} {
			if !(variance[k] > 0) {
				bad = fmt.Errorf("variance[%d] = %g at (%d,%d): %w", k, variance[k], i, j, ErrDegenerateVariance)
				return 0
			}
		}
		if i == j {
			return 1
		}
		return v / math.Sqrt(variance[i]*variance[j])
	})
	if bad != nil {
		return nil, nil, covErrorf(opToCorrelation, bad)
	}

	return variance, rho, nil
}

// RevertCorrelation rebuilds covariance values from a variance vector and a
// correlation matrix: C[i,j] = rho[i,j]*sqrt(var[i]*var[j]). Diagonal
// entries use var[i] directly so they round-trip exactly.
//
// Errors: ErrNonSquare, ErrShapeMismatch (len(variance) != n),
// ErrDegenerateVariance (negative, NaN or infinite variance).
// Complexity: O(n + nnz).
func RevertCorrelation(variance []float64, rho *sparse.COO) (*sparse.COO, error) {
	if !rho.IsSquare() {
		return nil, covErrorf(opRevertCorrelation, ErrNonSquare)
	}
	if len(variance) != rho.Rows() {
		return nil, covErrorf(opRevertCorrelation,
			fmt.Errorf("variance length %d for %d×%d matrix: %w", len(variance), rho.Rows(), rho.Cols(), ErrShapeMismatch))
	}
	if err := checkVariance(variance); err != nil {
		return nil, covErrorf(opRevertCorrelation, err)
	}

	return rho.Map(func(i, j int, r float64) float64 {
		if i == j {
			return r * variance[i]
		}
		return r * math.Sqrt(variance[i]*variance[j])
	}), nil
}

// checkVariance requires every variance to be finite and >= 0.
// Zero is allowed: it marks an index with no stored diagonal.
func checkVariance(variance []float64) error {
	for k, v := range variance {
		if !(v >= 0) || math.IsInf(v, 1) {
			return fmt.Errorf("variance[%d] = %g: %w", k, v, ErrDegenerateVariance)
		}
	}

	return nil
}

// ToCorrelation returns the variance vector and the upper-triangle
// correlation matrix. The conversion runs once; later calls reuse it.
// The returned variance is a copy; the matrix is immutable.
// Errors: ErrDegenerateVariance.
func (c *Covariance) ToCorrelation() ([]float64, *sparse.COO, error) {
	c.corrOnce.Do(func() {
		_, c.rho, c.corrErr = ToCorrelation(c.cov)
	})
	if c.corrErr != nil {
		return nil, nil, c.corrErr
	}

	return c.Variance(), c.rho, nil
}

// ApplyNewVariance returns a new Covariance with the same correlation
// structure, raw shape and unit, and the given variance. c is unchanged.
// The result's diagonal equals variance, including indices that had zero
// variance in c.
// Errors: ErrShapeMismatch, ErrDegenerateVariance (for a negative, NaN or
// infinite entry of variance, or a degenerate variance already in c).
func (c *Covariance) ApplyNewVariance(variance []float64) (*Covariance, error) {
	if len(variance) != c.Len() {
		return nil, covErrorf(opApplyNewVariance,
			fmt.Errorf("variance length %d, want %d: %w", len(variance), c.Len(), ErrShapeMismatch))
	}
	if err := checkVariance(variance); err != nil {
		return nil, covErrorf(opApplyNewVariance, err)
	}
	_, rho, err := c.ToCorrelation()
	if err != nil {
		return nil, covErrorf(opApplyNewVariance, err)
	}
	// Indices without a stored diagonal get unit correlation with themselves.
	var free []int
	for k, v := range c.VarianceView() {
		if v == 0 {
			free = append(free, k)
		}
	}
	if len(free) > 0 {
		ones := make([]float64, len(free))
		for k := range ones {
			ones[k] = 1
		}
		eye, err := sparse.NewCOO(c.Len(), c.Len(), free, free, ones)
		if err != nil {
			return nil, covErrorf(opApplyNewVariance, err)
		}
		if rho, err = sparse.Add(rho, eye); err != nil {
			return nil, covErrorf(opApplyNewVariance, err)
		}
	}
	cov, err := RevertCorrelation(slices.Clone(variance), rho)
	if err != nil {
		return nil, covErrorf(opApplyNewVariance, err)
	}

	return build(opApplyNewVariance, cov, c.derivedOptions(c.mapper.Shape()))
}

// derivedOptions carries unit and raw shape into a result built from c.
func (c *Covariance) derivedOptions(raw []int) Options {
	o := gatherOptions(WithUnit(c.unit))
	o.rawShape = raw

	return o
}
