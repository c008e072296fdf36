// SPDX-License-Identifier: MIT

package covariance

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvcov/sparse"
)

// FromGonum builds a Covariance from a gonum matrix (mat.SymDense, mat.Dense, ...).
// Errors: as FromArray.
func FromGonum(m mat.Matrix, opts ...Option) (*Covariance, error) {
	if m == nil {
		return FromArray(nil, opts...)
	}

	return build("FromGonum", sparse.FromGonum(m), gatherOptions(opts...))
}

// SymDense returns the full matrix as a gonum symmetric matrix.
func (c *Covariance) SymDense() *mat.SymDense {
	s := mat.NewSymDense(c.Len(), nil)
	c.cov.Do(func(i, j int, v float64) bool {
		s.SetSym(i, j, v)
		return true
	})

	return s
}

// IsPositiveDefinite reports whether a Cholesky factorization exists.
func (c *Covariance) IsPositiveDefinite() bool {
	var chol mat.Cholesky

	return chol.Factorize(c.SymDense())
}
