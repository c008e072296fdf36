// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"

	"github.com/katalvlaran/lvcov/matrix"
	"github.com/katalvlaran/lvcov/sparse"
)

const (
	opFromArray                = "FromArray"
	opFromSamples              = "FromSamples"
	opFromMatrixMultiplication = "FromMatrixMultiplication"
	opFromVariance             = "FromVariance"
)

// FromArray builds a Covariance from anything sparse.Convert accepts
// (*sparse.COO, *matrix.Dense, matrix.Matrix, gonum mat.Matrix, [][]float64).
//
// Behavior highlights:
//   - Only i <= j entries are stored. A lower entry without an upper partner
//     is moved to the upper triangle; when both exist the upper one wins and
//     differing pairs are reported once through the warning handler.
//   - WithRhoTolerance then WithCovTolerance drop small entries by absolute value.
//   - Negative covariances are kept.
//
// Errors:
//   - ErrConversion, ErrNonSquare, ErrShapeMismatch, ErrDegenerateVariance.
func FromArray(x any, opts ...Option) (*Covariance, error) {
	m, err := sparse.Convert(x)
	if err != nil {
		return nil, covErrorf(opFromArray, err)
	}

	return build(opFromArray, m, gatherOptions(opts...))
}

// FromSamples builds the sample covariance of an Npar×Nsamples matrix: each
// row is one parameter, each column one joint draw.
// Errors: ErrTooFewSamples (fewer than two columns), matrix.ErrNilMatrix.
func FromSamples(samples matrix.Matrix, opts ...Option) (*Covariance, error) {
	if err := matrix.ValidateNotNil(samples); err != nil {
		return nil, covErrorf(opFromSamples, err)
	}
	if samples.Cols() < 2 {
		return nil, covErrorf(opFromSamples,
			fmt.Errorf("%d sample(s): %w", samples.Cols(), ErrTooFewSamples))
	}
	obs, err := matrix.Transpose(samples)
	if err != nil {
		return nil, covErrorf(opFromSamples, err)
	}
	cov, _, err := matrix.Covariance(obs)
	if err != nil {
		return nil, covErrorf(opFromSamples, err)
	}
	m, err := sparse.FromMatrix(cov)
	if err != nil {
		return nil, covErrorf(opFromSamples, err)
	}

	return build(opFromSamples, m.Triu(0), gatherOptions(opts...))
}

// FromMatrixMultiplication propagates Sigma through the transfer matrix T:
// C = T × Sigma × Tᵀ. Sigma is either an Nx×Nx covariance (anything
// sparse.Convert accepts) or a []float64 of Nx independent variances.
//
// Errors:
//   - ErrConversion, ErrShapeMismatch (Sigma does not match T's columns).
func FromMatrixMultiplication(t any, sigma any, opts ...Option) (*Covariance, error) {
	tm, err := sparse.Convert(t)
	if err != nil {
		return nil, covErrorf(opFromMatrixMultiplication, err)
	}
	nx := tm.Cols()

	var s *sparse.COO
	if v, ok := sigma.([]float64); ok {
		if len(v) != nx {
			return nil, covErrorf(opFromMatrixMultiplication,
				fmt.Errorf("sigma has %d variances, want %d: %w", len(v), nx, ErrShapeMismatch))
		}
		s = sparse.FromDiag(v)
	} else {
		if s, err = sparse.Convert(sigma); err != nil {
			return nil, covErrorf(opFromMatrixMultiplication, err)
		}
		if s.Rows() != nx || s.Cols() != nx {
			return nil, covErrorf(opFromMatrixMultiplication,
				fmt.Errorf("sigma is %dx%d, want %dx%d: %w", s.Rows(), s.Cols(), nx, nx, ErrShapeMismatch))
		}
	}

	ts, err := sparse.Mul(tm, s)
	if err != nil {
		return nil, covErrorf(opFromMatrixMultiplication, err)
	}
	c, err := sparse.Mul(ts, tm.Transpose())
	if err != nil {
		return nil, covErrorf(opFromMatrixMultiplication, err)
	}

	// The product is symmetric up to rounding; keep the upper triangle only.
	return build(opFromMatrixMultiplication, c.Triu(0), gatherOptions(opts...))
}

// FromVariance builds a diagonal covariance. Zero variances are not stored.
func FromVariance(variance []float64, opts ...Option) (*Covariance, error) {
	return build(opFromVariance, sparse.FromDiag(variance), gatherOptions(opts...))
}
