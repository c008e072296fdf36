// SPDX-License-Identifier: MIT

// Package covariance models sparse covariance matrices of N-dimensional data.
//
// A Covariance stores only the upper triangle of a symmetric matrix. The
// variance vector and the correlation form are derived on demand:
//
//	var[i]    = C[i,i]
//	rho[i,j]  = C[i,j] / sqrt(var[i]*var[j])
//
// When the matrix describes an N-d array (WithRawShape), axis index i maps to
// the row-major coordinate of that array; SubMatrix selects along raw axes.
//
// Construction:
//
//	FromArray                any matrix-like input (dense, sparse, gonum, [][]float64)
//	FromSamples              sample covariance of Npar×Nsamples draws
//	FromMatrixMultiplication T × Sigma × Tᵀ
//	FromVariance             diagonal matrix
//	FromTable / Read         coordinate table / container file
//
// Asymmetric input is not an error: the upper triangle is kept and a single
// Warning is sent to the handler installed with WithWarningHandler (by
// default it is logged).
//
// Persistence writes three sections: PRIMARY (header only, COVSHAPE), VAR
// (variance image in the raw shape) and CORREL (INDXI, INDXJ, RHOIJ with
// COVSHAPE, COVRWSHP and BUNIT metadata). See package container for formats.
//
// Values are immutable: ApplyNewVariance, SubMatrix and Copy return new
// objects and SetVariance always fails with ErrImmutableField.
package covariance
