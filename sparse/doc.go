// SPDX-License-Identifier: MIT

// Package sparse implements the coordinate-format (COO) sparse matrix used as
// canonical storage for covariance data.
//
// A *COO is always canonical: triplets are sorted row-major, duplicate
// coordinates are summed, and explicit zeros are dropped. NaN is a legal
// stored value (an unknown variance is NaN, not zero). Every operation returns
// a fresh matrix; a *COO is never mutated after construction, so values may be
// shared freely between goroutines.
//
// Convert coerces the matrix-like values the rest of the module accepts
// (*COO, matrix.Matrix, gonum mat.Matrix, [][]float64) and reports
// ErrConversion for anything else.
package sparse
