// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major Matrix used as the numeric
// workhorse underneath the covariance stack.
//
// The matrix package provides:
//
//   - Dense: a flat row-major buffer with error-returning accessors and an
//     optional NaN/Inf ingestion policy.
//   - Kernels (Mul, Transpose, Scale) with *Dense fast paths.
//   - Sample covariance (Covariance) that seeds covariance objects from raw
//     observations.
//   - Shape validators and a tolerance comparison (AllClose).
//
// Dense storage is O(r*c); the sparse package is the canonical storage for
// covariance data and converts to and from Dense at the boundaries.
package matrix
