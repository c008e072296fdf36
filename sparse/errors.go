// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set.
// Every message is prefixed with "sparse: ..."; operations wrap with
// sparseErrorf(op, ErrX) and callers match via errors.Is.

package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrConversion indicates that a value cannot be coerced into a sparse matrix.
	ErrConversion = errors.New("sparse: value is not matrix-like")

	// ErrInvalidShape indicates negative dimensions.
	ErrInvalidShape = errors.New("sparse: dimensions must be >= 0")

	// ErrLengthMismatch indicates that the row, column and value slices differ in length.
	ErrLengthMismatch = errors.New("sparse: triplet slices differ in length")

	// ErrOutOfRange indicates a row or column index outside the matrix shape.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("sparse: matrix is not square")

	// ErrNilMatrix indicates a nil *COO receiver or argument.
	ErrNilMatrix = errors.New("sparse: nil matrix")
)

// sparseErrorf wraps err with an operation tag, preserving it for errors.Is.
func sparseErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
