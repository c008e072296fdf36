// SPDX-License-Identifier: MIT
// Package rawshape: sentinel error set.
// Every message is prefixed with "rawshape: ..."; callers match via errors.Is.

package rawshape

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape indicates a negative dimension.
	ErrInvalidShape = errors.New("rawshape: dimensions must be >= 0")

	// ErrIndexOutOfRange indicates a flat index or coordinate outside the shape.
	ErrIndexOutOfRange = errors.New("rawshape: index out of range")

	// ErrDimensionMismatch indicates a coordinate or selection with the wrong number of axes.
	ErrDimensionMismatch = errors.New("rawshape: dimension mismatch")

	// ErrShapeMismatch indicates that product(shape) differs from the flat length.
	ErrShapeMismatch = errors.New("rawshape: shape size does not match length")

	// ErrSyntax indicates a malformed tuple string.
	ErrSyntax = errors.New("rawshape: malformed shape tuple")

	// ErrInvalidSelection indicates an unusable selector (e.g. zero step).
	ErrInvalidSelection = errors.New("rawshape: invalid selection")
)

func shapeErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
