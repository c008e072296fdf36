// SPDX-License-Identifier: MIT

package rawshape

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	opNew     = "New"
	opUnravel = "Unravel"
	opRavel   = "Ravel"
)

// Shape is an N-dimensional array shape. A nil Shape means "unset".
type Shape []int

// New validates dims and returns them as a Shape (copied).
// Errors: ErrInvalidShape.
func New(dims ...int) (Shape, error) {
	for _, d := range dims {
		if d < 0 {
			return nil, shapeErrorf(opNew, fmt.Errorf("%v: %w", dims, ErrInvalidShape))
		}
	}

	return Shape(slices.Clone(dims)), nil
}

// NDim returns the number of axes.
func (s Shape) NDim() int { return len(s) }

// Size returns the product of all dimensions (1 for a zero-axis shape).
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}

	return n
}

// Equal reports element-wise equality. An unset shape only equals another unset shape.
func (s Shape) Equal(o Shape) bool {
	if (s == nil) != (o == nil) {
		return false
	}

	return slices.Equal(s, o)
}

// Clone returns an independent copy (nil stays nil).
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}

	return slices.Clone(s)
}

// Strides returns row-major element strides: the last axis has stride 1.
func (s Shape) Strides() []int {
	st := make([]int, len(s))
	acc := 1
	for k := len(s) - 1; k >= 0; k-- {
		st[k] = acc
		acc *= s[k]
	}

	return st
}

// Unravel converts a flat index into a row-major coordinate.
// Errors: ErrIndexOutOfRange. Complexity: O(ndim).
func (s Shape) Unravel(idx int) ([]int, error) {
	return unravel(s, s.Strides(), idx)
}

// Ravel converts a row-major coordinate into a flat index.
// Errors: ErrDimensionMismatch (wrong length), ErrIndexOutOfRange. Complexity: O(ndim).
func (s Shape) Ravel(coord []int) (int, error) {
	return ravel(s, s.Strides(), coord)
}

func unravel(s Shape, strides []int, idx int) ([]int, error) {
	if idx < 0 || idx >= s.Size() {
		return nil, shapeErrorf(opUnravel, fmt.Errorf("index %d for shape %v: %w", idx, s, ErrIndexOutOfRange))
	}
	coord := make([]int, len(s))
	for k, st := range strides {
		coord[k] = idx / st
		idx %= st
	}

	return coord, nil
}

func ravel(s Shape, strides []int, coord []int) (int, error) {
	if len(coord) != len(s) {
		return 0, shapeErrorf(opRavel, fmt.Errorf("%d-d coordinate for %d-d shape: %w", len(coord), len(s), ErrDimensionMismatch))
	}
	idx := 0
	for k, c := range coord {
		if c < 0 || c >= s[k] {
			return 0, shapeErrorf(opRavel, fmt.Errorf("coordinate %v for shape %v: %w", coord, s, ErrIndexOutOfRange))
		}
		idx += c * strides[k]
	}

	return idx, nil
}

// String renders Python tuple text: "(3, 2)", "(5,)", "()".
func (s Shape) String() string {
	return FormatTuple(s)
}

// FormatTuple renders dims as Python tuple text.
func FormatTuple(dims []int) string {
	var b strings.Builder
	b.WriteByte('(')
	for k, d := range dims {
		if k > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	if len(dims) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')

	return b.String()
}
