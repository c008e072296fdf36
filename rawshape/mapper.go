// SPDX-License-Identifier: MIT

package rawshape

import (
	"fmt"
	"sync"
)

// Mapper is the bidirectional flat-index ↔ raw-coordinate mapping for one
// covariance axis of length n. With an unset raw shape it is the identity and
// coordinates are single-element slices.
//
// Strides are computed once on first use; a Mapper is safe for concurrent reads.
type Mapper struct {
	n     int
	shape Shape

	once    sync.Once
	strides []int
}

// NewMapper validates that product(shape) == n (when shape is set).
// Errors: ErrInvalidShape, ErrShapeMismatch.
func NewMapper(n int, shape Shape) (*Mapper, error) {
	if n < 0 {
		return nil, shapeErrorf("NewMapper", ErrInvalidShape)
	}
	if shape != nil {
		if _, err := New(shape...); err != nil {
			return nil, err
		}
		if shape.Size() != n {
			return nil, shapeErrorf("NewMapper",
				fmt.Errorf("product of %v is %d, not %d: %w", shape, shape.Size(), n, ErrShapeMismatch))
		}
	}

	return &Mapper{n: n, shape: shape.Clone()}, nil
}

// Len returns the flat axis length.
func (m *Mapper) Len() int { return m.n }

// Shape returns a copy of the raw shape (nil when unset).
func (m *Mapper) Shape() Shape { return m.shape.Clone() }

// Effective returns the raw shape, or (n,) when unset.
func (m *Mapper) Effective() Shape {
	if m.shape == nil {
		return Shape{m.n}
	}

	return m.shape.Clone()
}

func (m *Mapper) cachedStrides() []int {
	m.once.Do(func() { m.strides = m.Effective().Strides() })

	return m.strides
}

// CovToRaw maps a flat index to its raw coordinate.
// Errors: ErrIndexOutOfRange.
func (m *Mapper) CovToRaw(i int) ([]int, error) {
	return unravel(m.Effective(), m.cachedStrides(), i)
}

// RawToCov maps a raw coordinate to its flat index. Without a raw shape the
// coordinate must have exactly one element.
// Errors: ErrDimensionMismatch, ErrIndexOutOfRange.
func (m *Mapper) RawToCov(coord []int) (int, error) {
	return ravel(m.Effective(), m.cachedStrides(), coord)
}
