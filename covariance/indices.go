// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"

	"github.com/katalvlaran/lvcov/rawshape"
)

// CovToRaw maps a matrix axis index to its raw data coordinate (row-major).
// Without a raw shape the coordinate is [i].
// Errors: ErrIndexOutOfRange.
func (c *Covariance) CovToRaw(i int) ([]int, error) {
	coord, err := c.mapper.CovToRaw(i)
	if err != nil {
		return nil, covErrorf("CovToRaw", err)
	}

	return coord, nil
}

// RawToCov maps a raw data coordinate back to the matrix axis index.
// Errors: ErrDimensionMismatch (len(coord) != raw dimensionality), ErrIndexOutOfRange.
func (c *Covariance) RawToCov(coord []int) (int, error) {
	i, err := c.mapper.RawToCov(coord)
	if err != nil {
		return 0, covErrorf("RawToCov", err)
	}

	return i, nil
}

// CovToRawIndices maps paired matrix coordinates (i[k], j[k]) to raw data
// coordinates. For a (6,6) matrix over a (3,2) array, (0,3) becomes
// ([0 0], [1 1]).
// Errors: ErrDimensionMismatch (len(i) != len(j)), ErrIndexOutOfRange.
func (c *Covariance) CovToRawIndices(i, j []int) ([][]int, [][]int, error) {
	const op = "CovToRawIndices"
	if len(i) != len(j) {
		return nil, nil, covErrorf(op, fmt.Errorf("%d row vs %d column indices: %w", len(i), len(j), ErrDimensionMismatch))
	}
	ri, err := mapAll(i, c.mapper.CovToRaw)
	if err != nil {
		return nil, nil, covErrorf(op, err)
	}
	rj, err := mapAll(j, c.mapper.CovToRaw)
	if err != nil {
		return nil, nil, covErrorf(op, err)
	}

	return ri, rj, nil
}

// RawToCovIndices is the inverse of CovToRawIndices.
// Errors: ErrDimensionMismatch, ErrIndexOutOfRange.
func (c *Covariance) RawToCovIndices(i, j [][]int) ([]int, []int, error) {
	const op = "RawToCovIndices"
	if len(i) != len(j) {
		return nil, nil, covErrorf(op, fmt.Errorf("%d row vs %d column coordinates: %w", len(i), len(j), ErrDimensionMismatch))
	}
	fi, err := mapAll(i, c.mapper.RawToCov)
	if err != nil {
		return nil, nil, covErrorf(op, err)
	}
	fj, err := mapAll(j, c.mapper.RawToCov)
	if err != nil {
		return nil, nil, covErrorf(op, err)
	}

	return fi, fj, nil
}

func mapAll[In, Out any](in []In, f func(In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(in))
	for k, x := range in {
		y, err := f(x)
		if err != nil {
			return nil, err
		}
		out[k] = y
	}

	return out, nil
}

// SubMatrix returns the covariance of a selection of the raw data.
// Implementation:
//   - Stage 1: resolve one selector per raw axis (flat axis when no raw shape)
//     into flat indices; missing trailing selectors take the whole axis.
//   - Stage 2: extract those rows and columns of the full matrix.
//   - Stage 3: build a new Covariance with the selection's shape as raw
//     shape (unset when fewer than two axes survive) and the same unit.
//
// Behavior highlights:
//   - Selectors combine as an outer product; rawshape.Index drops its axis.
//   - Output order follows the selection; repeats are kept.
//
// Errors:
//   - ErrDimensionMismatch (too many selectors), ErrIndexOutOfRange.
func (c *Covariance) SubMatrix(sels ...rawshape.Selector) (*Covariance, error) {
	const op = "SubMatrix"
	idx, shape, err := rawshape.Select(c.mapper.Effective(), sels...)
	if err != nil {
		return nil, covErrorf(op, err)
	}
	sub, err := c.Full().Select(idx, idx)
	if err != nil {
		return nil, covErrorf(op, err)
	}

	var raw rawshape.Shape
	if len(shape) >= 2 {
		raw = shape
	}

	return build(op, sub, c.derivedOptions(raw))
}
