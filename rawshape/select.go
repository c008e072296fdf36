// SPDX-License-Identifier: MIT

package rawshape

import (
	"fmt"
	"math"
)

// None marks an omitted Slice bound, like an empty slot in "a[::2]".
const None = math.MinInt

// Selector picks indices along one axis.
type Selector interface {
	// resolve returns the picked indices for an axis of length dim and
	// whether the axis survives in the result shape.
	resolve(dim int) ([]int, bool, error)
	fmt.Stringer
}

// Slice is a Python-style start:stop:step selector. Start or Stop equal to
// None means "omitted"; Step 0 means 1. Negative bounds count from the end.
type Slice struct {
	Start, Stop, Step int
}

// All selects an entire axis.
func All() Slice { return Slice{Start: None, Stop: None, Step: 1} }

// Every selects ::step.
func Every(step int) Slice { return Slice{Start: None, Stop: None, Step: step} }

// Range selects start:stop (step 1).
func Range(start, stop int) Slice { return Slice{Start: start, Stop: stop, Step: 1} }

func (s Slice) resolve(dim int) ([]int, bool, error) {
	step := s.Step
	if step == 0 {
		step = 1
	}
	var start, stop int
	if step > 0 {
		start = clampBound(s.Start, dim, 0, 0, dim)
		stop = clampBound(s.Stop, dim, dim, 0, dim)
	} else {
		start = clampBound(s.Start, dim, dim-1, -1, dim-1)
		stop = clampBound(s.Stop, dim, -1, -1, dim-1)
	}

	var out []int
	if step > 0 {
		for k := start; k < stop; k += step {
			out = append(out, k)
		}
	} else {
		for k := start; k > stop; k += step {
			out = append(out, k)
		}
	}

	return out, true, nil
}

// clampBound applies Python slice normalization: default when omitted,
// wrap negatives once, clamp into [lo, hi].
func clampBound(v, dim, def, lo, hi int) int {
	if v == None {
		return def
	}
	if v < 0 {
		v += dim
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

func (s Slice) String() string {
	b := func(v int) string {
		if v == None {
			return ""
		}
		return fmt.Sprint(v)
	}
	if s.Step == 0 || s.Step == 1 {
		return b(s.Start) + ":" + b(s.Stop)
	}

	return b(s.Start) + ":" + b(s.Stop) + ":" + fmt.Sprint(s.Step)
}

// Index selects a single position and removes the axis from the result shape.
type Index int

func (x Index) resolve(dim int) ([]int, bool, error) {
	i, err := wrapIndex(int(x), dim)
	if err != nil {
		return nil, false, err
	}

	return []int{i}, false, nil
}

func (x Index) String() string { return fmt.Sprint(int(x)) }

// Indices selects an explicit ordered list (repeats allowed) and keeps the axis.
type Indices []int

func (xs Indices) resolve(dim int) ([]int, bool, error) {
	out := make([]int, len(xs))
	for k, x := range xs {
		i, err := wrapIndex(x, dim)
		if err != nil {
			return nil, false, err
		}
		out[k] = i
	}

	return out, true, nil
}

func (xs Indices) String() string { return fmt.Sprint([]int(xs)) }

func wrapIndex(i, dim int) (int, error) {
	if i < 0 {
		i += dim
	}
	if i < 0 || i >= dim {
		return 0, fmt.Errorf("index %d for axis of length %d: %w", i, dim, ErrIndexOutOfRange)
	}

	return i, nil
}

// Select resolves one selector per leading axis of s (missing trailing axes
// are taken whole) and returns the flat indices of the selected elements in
// row-major order of the selection, plus the selection's shape.
//
// Behavior highlights:
//   - Selectors combine as an outer product across axes.
//   - Index drops its axis from the result shape; Slice and Indices keep it.
//   - Order follows the selectors; duplicates are kept.
//
// Errors:
//   - ErrDimensionMismatch (more selectors than axes), ErrIndexOutOfRange.
func Select(s Shape, sels ...Selector) ([]int, Shape, error) {
	if len(sels) > len(s) {
		return nil, nil, shapeErrorf("Select",
			fmt.Errorf("%d selectors for %d-d shape: %w", len(sels), len(s), ErrDimensionMismatch))
	}

	axes := make([][]int, len(s))
	out := Shape{}
	for k, dim := range s {
		var sel Selector = All()
		if k < len(sels) && sels[k] != nil {
			sel = sels[k]
		}
		idx, keep, err := sel.resolve(dim)
		if err != nil {
			return nil, nil, shapeErrorf("Select", fmt.Errorf("axis %d (%v): %w", k, sel, err))
		}
		axes[k] = idx
		if keep {
			out = append(out, len(idx))
		}
	}

	strides := s.Strides()
	flat := []int{0}
	for k, idx := range axes {
		next := make([]int, 0, len(flat)*len(idx))
		for _, base := range flat {
			for _, i := range idx {
				next = append(next, base+i*strides[k])
			}
		}
		flat = next
	}

	return flat, out, nil
}
