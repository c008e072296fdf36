// SPDX-License-Identifier: MIT

// Package sparse - canonical COO storage & accessors.
//
// Purpose:
//   - Hold (row, col, value) triplets in one canonical order so equality,
//     serialization and iteration are deterministic.
//   - Keep lookups O(log nnz) via binary search over the row-major order.
//
// Complexity quicksheet:
//   - NewCOO: O(nnz log nnz); At: O(log nnz); Do/Triplets: O(nnz).

package sparse

import (
	"cmp"
	"fmt"
	"slices"

	jsparse "github.com/james-bowman/sparse"
)

const (
	opNew = "NewCOO"
	opAt  = "COO.At"
)

// COO is an immutable canonical coordinate-format sparse matrix.
//   - r, c: shape (>= 0).
//   - ri, ci, v: aligned triplets sorted by (row, col) with unique coordinates
//     and no stored zeros.
type COO struct {
	r, c int
	ri   []int
	ci   []int
	v    []float64
}

// NewCOO builds a canonical matrix from (possibly unsorted, duplicated) triplets.
// Implementation:
//   - Stage 1: validate shape, slice lengths and index bounds.
//   - Stage 2: bucket triplets by row, keeping input order.
//   - Stage 3: merge each row in a sparse accumulator; sort columns; drop
//     exact zeros.
//
// Behavior highlights:
//   - Inputs are copied; the caller keeps ownership of its slices.
//   - Duplicates are summed in input order, so results are reproducible.
//
// Errors:
//   - ErrInvalidShape, ErrLengthMismatch, ErrOutOfRange.
//
// Complexity:
//   - Time O(nnz log nnz), Space O(nnz).
func NewCOO(rows, cols int, i, j []int, v []float64) (*COO, error) {
	if rows < 0 || cols < 0 {
		return nil, sparseErrorf(opNew, ErrInvalidShape)
	}
	if len(i) != len(j) || len(i) != len(v) {
		return nil, sparseErrorf(opNew, ErrLengthMismatch)
	}
	for k := range i {
		if i[k] < 0 || i[k] >= rows || j[k] < 0 || j[k] >= cols {
			return nil, sparseErrorf(opNew, fmt.Errorf("(%d,%d) in %dx%d: %w", i[k], j[k], rows, cols, ErrOutOfRange))
		}
	}

	return canonical(rows, cols, i, j, v), nil
}

// canonical assumes validated input and returns the sorted, merged form.
// Triplets are bucketed by row in input order, then each row is merged by
// the sparse accumulator so duplicates are summed in input order.
func canonical(rows, cols int, i, j []int, v []float64) *COO {
	indptr := make([]int, rows+1)
	for _, r := range i {
		indptr[r+1]++
	}
	for r := 0; r < rows; r++ {
		indptr[r+1] += indptr[r]
	}
	next := slices.Clone(indptr[:rows])
	ind := make([]int, len(j))
	data := make([]float64, len(v))
	for k, r := range i {
		ind[next[r]], data[next[r]] = j[k], v[k]
		next[r]++
	}

	return gather(rows, cols, indptr, ind, data)
}

// gather merges row-bucketed triplets (CSR layout, columns in any order,
// duplicates allowed) into canonical form.
// Complexity: O(nnz log(nnz per row)) time, O(cols) accumulator.
func gather(rows, cols int, indptr, ind []int, data []float64) *COO {
	out := &COO{
		r:  rows,
		c:  cols,
		ri: make([]int, 0, len(data)),
		ci: make([]int, 0, len(data)),
		v:  make([]float64, 0, len(data)),
	}
	spa := jsparse.NewSPA(cols)
	var (
		mInd  []int
		mData []float64
		order []int
	)
	for r := 0; r < rows; r++ {
		lo, hi := indptr[r], indptr[r+1]
		if lo == hi {
			continue
		}
		start := len(mInd)
		spa.Scatter(data[lo:hi], ind[lo:hi], 1, &mInd)
		spa.GatherAndZero(&mData, &mInd)

		order = order[:0]
		for p := start; p < len(mData); p++ {
			if mData[p] != 0 {
				order = append(order, p)
			}
		}
		slices.SortFunc(order, func(a, b int) int { return cmp.Compare(mInd[a], mInd[b]) })
		for _, p := range order {
			out.ri = append(out.ri, r)
			out.ci = append(out.ci, mInd[p])
			out.v = append(out.v, mData[p])
		}
	}

	return out
}

// csr views m as a library CSR matrix. The canonical order is already CSR
// order, so the column and value slices are shared; library kernels only
// read their operands.
func (m *COO) csr() *jsparse.CSR {
	return jsparse.NewCSR(m.r, m.c, rowStarts(m), m.ci, m.v)
}

// fromCSR converts a library CSR result (columns unsorted, explicit zeros
// allowed) into canonical form.
func fromCSR(x *jsparse.CSR) *COO {
	r, c := x.Dims()
	raw := x.RawMatrix()
	if len(raw.Indptr) < r+1 {
		return &COO{r: r, c: c}
	}

	return gather(r, c, raw.Indptr, raw.Ind, raw.Data)
}

// rowStarts returns CSR-style offsets: entries of row i live in [s[i], s[i+1]).
func rowStarts(m *COO) []int {
	s := make([]int, m.r+1)
	for _, i := range m.ri {
		s[i+1]++
	}
	for i := 0; i < m.r; i++ {
		s[i+1] += s[i]
	}

	return s
}

// Zeros returns an empty rows×cols matrix.
// Errors: ErrInvalidShape.
func Zeros(rows, cols int) (*COO, error) {
	return NewCOO(rows, cols, nil, nil, nil)
}

// FromDiag returns the square matrix with d on the main diagonal.
// Zero entries are dropped; NaN entries are kept.
func FromDiag(d []float64) *COO {
	n := len(d)
	idx := make([]int, n)
	for k := range idx {
		idx[k] = k
	}

	return canonical(n, n, idx, idx, d)
}

// Rows returns the row count.
func (m *COO) Rows() int { return m.r }

// Cols returns the column count.
func (m *COO) Cols() int { return m.c }

// Dims returns (rows, cols).
func (m *COO) Dims() (int, int) { return m.r, m.c }

// IsSquare reports Rows() == Cols().
func (m *COO) IsSquare() bool { return m.r == m.c }

// NNZ returns the number of stored entries.
func (m *COO) NNZ() int { return len(m.v) }

// Triplets returns copies of the canonical (row, col, value) slices.
// Complexity: O(nnz).
func (m *COO) Triplets() (rows, cols []int, vals []float64) {
	return slices.Clone(m.ri), slices.Clone(m.ci), slices.Clone(m.v)
}

// Find is Triplets with a name matching the familiar sparse "find" idiom.
func (m *COO) Find() (rows, cols []int, vals []float64) { return m.Triplets() }

// Do visits stored entries in canonical order until f returns false.
// Complexity: O(nnz) time, O(1) space.
func (m *COO) Do(f func(i, j int, v float64) bool) {
	for k := range m.v {
		if !f(m.ri[k], m.ci[k], m.v[k]) {
			return
		}
	}
}

// At returns the stored value at (i, j), or 0 when absent.
// Errors: ErrOutOfRange. Complexity: O(log nnz).
func (m *COO) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, sparseErrorf(opAt, fmt.Errorf("(%d,%d): %w", i, j, ErrOutOfRange))
	}
	if k, ok := m.find(i, j); ok {
		return m.v[k], nil
	}

	return 0, nil
}

// find binary-searches the canonical (row, col) order.
func (m *COO) find(i, j int) (int, bool) {
	lo, hi := 0, len(m.v)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if m.ri[mid] < i || (m.ri[mid] == i && m.ci[mid] < j) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo, lo < len(m.v) && m.ri[lo] == i && m.ci[lo] == j
}

// Clone returns an independent copy.
func (m *COO) Clone() *COO {
	return &COO{r: m.r, c: m.c, ri: slices.Clone(m.ri), ci: slices.Clone(m.ci), v: slices.Clone(m.v)}
}

// String renders a short diagnostic summary.
func (m *COO) String() string {
	return fmt.Sprintf("<COO %dx%d nnz=%d>", m.r, m.c, len(m.v))
}
