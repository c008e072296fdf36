// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//   - Structural and arithmetic kernels over canonical COO matrices.
//   - Products, sums and transposes run on github.com/james-bowman/sparse CSR
//     kernels; selection and triangle filters stay on the canonical triplets.
//   - Every kernel returns a fresh canonical *COO; operands are never mutated.
//
// Determinism:
//   - Output order is the canonical row-major order regardless of input path.

package sparse

import (
	"fmt"

	jsparse "github.com/james-bowman/sparse"

	"github.com/katalvlaran/lvcov/matrix"
)

const (
	opAdd    = "Add"
	opMul    = "Mul"
	opSelect = "Select"
	opMirror = "Mirror"
	opDiag   = "Diag"
)

// Filter keeps the entries for which keep returns true.
// Complexity: O(nnz).
func (m *COO) Filter(keep func(i, j int, v float64) bool) *COO {
	out := &COO{r: m.r, c: m.c}
	for k := range m.v {
		if keep(m.ri[k], m.ci[k], m.v[k]) {
			out.ri = append(out.ri, m.ri[k])
			out.ci = append(out.ci, m.ci[k])
			out.v = append(out.v, m.v[k])
		}
	}

	return out
}

// Map replaces every stored value with f(i, j, v). Results equal to zero are dropped.
// Complexity: O(nnz).
func (m *COO) Map(f func(i, j int, v float64) float64) *COO {
	out := &COO{r: m.r, c: m.c}
	for k := range m.v {
		nv := f(m.ri[k], m.ci[k], m.v[k])
		if nv == 0 {
			continue
		}
		out.ri = append(out.ri, m.ri[k])
		out.ci = append(out.ci, m.ci[k])
		out.v = append(out.v, nv)
	}

	return out
}

// Triu keeps entries on or above the k-th diagonal (j - i >= k).
func (m *COO) Triu(k int) *COO {
	return m.Filter(func(i, j int, _ float64) bool { return j-i >= k })
}

// Tril keeps entries on or below the k-th diagonal (j - i <= k).
func (m *COO) Tril(k int) *COO {
	return m.Filter(func(i, j int, _ float64) bool { return j-i <= k })
}

// Transpose returns mᵀ in canonical order.
// The swapped triplets are compressed to CSR by the library; canonical input
// has no duplicate coordinates, so the compression is a pure row bucketing.
// Complexity: O(nnz log nnz).
func (m *COO) Transpose() *COO {
	return fromCSR(jsparse.NewCOO(m.c, m.r, m.ci, m.ri, m.v).ToCSR())
}

// Scale returns alpha * m. alpha == 0 yields an empty matrix.
func (m *COO) Scale(alpha float64) *COO {
	return m.Map(func(_, _ int, v float64) float64 { return alpha * v })
}

// Mirror builds the full symmetric matrix from the upper triangle of m:
// triu(m) + triu(m, 1)ᵀ. Entries below the diagonal are ignored.
// Errors: ErrNonSquare. Complexity: O(nnz log nnz).
func (m *COO) Mirror() (*COO, error) {
	if !m.IsSquare() {
		return nil, sparseErrorf(opMirror, ErrNonSquare)
	}
	up := m.Triu(0)
	n := up.NNZ()
	ri := make([]int, 0, 2*n)
	ci := make([]int, 0, 2*n)
	v := make([]float64, 0, 2*n)
	for k := 0; k < n; k++ {
		ri = append(ri, up.ri[k])
		ci = append(ci, up.ci[k])
		v = append(v, up.v[k])
		if up.ri[k] != up.ci[k] {
			ri = append(ri, up.ci[k])
			ci = append(ci, up.ri[k])
			v = append(v, up.v[k])
		}
	}

	return canonical(m.r, m.c, ri, ci, v), nil
}

// Diag returns the main diagonal as a dense vector (absent entries are 0).
// Errors: ErrNonSquare.
func (m *COO) Diag() ([]float64, error) {
	if !m.IsSquare() {
		return nil, sparseErrorf(opDiag, ErrNonSquare)
	}
	d := make([]float64, m.r)
	for k := range m.v {
		if m.ri[k] == m.ci[k] {
			d[m.ri[k]] = m.v[k]
		}
	}

	return d, nil
}

// Add returns a + b.
// Implementation:
//   - Stage 1: validate operands and shapes.
//   - Stage 2: library CSR addition (row-wise sparse accumulator).
//   - Stage 3: canonicalize; cancelled entries are dropped.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch. Complexity: O(nnz log nnz).
func Add(a, b *COO) (*COO, error) {
	if a == nil || b == nil {
		return nil, sparseErrorf(opAdd, ErrNilMatrix)
	}
	if a.r != b.r || a.c != b.c {
		return nil, sparseErrorf(opAdd, ErrDimensionMismatch)
	}
	if a.r == 0 || a.c == 0 {
		return &COO{r: a.r, c: a.c}, nil
	}

	var out jsparse.CSR
	out.Add(a.csr(), b.csr())

	return fromCSR(&out), nil
}

// Mul returns the product a × b.
// Implementation:
//   - Stage 1: validate a.Cols == b.Rows (the library panics otherwise).
//   - Stage 2: library CSR × CSR product (Gustavson, sparse accumulator).
//   - Stage 3: canonicalize the result.
//
// Behavior highlights:
//   - NaN entries propagate; only stored entries participate.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(flops + nnz log nnz), Space O(c) accumulator.
func Mul(a, b *COO) (*COO, error) {
	if a == nil || b == nil {
		return nil, sparseErrorf(opMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, sparseErrorf(opMul, fmt.Errorf("%dx%d × %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch))
	}
	if a.r == 0 || b.c == 0 {
		return &COO{r: a.r, c: b.c}, nil
	}

	var out jsparse.CSR
	out.Mul(a.csr(), b.csr())

	return fromCSR(&out), nil
}

// Select extracts m[rowsIdx, colsIdx] preserving the given index order.
// Repeated indices are allowed and produce repeated rows/columns.
//
// Errors: ErrOutOfRange.
// Complexity: O(nnz + r' + c') plus sorting of the result.
func (m *COO) Select(rowsIdx, colsIdx []int) (*COO, error) {
	rowPos := make(map[int][]int, len(rowsIdx))
	for p, i := range rowsIdx {
		if i < 0 || i >= m.r {
			return nil, sparseErrorf(opSelect, fmt.Errorf("row %d: %w", i, ErrOutOfRange))
		}
		rowPos[i] = append(rowPos[i], p)
	}
	colPos := make(map[int][]int, len(colsIdx))
	for p, j := range colsIdx {
		if j < 0 || j >= m.c {
			return nil, sparseErrorf(opSelect, fmt.Errorf("col %d: %w", j, ErrOutOfRange))
		}
		colPos[j] = append(colPos[j], p)
	}

	var ri, ci []int
	var v []float64
	for k := range m.v {
		rp, okR := rowPos[m.ri[k]]
		if !okR {
			continue
		}
		cp, okC := colPos[m.ci[k]]
		if !okC {
			continue
		}
		for _, a := range rp {
			for _, b := range cp {
				ri = append(ri, a)
				ci = append(ci, b)
				v = append(v, m.v[k])
			}
		}
	}

	return canonical(len(rowsIdx), len(colsIdx), ri, ci, v), nil
}

// ToDense materializes m as a *matrix.Dense. NaN entries are preserved.
// Complexity: O(r*c).
func (m *COO) ToDense() *matrix.Dense {
	d, _ := matrix.NewDense(m.r, m.c, matrix.WithNoValidateNaNInf())
	for k := range m.v {
		_ = d.Set(m.ri[k], m.ci[k], m.v[k])
	}

	return d
}
