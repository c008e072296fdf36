// SPDX-License-Identifier: MIT

package covariance

import (
	"math"
	"slices"

	"github.com/katalvlaran/lvcov/sparse"
)

// symmetricUpper folds a square matrix into its upper triangle.
// Implementation:
//   - Stage 1: keep triu(m) as is.
//   - Stage 2: walk the strict lower triangle transposed onto (i<j).
//     A lower value with no upper partner is moved up; a pair with both
//     values present is compared and the upper value kept.
//
// Behavior highlights:
//   - Pairs whose values differ by more than tol are counted in the Warning.
//   - Two NaNs count as mirrored; a NaN facing a number counts as asymmetric.
//
// Complexity:
//   - Time O(nnz log nnz), Space O(nnz).
func symmetricUpper(m *sparse.COO, tol float64) (*sparse.COO, Warning, error) {
	up := m.Triu(0)
	var (
		w      Warning
		ri, ci []int
		vals   []float64
	)
	m.Tril(-1).Transpose().Do(func(i, j int, lv float64) bool {
		uv, _ := up.At(i, j)
		if uv == 0 {
			ri, ci, vals = append(ri, i), append(ci, j), append(vals, lv)
			return true
		}
		d := math.Abs(uv - lv)
		switch {
		case math.IsNaN(uv) && math.IsNaN(lv):
		case math.IsNaN(d):
			w.Pairs++
		case d > tol:
			w.Pairs++
			w.MaxDeviation = max(w.MaxDeviation, d)
		}
		return true
	})
	if len(vals) == 0 {
		return up, w, nil
	}

	ui, uj, uv := up.Triplets()
	out, err := sparse.NewCOO(m.Rows(), m.Cols(),
		slices.Concat(ui, ri), slices.Concat(uj, ci), slices.Concat(uv, vals))

	return out, w, err
}

// dropBelow removes entries with |v| < tol; NaN entries are kept.
func dropBelow(m *sparse.COO, tol float64) *sparse.COO {
	return m.Filter(func(_, _ int, v float64) bool { return !(math.Abs(v) < tol) })
}
