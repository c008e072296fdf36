// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvcov/matrix"
)

const opConvert = "Convert"

// Convert coerces a matrix-like value into a canonical *COO.
// Accepted inputs:
//   - *COO (cloned),
//   - matrix.Matrix (including *matrix.Dense),
//   - gonum mat.Matrix (mat.NonZeroDoer implementations, including every
//     github.com/james-bowman/sparse format, are scanned sparsely),
//   - [][]float64 (rectangular).
//
// Errors:
//   - ErrConversion for nil, ragged or unsupported inputs.
//
// Complexity:
//   - O(nnz log nnz) for sparse inputs, O(r*c) for dense ones.
func Convert(x any) (*COO, error) {
	switch t := x.(type) {
	case nil:
		return nil, sparseErrorf(opConvert, ErrConversion)
	case *COO:
		if t == nil {
			return nil, sparseErrorf(opConvert, ErrConversion)
		}
		return t.Clone(), nil
	case *matrix.Dense:
		if t == nil {
			return nil, sparseErrorf(opConvert, ErrConversion)
		}
		return FromDense(t), nil
	case matrix.Matrix:
		return FromMatrix(t)
	case mat.Matrix:
		return FromGonum(t), nil
	case [][]float64:
		return fromRows(t)
	default:
		return nil, sparseErrorf(opConvert, fmt.Errorf("%T: %w", x, ErrConversion))
	}
}

// FromDense collects the nonzero entries of a Dense matrix.
func FromDense(d *matrix.Dense) *COO {
	out := &COO{r: d.Rows(), c: d.Cols()}
	d.Do(func(i, j int, v float64) bool {
		if v != 0 {
			out.ri = append(out.ri, i)
			out.ci = append(out.ci, j)
			out.v = append(out.v, v)
		}
		return true
	})

	return out
}

// FromMatrix collects the nonzero entries of any matrix.Matrix via At.
// Errors: wrapped At failures.
func FromMatrix(m matrix.Matrix) (*COO, error) {
	if m == nil {
		return nil, sparseErrorf(opConvert, ErrConversion)
	}
	out := &COO{r: m.Rows(), c: m.Cols()}
	for i := 0; i < out.r; i++ {
		for j := 0; j < out.c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, sparseErrorf(opConvert, err)
			}
			if v != 0 {
				out.ri = append(out.ri, i)
				out.ci = append(out.ci, j)
				out.v = append(out.v, v)
			}
		}
	}

	return out, nil
}

// FromGonum collects the nonzero entries of a gonum matrix.
func FromGonum(m mat.Matrix) *COO {
	r, c := m.Dims()
	var ri, ci []int
	var v []float64
	add := func(i, j int, x float64) {
		if x != 0 || math.IsNaN(x) {
			ri = append(ri, i)
			ci = append(ci, j)
			v = append(v, x)
		}
	}
	if nz, ok := m.(mat.NonZeroDoer); ok {
		nz.DoNonZero(add)
	} else {
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				add(i, j, m.At(i, j))
			}
		}
	}

	return canonical(r, c, ri, ci, v)
}

// ToGonum materializes m as a gonum *mat.Dense. An empty shape yields the
// zero-value Dense, which gonum cannot allocate.
func (m *COO) ToGonum() *mat.Dense {
	if m.r == 0 || m.c == 0 {
		return &mat.Dense{}
	}

	return m.csr().ToDense()
}

func fromRows(rows [][]float64) (*COO, error) {
	d, err := matrix.NewDenseRows(rows, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, sparseErrorf(opConvert, fmt.Errorf("%v: %w", err, ErrConversion))
	}

	return FromDense(d), nil
}
