// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"

	"github.com/katalvlaran/lvcov/rawshape"
	"github.com/katalvlaran/lvcov/sparse"
	"github.com/katalvlaran/lvcov/table"
)

// Coordinate table metadata keys and column names.
const (
	KeyCovShape    = "COVSHAPE"
	KeyRawShape    = "COVRWSHP"
	KeyUnit        = "BUNIT"
	ColumnRowIndex = "INDXI"
	ColumnColIndex = "INDXJ"
	ColumnRho      = "RHOIJ"
)

const (
	opCoordinateData = "CoordinateData"
	opToTable        = "ToTable"
	opFromTable      = "FromTable"
)

// Coordinates is the upper-triangle correlation matrix in coordinate form
// plus the variance vector.
type Coordinates struct {
	// I and J hold one coordinate per entry: [flat index], or the raw data
	// coordinate when reshaped.
	I, J [][]int
	// Rho holds the correlation coefficients.
	Rho []float64
	// Variance is the flat variance vector.
	Variance []float64
	// Shape is the shape Variance is laid out in: (n,) or the raw shape.
	Shape rawshape.Shape
}

// CoordinateData returns the stored upper-triangle entries as correlation
// coordinates. With reshape, indices are raw data coordinates.
// Errors: ErrShapeMismatch (reshape without raw shape), ErrDegenerateVariance.
func (c *Covariance) CoordinateData(reshape bool) (*Coordinates, error) {
	if reshape && c.mapper.Shape() == nil {
		return nil, covErrorf(opCoordinateData, fmt.Errorf("reshape requested without raw shape: %w", ErrShapeMismatch))
	}
	variance, rho, err := c.ToCorrelation()
	if err != nil {
		return nil, covErrorf(opCoordinateData, err)
	}

	out := &Coordinates{
		I:        make([][]int, 0, rho.NNZ()),
		J:        make([][]int, 0, rho.NNZ()),
		Rho:      make([]float64, 0, rho.NNZ()),
		Variance: variance,
		Shape:    rawshape.Shape{c.Len()},
	}
	if reshape {
		out.Shape = c.mapper.Shape()
	}
	rho.Do(func(i, j int, r float64) bool {
		ci, cj := []int{i}, []int{j}
		if reshape {
			// In range by construction.
			ci, _ = c.mapper.CovToRaw(i)
			cj, _ = c.mapper.CovToRaw(j)
		}
		out.I = append(out.I, ci)
		out.J = append(out.J, cj)
		out.Rho = append(out.Rho, r)
		return true
	})

	return out, nil
}

// ToTable returns the variance vector and the coordinate table: INDXI and
// INDXJ (width 1, or the raw dimensionality when a raw shape is set) and
// RHOIJ, with COVSHAPE, and when set COVRWSHP and BUNIT, in the table metadata.
// Errors: ErrDegenerateVariance.
func (c *Covariance) ToTable() ([]float64, *table.Table, error) {
	raw := c.mapper.Shape()
	cd, err := c.CoordinateData(raw != nil)
	if err != nil {
		return nil, nil, covErrorf(opToTable, err)
	}

	width := 1
	if raw != nil {
		width = raw.NDim()
	}
	if width == 0 {
		// A zero-axis raw shape still needs one index column slot.
		width = 1
	}
	iData := make([]int64, 0, len(cd.I)*width)
	jData := make([]int64, 0, len(cd.J)*width)
	for k := range cd.I {
		iData = appendCoord(iData, cd.I[k], width)
		jData = appendCoord(jData, cd.J[k], width)
	}
	ic, err := table.IntColumn(ColumnRowIndex, width, iData)
	if err != nil {
		return nil, nil, covErrorf(opToTable, err)
	}
	jc, err := table.IntColumn(ColumnColIndex, width, jData)
	if err != nil {
		return nil, nil, covErrorf(opToTable, err)
	}
	t, err := table.New(ic, jc, table.FloatColumn(ColumnRho, cd.Rho))
	if err != nil {
		return nil, nil, covErrorf(opToTable, err)
	}

	r, k := c.Shape()
	t.Meta.Set(KeyCovShape, rawshape.FormatTuple([]int{r, k}))
	if raw != nil {
		t.Meta.Set(KeyRawShape, raw.String())
	}
	if c.unit != "" {
		t.Meta.Set(KeyUnit, c.unit)
	}

	return cd.Variance, t, nil
}

func appendCoord(dst []int64, coord []int, width int) []int64 {
	for p := 0; p < width; p++ {
		v := 0
		if p < len(coord) {
			v = coord[p]
		}
		dst = append(dst, int64(v))
	}

	return dst
}

// FromTable rebuilds a Covariance from a variance vector and a coordinate
// table as produced by ToTable. A nil variance means unit variance.
// Implementation:
//   - Stage 1: parse COVSHAPE (required) and COVRWSHP (optional).
//   - Stage 2: check the variance (length, finite and >= 0) and the index
//     column width.
//   - Stage 3: flatten raw coordinates, compute rho*sqrt(var[i]*var[j]).
//   - Stage 4: build; entries given below the diagonal are folded up.
//
// Behavior highlights:
//   - BUNIT overrides WithUnit; WithRawShape is ignored in favour of COVRWSHP.
//
// Errors:
//   - ErrMissingMetadata, ErrShapeMismatch, ErrNonSquare, ErrIndexOutOfRange,
//     ErrDegenerateVariance, rawshape.ErrSyntax, table.ErrUnknownColumn, table.ErrKindMismatch,
//     table.ErrColumnLength.
func FromTable(variance []float64, correl *table.Table, opts ...Option) (*Covariance, error) {
	o := gatherOptions(opts...)
	if correl == nil {
		return nil, covErrorf(opFromTable, fmt.Errorf("nil table: %w", ErrConversion))
	}
	if err := correl.Validate(); err != nil {
		return nil, covErrorf(opFromTable, err)
	}

	shapeText, ok := correl.Meta.Get(KeyCovShape)
	if !ok {
		return nil, covErrorf(opFromTable, fmt.Errorf("%s: %w", KeyCovShape, ErrMissingMetadata))
	}
	shape, err := rawshape.Parse(shapeText)
	if err != nil {
		return nil, covErrorf(opFromTable, err)
	}
	if shape.NDim() != 2 {
		return nil, covErrorf(opFromTable, fmt.Errorf("%s = %s: %w", KeyCovShape, shapeText, ErrShapeMismatch))
	}
	if shape[0] != shape[1] {
		return nil, covErrorf(opFromTable, fmt.Errorf("%s = %s: %w", KeyCovShape, shapeText, ErrNonSquare))
	}
	n := shape[0]

	var raw rawshape.Shape
	if text, ok := correl.Meta.Get(KeyRawShape); ok {
		if raw, err = rawshape.Parse(text); err != nil {
			return nil, covErrorf(opFromTable, err)
		}
	}
	mapper, err := rawshape.NewMapper(n, raw)
	if err != nil {
		return nil, covErrorf(opFromTable, err)
	}

	if variance == nil {
		variance = make([]float64, n)
		for k := range variance {
			variance[k] = 1
		}
	}
	if len(variance) != n {
		return nil, covErrorf(opFromTable, fmt.Errorf("variance length %d, want %d: %w", len(variance), n, ErrShapeMismatch))
	}
	if err := checkVariance(variance); err != nil {
		return nil, covErrorf(opFromTable, err)
	}

	iData, iw, err := correl.Ints(ColumnRowIndex)
	if err != nil {
		return nil, covErrorf(opFromTable, err)
	}
	jData, jw, err := correl.Ints(ColumnColIndex)
	if err != nil {
		return nil, covErrorf(opFromTable, err)
	}
	rho, err := correl.Floats(ColumnRho)
	if err != nil {
		return nil, covErrorf(opFromTable, err)
	}
	want := 1
	if raw != nil && raw.NDim() > 0 {
		want = raw.NDim()
	}
	if iw != want || jw != want {
		return nil, covErrorf(opFromTable,
			fmt.Errorf("index width %d/%d for raw shape %v: %w", iw, jw, raw, ErrShapeMismatch))
	}

	nnz := len(rho)
	ri, ci := make([]int, nnz), make([]int, nnz)
	for k := 0; k < nnz; k++ {
		if ri[k], err = flatIndex(mapper, raw, iData[k*iw:(k+1)*iw]); err != nil {
			return nil, covErrorf(opFromTable, err)
		}
		if ci[k], err = flatIndex(mapper, raw, jData[k*jw:(k+1)*jw]); err != nil {
			return nil, covErrorf(opFromTable, err)
		}
	}
	rhoMat, err := sparse.NewCOO(n, n, ri, ci, rho)
	if err != nil {
		return nil, covErrorf(opFromTable, err)
	}
	cov, err := RevertCorrelation(variance, rhoMat)
	if err != nil {
		return nil, covErrorf(opFromTable, err)
	}

	if unit, ok := correl.Meta.Get(KeyUnit); ok {
		o.unit = unit
	}
	o.rawShape = raw

	return build(opFromTable, cov, o)
}

func flatIndex(m *rawshape.Mapper, raw rawshape.Shape, coord []int64) (int, error) {
	if raw != nil && raw.NDim() == 0 {
		// Zero-axis raw shape: the single element is index 0.
		return m.RawToCov(nil)
	}
	c := make([]int, len(coord))
	for k, v := range coord {
		c[k] = int(v)
	}

	return m.RawToCov(c)
}
