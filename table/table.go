// SPDX-License-Identifier: MIT

package table

import (
	"fmt"
	"slices"
)

// Kind is the element type of a column.
type Kind uint8

const (
	// KindInt stores int64 values.
	KindInt Kind = iota + 1
	// KindFloat stores float64 values.
	KindFloat
)

// String returns "int" or "float".
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Column is a named, typed column with Width values per row stored row-major.
// Exactly one of Ints/Floats is used, according to Kind.
type Column struct {
	Name   string
	Kind   Kind
	Width  int
	Ints   []int64
	Floats []float64
}

// IntColumn builds an integer column from row-major data (copied).
// Errors: ErrInvalidWidth, ErrColumnLength.
func IntColumn(name string, width int, data []int64) (*Column, error) {
	c := &Column{Name: name, Kind: KindInt, Width: width, Ints: slices.Clone(data)}
	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// FloatColumn builds a single-width float column (copied).
func FloatColumn(name string, data []float64) *Column {
	return &Column{Name: name, Kind: KindFloat, Width: 1, Floats: slices.Clone(data)}
}

func (c *Column) validate() error {
	if c.Width < 1 {
		return tableErrorf(c.Name, ErrInvalidWidth)
	}
	n := len(c.Ints)
	switch c.Kind {
	case KindFloat:
		n = len(c.Floats)
	case KindInt:
	default:
		return tableErrorf(c.Name, fmt.Errorf("%v: %w", c.Kind, ErrKindMismatch))
	}
	if n%c.Width != 0 {
		return tableErrorf(c.Name, fmt.Errorf("%d values, width %d: %w", n, c.Width, ErrColumnLength))
	}

	return nil
}

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.Kind == KindFloat {
		return len(c.Floats) / c.Width
	}

	return len(c.Ints) / c.Width
}

// IntRow returns the Width values of row r (aliasing the column).
func (c *Column) IntRow(r int) []int64 {
	return c.Ints[r*c.Width : (r+1)*c.Width]
}

// Table is an ordered set of equally long columns plus metadata.
type Table struct {
	Columns []*Column
	Meta    *Meta
}

// New validates the columns and returns a table with empty metadata.
// Errors: ErrDuplicateColumn, ErrColumnLength, ErrInvalidWidth, ErrKindMismatch.
func New(cols ...*Column) (*Table, error) {
	t := &Table{Columns: cols, Meta: &Meta{}}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks column invariants.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	rows := -1
	for _, c := range t.Columns {
		if seen[c.Name] {
			return tableErrorf("Validate", fmt.Errorf("%q: %w", c.Name, ErrDuplicateColumn))
		}
		seen[c.Name] = true
		if err := c.validate(); err != nil {
			return tableErrorf("Validate", err)
		}
		if rows >= 0 && c.Len() != rows {
			return tableErrorf("Validate", fmt.Errorf("%q has %d rows, want %d: %w", c.Name, c.Len(), rows, ErrColumnLength))
		}
		rows = c.Len()
	}

	return nil
}

// Len returns the row count (0 for a table without columns).
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}

	return t.Columns[0].Len()
}

// Column returns the column with the given name.
// Errors: ErrUnknownColumn.
func (t *Table) Column(name string) (*Column, error) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, nil
		}
	}

	return nil, tableErrorf("Column", fmt.Errorf("%q: %w", name, ErrUnknownColumn))
}

// Ints returns an integer column's data and width.
// Errors: ErrUnknownColumn, ErrKindMismatch.
func (t *Table) Ints(name string) ([]int64, int, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, 0, err
	}
	if c.Kind != KindInt {
		return nil, 0, tableErrorf("Ints", fmt.Errorf("%q is %v: %w", name, c.Kind, ErrKindMismatch))
	}

	return c.Ints, c.Width, nil
}

// Floats returns a float column's data.
// Errors: ErrUnknownColumn, ErrKindMismatch.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindFloat {
		return nil, tableErrorf("Floats", fmt.Errorf("%q is %v: %w", name, c.Kind, ErrKindMismatch))
	}

	return c.Floats, nil
}
