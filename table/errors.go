// SPDX-License-Identifier: MIT

package table

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnLength indicates columns with different row counts or data not divisible by width.
	ErrColumnLength = errors.New("table: column length mismatch")

	// ErrDuplicateColumn indicates two columns with the same name.
	ErrDuplicateColumn = errors.New("table: duplicate column name")

	// ErrUnknownColumn indicates a lookup of an absent column.
	ErrUnknownColumn = errors.New("table: unknown column")

	// ErrKindMismatch indicates a typed access of the wrong column kind.
	ErrKindMismatch = errors.New("table: column kind mismatch")

	// ErrInvalidWidth indicates a width < 1.
	ErrInvalidWidth = errors.New("table: column width must be >= 1")
)

func tableErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
