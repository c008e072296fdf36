// SPDX-License-Identifier: MIT

package covariance

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/matrix"
	"github.com/katalvlaran/lvcov/rawshape"
	"github.com/katalvlaran/lvcov/sparse"
)

// Errors detected in lower layers are re-exported so callers only need this
// package for errors.Is checks.
var (
	// ErrConversion indicates an input that is not matrix-like.
	ErrConversion = sparse.ErrConversion

	// ErrNonSquare indicates a non-square covariance input.
	ErrNonSquare = sparse.ErrNonSquare

	// ErrShapeMismatch indicates a raw shape whose product differs from the
	// matrix axis length, a variance vector of the wrong length, or index
	// columns whose width disagrees with the raw shape.
	ErrShapeMismatch = rawshape.ErrShapeMismatch

	// ErrIndexOutOfRange indicates a flat index or raw coordinate out of bounds.
	ErrIndexOutOfRange = rawshape.ErrIndexOutOfRange

	// ErrDimensionMismatch indicates a raw coordinate of the wrong length.
	ErrDimensionMismatch = rawshape.ErrDimensionMismatch

	// ErrTooFewSamples indicates fewer than two samples in FromSamples.
	ErrTooFewSamples = matrix.ErrTooFewSamples

	// ErrDestinationExists indicates Write found an existing file without WithOverwrite.
	ErrDestinationExists = container.ErrDestinationExists

	// ErrUnsupportedOperation indicates a capability missing from this build.
	ErrUnsupportedOperation = container.ErrUnsupportedOperation
)

var (
	// ErrMissingMetadata indicates a coordinate table without COVSHAPE.
	ErrMissingMetadata = errors.New("covariance: required metadata missing")

	// ErrImmutableField indicates an attempt to assign the variance directly.
	ErrImmutableField = errors.New("covariance: field is immutable")

	// ErrDegenerateVariance indicates a stored entry whose row or column has a
	// variance that is zero, negative or NaN, so no correlation exists.
	ErrDegenerateVariance = errors.New("covariance: degenerate variance")

	// ErrNilCovariance indicates a nil *Covariance receiver or argument.
	ErrNilCovariance = errors.New("covariance: nil covariance")
)

func covErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
