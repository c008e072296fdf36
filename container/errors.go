// SPDX-License-Identifier: MIT

package container

import (
	"errors"
	"fmt"
)

var (
	// ErrDestinationExists indicates that Write found an existing target and
	// overwriting was not requested.
	ErrDestinationExists = errors.New("container: destination exists")

	// ErrUnsupportedOperation indicates a capability missing from this build
	// (for example the SQLite format under the nosqlite tag).
	ErrUnsupportedOperation = errors.New("container: unsupported operation")

	// ErrUnknownFormat indicates unrecognised magic bytes or an invalid Format value.
	ErrUnknownFormat = errors.New("container: unknown format")

	// ErrUnknownCompression indicates an invalid Compression value.
	ErrUnknownCompression = errors.New("container: unknown compression")

	// ErrCorrupt indicates a structurally invalid payload.
	ErrCorrupt = errors.New("container: corrupt payload")

	// ErrChecksum indicates a DATASUM mismatch on read.
	ErrChecksum = errors.New("container: checksum mismatch")

	// ErrSectionNotFound indicates a lookup of an absent section name.
	ErrSectionNotFound = errors.New("container: section not found")

	// ErrDuplicateSection indicates two sections with the same name.
	ErrDuplicateSection = errors.New("container: duplicate section name")

	// ErrNilFile indicates a nil *File argument.
	ErrNilFile = errors.New("container: nil file")
)

func containerErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
