// SPDX-License-Identifier: MIT

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	opWrite = "Write"
	opRead  = "Read"
	opSniff = "Sniff"
)

// Write stores f at path.
// Implementation:
//   - Stage 1: validate f; refuse an existing destination unless WithOverwrite.
//   - Stage 2: encode every section in memory, stamping DATASUM and FILEID.
//   - Stage 3: write into a temporary file next to path, fsync, then rename
//     (WithOverwrite) or hard-link it into place.
//
// Behavior highlights:
//   - Nothing is created when Stage 1 or 2 fails.
//   - A failure in Stage 3 removes the temporary file; path is untouched.
//   - Without WithOverwrite the final link fails if path appeared after the
//     Stage 1 check, so a concurrent writer is never clobbered.
//   - f itself is not modified.
//
// Errors:
//   - ErrNilFile, ErrDuplicateSection, ErrCorrupt, ErrDestinationExists,
//     ErrUnsupportedOperation (SQLite disabled), I/O errors.
func Write(ctx context.Context, path string, f *File, opts ...Option) error {
	o := gatherOptions(opts...)
	if err := f.Validate(); err != nil {
		return containerErrorf(opWrite, err)
	}
	if !o.overwrite {
		if _, err := os.Lstat(path); err == nil {
			return containerErrorf(opWrite, fmt.Errorf("%s: %w", path, ErrDestinationExists))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return containerErrorf(opWrite, err)
		}
	}
	if o.format == FormatSQLite && !sqliteAvailable {
		return containerErrorf(opWrite, fmt.Errorf("sqlite format: %w", ErrUnsupportedOperation))
	}

	sections, err := encodeSections(f, uuid.NewString())
	if err != nil {
		return containerErrorf(opWrite, err)
	}

	var fill func(tmp string) error
	switch o.format {
	case FormatSQLite:
		fill = func(tmp string) error { return writeSQLite(ctx, tmp, sections, o.compression) }
	default:
		frame, used, ferr := encodeFrame(sections, o.compression)
		if ferr != nil {
			return containerErrorf(opWrite, ferr)
		}
		o.logger.Debug("frame encoded", "codec", used, "bytes", len(frame))
		fill = func(tmp string) error { return os.WriteFile(tmp, frame, 0o600) }
	}

	if err = writeAtomic(ctx, path, o.overwrite, fill); err != nil {
		return containerErrorf(opWrite, err)
	}
	o.logger.Debug("container written",
		"path", path, "format", o.format, "compression", o.compression, "sections", len(sections))

	return nil
}

// writeAtomic runs fill against a fresh temporary file in path's directory
// and fsyncs it. With overwrite the file is renamed over path; otherwise it
// is hard-linked to path, which fails with ErrDestinationExists if path
// exists, and the temporary name is removed.
func writeAtomic(ctx context.Context, path string, overwrite bool, fill func(tmp string) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lvcov-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	defer func() {
		if err != nil || !overwrite {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = fill(tmpPath); err != nil {
		return err
	}
	if err = syncFile(tmpPath); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if overwrite {
		if err = os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("renaming temp file: %w", err)
		}
		return nil
	}
	if err = os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrDestinationExists)
		}
		return fmt.Errorf("linking temp file: %w", err)
	}

	return nil
}

func syncFile(path string) error {
	fh, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("opening for sync: %w", err)
	}
	if err = fh.Sync(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("fsync: %w", err)
	}

	return fh.Close()
}

// Sniff reports the format of the file at path from its leading bytes.
// Errors: ErrUnknownFormat, I/O errors.
func Sniff(path string) (Format, error) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, containerErrorf(opSniff, err)
	}
	defer fh.Close()

	head := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(fh, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, containerErrorf(opSniff, err)
	}

	return sniffBytes(head[:n])
}

func sniffBytes(head []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(head, []byte(frameMagic)):
		return FormatCBOR, nil
	case bytes.HasPrefix(head, []byte(sqliteMagic)):
		return FormatSQLite, nil
	default:
		return 0, containerErrorf(opSniff, ErrUnknownFormat)
	}
}

// Read loads the file at path, whatever its format.
// Implementation:
//   - Stage 1: sniff the format.
//   - Stage 2: load encoded sections and undo compression.
//   - Stage 3: verify DATASUM (unless WithVerify(false)) and decode bodies.
//
// Errors:
//   - ErrUnknownFormat, ErrUnknownCompression, ErrCorrupt, ErrChecksum,
//     ErrUnsupportedOperation (SQLite disabled), I/O errors.
func Read(ctx context.Context, path string, opts ...Option) (*File, error) {
	o := gatherOptions(opts...)
	format, err := Sniff(path)
	if err != nil {
		return nil, containerErrorf(opRead, err)
	}

	var (
		encoded []encodedSection
		codec   Compression
	)
	switch format {
	case FormatSQLite:
		encoded, codec, err = readSQLite(ctx, path)
	default:
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			encoded, codec, err = decodeFrame(data)
		}
	}
	if err != nil {
		return nil, containerErrorf(opRead, err)
	}

	sections, err := decodeSections(encoded, o.verify)
	if err != nil {
		return nil, containerErrorf(opRead, err)
	}
	f := &File{Sections: sections, Format: format, Compression: codec}
	if err = f.Validate(); err != nil {
		return nil, containerErrorf(opRead, err)
	}
	o.logger.Debug("container read", "path", path, "format", format, "sections", len(sections))

	return f, nil
}
