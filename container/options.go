// SPDX-License-Identifier: MIT

package container

import (
	"fmt"
	"log/slog"
)

// Format selects the on-disk layout.
type Format uint8

const (
	// FormatCBOR is a single compressed deterministic-CBOR frame.
	FormatCBOR Format = iota + 1
	// FormatSQLite is a SQLite database.
	FormatSQLite
)

// String returns "cbor" or "sqlite".
func (f Format) String() string {
	switch f {
	case FormatCBOR:
		return "cbor"
	case FormatSQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Valid reports whether f names a supported format.
func (f Format) Valid() bool {
	return f == FormatCBOR || f == FormatSQLite
}

// ParseFormat converts a format name into a Format.
// Errors: ErrUnknownFormat.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "cbor", "":
		return FormatCBOR, nil
	case "sqlite":
		return FormatSQLite, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// Defaults used when no Option overrides them.
const (
	// DefaultFormat is the format Write uses.
	DefaultFormat = FormatCBOR
	// DefaultCompression is the codec Write applies.
	DefaultCompression = CompressionZstd
	// DefaultVerify makes Read check DATASUM keywords.
	DefaultVerify = true
)

// Options configures Write and Read. Fields are unexported; use Option setters.
type Options struct {
	overwrite   bool
	format      Format
	compression Compression
	verify      bool
	logger      *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithOverwrite allows Write to replace an existing destination.
func WithOverwrite(on bool) Option {
	return func(o *Options) { o.overwrite = on }
}

// WithFormat selects the on-disk format for Write.
// Panics on an unknown Format value.
func WithFormat(f Format) Option {
	if !f.Valid() {
		panic(fmt.Sprintf("container: WithFormat(%d): unknown format", uint8(f)))
	}

	return func(o *Options) { o.format = f }
}

// WithCompression selects the payload codec for Write.
// Panics on an unknown Compression value.
func WithCompression(c Compression) Option {
	if !c.Valid() {
		panic(fmt.Sprintf("container: WithCompression(%d): unknown codec", uint8(c)))
	}

	return func(o *Options) { o.compression = c }
}

// WithVerify toggles DATASUM verification in Read.
func WithVerify(on bool) Option {
	return func(o *Options) { o.verify = on }
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		format:      DefaultFormat,
		compression: DefaultCompression,
		verify:      DefaultVerify,
		logger:      slog.Default().With("component", "container"),
	}
	for _, set := range opts {
		if set != nil {
			set(&o)
		}
	}

	return o
}
