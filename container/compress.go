// SPDX-License-Identifier: MIT

package container

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compression identifies the codec applied to an encoded payload. The tag is
// stored next to the payload so readers know how to undo it.
type Compression uint8

const (
	// CompressionNone stores the payload verbatim.
	CompressionNone Compression = 0
	// CompressionZstd is the general-purpose default.
	CompressionZstd Compression = 1
	// CompressionLZ4 trades ratio for speed.
	CompressionLZ4 Compression = 2
	// CompressionXZ gives the best ratio for archival files.
	CompressionXZ Compression = 3
)

// String returns the lower-case codec name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionXZ:
		return "xz"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Valid reports whether c names a supported codec.
func (c Compression) Valid() bool {
	return c <= CompressionXZ
}

// ParseCompression converts a codec name into a Compression.
// Errors: ErrUnknownCompression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "xz":
		return CompressionXZ, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownCompression)
	}
}

// lz4MaxRatio bounds the expansion of one LZ4 block.
const lz4MaxRatio = 255

// Encoder and decoder are safe for concurrent EncodeAll/DecodeAll calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("container: zstd encoder: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("container: zstd decoder: " + err.Error())
	}
}

// compress applies c to data. When the codec does not shrink the payload the
// data is returned unchanged with CompressionNone, so the returned tag is the
// one that must be recorded.
func compress(c Compression, data []byte) ([]byte, Compression, error) {
	var out []byte
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil

	case CompressionZstd:
		out = zstdEncoder.EncodeAll(data, nil)

	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			return data, CompressionNone, nil
		}
		out = dst[:n]

	case CompressionXZ:
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, 0, fmt.Errorf("xz writer: %w", err)
		}
		if _, err = w.Write(data); err != nil {
			return nil, 0, fmt.Errorf("xz compress: %w", err)
		}
		if err = w.Close(); err != nil {
			return nil, 0, fmt.Errorf("xz close: %w", err)
		}
		out = buf.Bytes()

	default:
		return nil, 0, fmt.Errorf("%v: %w", c, ErrUnknownCompression)
	}

	if len(out) >= len(data) {
		return data, CompressionNone, nil
	}

	return out, c, nil
}

// decompress reverses compress. rawLen is the uncompressed size recorded at
// write time; LZ4 blocks need it and the other codecs are checked against it.
func decompress(c Compression, data []byte, rawLen int) ([]byte, error) {
	var out []byte
	switch c {
	case CompressionNone:
		out = data

	case CompressionZstd:
		var err error
		out, err = zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %v: %w", err, ErrCorrupt)
		}

	case CompressionLZ4:
		if rawLen > lz4MaxRatio*len(data)+lz4MaxRatio {
			return nil, fmt.Errorf("lz4 length %d for %d bytes: %w", rawLen, len(data), ErrCorrupt)
		}
		out = make([]byte, rawLen)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %v: %w", err, ErrCorrupt)
		}
		out = out[:n]

	case CompressionXZ:
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("xz reader: %v: %w", err, ErrCorrupt)
		}
		if out, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("xz decompress: %v: %w", err, ErrCorrupt)
		}

	default:
		return nil, fmt.Errorf("%v: %w", c, ErrUnknownCompression)
	}

	if len(out) != rawLen {
		return nil, fmt.Errorf("decompressed %d bytes, want %d: %w", len(out), rawLen, ErrCorrupt)
	}

	return out, nil
}
