// SPDX-License-Identifier: MIT

package container

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/katalvlaran/lvcov/table"
)

// Core deterministic encoding: identical sections always produce identical
// bytes, which keeps DATASUM stable across writers.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("container: CBOR encoder: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic("container: CBOR decoder: " + err.Error())
	}
}

type wireEntry struct {
	_     struct{} `cbor:",toarray"`
	Key   string
	Value string
}

type wireColumn struct {
	_      struct{} `cbor:",toarray"`
	Name   string
	Kind   uint8
	Width  int
	Ints   []int64
	Floats []float64
}

// wireBody is the checksummed part of a section.
type wireBody struct {
	Kind    uint8        `cbor:"1,keyasint"`
	Shape   []int        `cbor:"2,keyasint,omitempty"`
	Data    []float64    `cbor:"3,keyasint,omitempty"`
	Columns []wireColumn `cbor:"4,keyasint,omitempty"`
	Meta    []wireEntry  `cbor:"5,keyasint,omitempty"`
}

// maxPayload bounds uncompressed lengths read from file headers.
const maxPayload uint64 = 1 << 40

// encodedSection is the format-neutral form shared by both backends.
type encodedSection struct {
	name   string
	header []table.Entry
	body   []byte
}

func toWireEntries(es []table.Entry) []wireEntry {
	if len(es) == 0 {
		return nil
	}
	out := make([]wireEntry, len(es))
	for k, e := range es {
		out[k] = wireEntry{Key: e.Key, Value: e.Value}
	}

	return out
}

func tableEntry(w wireEntry) table.Entry {
	return table.Entry{Key: w.Key, Value: w.Value}
}

func fromWireEntries(ws []wireEntry) *table.Meta {
	m := &table.Meta{}
	for _, w := range ws {
		m.Set(w.Key, w.Value)
	}

	return m
}

func encodeBody(s *Section) ([]byte, error) {
	b := wireBody{Kind: uint8(s.Kind())}
	switch s.Kind() {
	case KindImage:
		b.Shape, b.Data = s.Image.Shape, s.Image.Data
		if b.Shape == nil {
			b.Shape = []int{}
		}
	case KindTable:
		b.Meta = toWireEntries(s.Table.Meta.Entries())
		b.Columns = make([]wireColumn, len(s.Table.Columns))
		for k, c := range s.Table.Columns {
			b.Columns[k] = wireColumn{Name: c.Name, Kind: uint8(c.Kind), Width: c.Width, Ints: c.Ints, Floats: c.Floats}
		}
	}

	return encMode.Marshal(b)
}

func decodeBody(name string, header *table.Meta, raw []byte) (*Section, error) {
	var b wireBody
	if err := decMode.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("section %q body: %v: %w", name, err, ErrCorrupt)
	}

	s := &Section{Name: name, Header: header}
	switch Kind(b.Kind) {
	case KindEmpty:
	case KindImage:
		if b.Shape == nil {
			b.Shape = []int{}
		}
		if b.Data == nil {
			b.Data = []float64{}
		}
		s.Image = &Image{Shape: b.Shape, Data: b.Data}
	case KindTable:
		cols := make([]*table.Column, len(b.Columns))
		for k, w := range b.Columns {
			cols[k] = &table.Column{Name: w.Name, Kind: table.Kind(w.Kind), Width: w.Width, Ints: w.Ints, Floats: w.Floats}
		}
		s.Table = &table.Table{Columns: cols, Meta: fromWireEntries(b.Meta)}
	default:
		return nil, fmt.Errorf("section %q kind %d: %w", name, b.Kind, ErrCorrupt)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Checksum returns the hex BLAKE3-256 digest used for DATASUM.
func Checksum(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// encodeSections encodes every body and stamps DATASUM (and FILEID on the
// primary) into cloned headers. The caller's File is not modified.
func encodeSections(f *File, fileID string) ([]encodedSection, error) {
	out := make([]encodedSection, len(f.Sections))
	for k, s := range f.Sections {
		body, err := encodeBody(s)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", s.Name, err)
		}
		h := s.Header.Clone()
		if k == 0 && !h.Has(KeyFileID) {
			h.Set(KeyFileID, fileID)
		}
		h.Set(KeyDataSum, Checksum(body))
		out[k] = encodedSection{name: s.Name, header: h.Entries(), body: body}
	}

	return out, nil
}

// decodeSections verifies checksums (when asked) and decodes bodies.
func decodeSections(encoded []encodedSection, verify bool) ([]*Section, error) {
	out := make([]*Section, len(encoded))
	for k, e := range encoded {
		header := table.NewMeta(e.header...)
		if want, ok := header.Get(KeyDataSum); ok && verify {
			if got := Checksum(e.body); got != want {
				return nil, fmt.Errorf("section %q: DATASUM %s, computed %s: %w", e.name, want, got, ErrChecksum)
			}
		}
		s, err := decodeBody(e.name, header, e.body)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}

	return out, nil
}
