// SPDX-License-Identifier: MIT

package container

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/lvcov/table"
)

// Reserved header keywords maintained by Write.
const (
	// KeyDataSum holds the hex BLAKE3-256 digest of a section's encoded body.
	KeyDataSum = "DATASUM"
	// KeyFileID holds a random UUID stamped into the primary header.
	KeyFileID = "FILEID"
)

// Kind is the payload type of a Section.
type Kind uint8

const (
	// KindEmpty is a header-only section.
	KindEmpty Kind = iota
	// KindImage carries an N-d float array.
	KindImage
	// KindTable carries a columnar table.
	KindTable
)

// String returns "empty", "image" or "table".
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Image is a dense row-major float array with an explicit shape.
type Image struct {
	Shape []int
	Data  []float64
}

// Section is one named unit of a File. At most one of Image and Table is set.
type Section struct {
	Name   string
	Header *table.Meta
	Image  *Image
	Table  *table.Table
}

// NewEmpty returns a header-only section. A nil header becomes empty.
func NewEmpty(name string, header *table.Meta) *Section {
	if header == nil {
		header = &table.Meta{}
	}

	return &Section{Name: name, Header: header}
}

// NewImage returns an image section; data is copied.
// Errors: ErrCorrupt when the shape product differs from len(data).
func NewImage(name string, shape []int, data []float64) (*Section, error) {
	img := &Image{Shape: slices.Clone(shape), Data: slices.Clone(data)}
	if err := img.validate(); err != nil {
		return nil, containerErrorf("NewImage", err)
	}

	return &Section{Name: name, Header: &table.Meta{}, Image: img}, nil
}

// NewTable returns a table section holding t (not copied).
func NewTable(name string, t *table.Table) *Section {
	return &Section{Name: name, Header: &table.Meta{}, Table: t}
}

// Kind reports which payload the section carries.
func (s *Section) Kind() Kind {
	switch {
	case s.Image != nil:
		return KindImage
	case s.Table != nil:
		return KindTable
	default:
		return KindEmpty
	}
}

func (img *Image) validate() error {
	n := 1
	for _, d := range img.Shape {
		if d < 0 {
			return fmt.Errorf("image shape %v: %w", img.Shape, ErrCorrupt)
		}
		n *= d
	}
	if n != len(img.Data) {
		return fmt.Errorf("image shape %v holds %d values, got %d: %w", img.Shape, n, len(img.Data), ErrCorrupt)
	}

	return nil
}

func (s *Section) validate() error {
	if s.Image != nil && s.Table != nil {
		return fmt.Errorf("section %q has both image and table: %w", s.Name, ErrCorrupt)
	}
	if s.Image != nil {
		if err := s.Image.validate(); err != nil {
			return fmt.Errorf("section %q: %w", s.Name, err)
		}
	}
	if s.Table != nil {
		if err := s.Table.Validate(); err != nil {
			return fmt.Errorf("section %q: %w", s.Name, err)
		}
	}

	return nil
}

// File is an ordered list of uniquely named sections. The first section is
// the primary one. Format and Compression are filled in by Read.
type File struct {
	Sections    []*Section
	Format      Format
	Compression Compression
}

// New builds a File and validates it.
// Errors: ErrDuplicateSection, ErrCorrupt.
func New(sections ...*Section) (*File, error) {
	f := &File{Sections: sections}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// Validate checks section uniqueness and payload consistency.
func (f *File) Validate() error {
	if f == nil {
		return containerErrorf("Validate", ErrNilFile)
	}
	seen := make(map[string]bool, len(f.Sections))
	for k, s := range f.Sections {
		if s == nil {
			return containerErrorf("Validate", fmt.Errorf("section %d is nil: %w", k, ErrCorrupt))
		}
		if seen[s.Name] {
			return containerErrorf("Validate", fmt.Errorf("%q: %w", s.Name, ErrDuplicateSection))
		}
		seen[s.Name] = true
		if err := s.validate(); err != nil {
			return containerErrorf("Validate", err)
		}
	}

	return nil
}

// Primary returns the first section, or nil for an empty file.
func (f *File) Primary() *Section {
	if len(f.Sections) == 0 {
		return nil
	}

	return f.Sections[0]
}

// Section returns the section with the given name.
// Errors: ErrSectionNotFound.
func (f *File) Section(name string) (*Section, error) {
	for _, s := range f.Sections {
		if s.Name == name {
			return s, nil
		}
	}

	return nil, containerErrorf("Section", fmt.Errorf("%q: %w", name, ErrSectionNotFound))
}

// Names returns section names in file order.
func (f *File) Names() []string {
	out := make([]string, len(f.Sections))
	for k, s := range f.Sections {
		out[k] = s.Name
	}

	return out
}
