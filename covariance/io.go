// SPDX-License-Identifier: MIT

package covariance

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/rawshape"
	"github.com/katalvlaran/lvcov/table"
)

const (
	opWrite = "Write"
	opRead  = "Read"
)

// Sections builds the three container sections Write stores: a header-only
// primary section (COVSHAPE plus WithPrimaryHeader keywords), the variance
// image laid out in the raw shape, and the coordinate table.
// Errors: ErrDegenerateVariance.
func (c *Covariance) Sections(opts ...Option) (*container.File, error) {
	o := gatherOptions(opts...)
	variance, correl, err := c.ToTable()
	if err != nil {
		return nil, err
	}

	hdr := &table.Meta{}
	if o.primaryHeader != nil {
		hdr = o.primaryHeader.Clone()
	}
	covShape, _ := correl.Meta.Get(KeyCovShape)
	hdr.Set(KeyCovShape, covShape)
	primary := container.NewEmpty(o.primarySect, hdr)

	img, err := container.NewImage(o.varSect, c.mapper.Effective(), variance)
	if err != nil {
		return nil, err
	}
	if c.unit != "" {
		img.Header.Set(KeyUnit, c.unit)
	}

	tab := container.NewTable(o.correlSect, correl)
	tab.Header.Merge(correl.Meta)

	return container.New(primary, img, tab)
}

// Write stores c at path as primary, variance and correlation sections.
// Implementation:
//   - Stage 1: build all sections in memory (fails before touching disk).
//   - Stage 2: hand them to container.Write, which refuses an existing path
//     unless WithOverwrite and replaces the file atomically.
//
// Errors:
//   - ErrDestinationExists, ErrUnsupportedOperation (SQLite disabled),
//     ErrDegenerateVariance, I/O errors.
func (c *Covariance) Write(ctx context.Context, path string, opts ...Option) error {
	o := gatherOptions(opts...)
	f, err := c.Sections(opts...)
	if err != nil {
		return covErrorf(opWrite, err)
	}
	if err = container.Write(ctx, path, f, o.containerOptions()...); err != nil {
		return covErrorf(opWrite, err)
	}

	return nil
}

// Read loads a Covariance written by Write, or any container with the same
// section names, columns and keywords.
//
// Behavior highlights:
//   - A missing variance section (or WithSections(_, "", _)) means unit variance.
//   - Table metadata is looked up first, then the section header.
//   - Logs shape and entry count at Info unless WithQuiet.
//
// Errors:
//   - container.ErrSectionNotFound (no correlation section), ErrMissingMetadata,
//     ErrShapeMismatch, container.ErrChecksum, plus FromTable errors.
func Read(ctx context.Context, path string, opts ...Option) (*Covariance, error) {
	o := gatherOptions(opts...)
	f, err := container.Read(ctx, path, o.containerOptions()...)
	if err != nil {
		return nil, covErrorf(opRead, err)
	}

	return fromFile(f, o)
}

// FromFile is Read for an already loaded container.
func FromFile(f *container.File, opts ...Option) (*Covariance, error) {
	return fromFile(f, gatherOptions(opts...))
}

func fromFile(f *container.File, o Options) (*Covariance, error) {
	sec, err := f.Section(o.correlSect)
	if err != nil {
		return nil, covErrorf(opRead, err)
	}
	if sec.Kind() != container.KindTable {
		return nil, covErrorf(opRead, fmt.Errorf("section %q is %v, want table: %w", sec.Name, sec.Kind(), ErrShapeMismatch))
	}
	correl := &table.Table{Columns: sec.Table.Columns, Meta: sec.Header.Clone()}
	correl.Meta.Merge(sec.Table.Meta)

	var variance []float64
	if o.varSect != "" {
		vs, err := f.Section(o.varSect)
		switch {
		case errors.Is(err, container.ErrSectionNotFound):
		case err != nil:
			return nil, covErrorf(opRead, err)
		case vs.Kind() != container.KindImage:
			return nil, covErrorf(opRead, fmt.Errorf("section %q is %v, want image: %w", vs.Name, vs.Kind(), ErrShapeMismatch))
		default:
			variance = vs.Image.Data
		}
	}

	c, err := FromTable(variance, correl, withOptions(o))
	if err != nil {
		return nil, covErrorf(opRead, err)
	}
	if !o.quiet {
		r, k := c.Shape()
		o.logger.Info("read covariance",
			"shape", rawshape.FormatTuple([]int{r, k}), "nnz", c.NNZ(), "raw_shape", c.RawShape())
	}

	return c, nil
}

// withOptions replays an already gathered Options.
func withOptions(src Options) Option {
	return func(o *Options) { *o = src }
}
