// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/covariance"
	"github.com/katalvlaran/lvcov/rawshape"
)

// InfoCmd summarises a covariance file.
type InfoCmd struct {
	Path string `arg:"" help:"Covariance file" type:"existingfile"`
}

// Run prints the container layout and the covariance summary.
func (c *InfoCmd) Run(a *app) error {
	st, err := os.Stat(c.Path)
	if err != nil {
		return err
	}
	f, err := container.Read(a.ctx, c.Path, container.WithLogger(a.log))
	if err != nil {
		return err
	}
	cov, err := covariance.FromFile(f, a.readOptions()...)
	if err != nil {
		return err
	}

	a.out.field("file", "%s (%s, %s/%s)", c.Path, humanize.Bytes(uint64(st.Size())), f.Format, f.Compression)
	descr := make([]string, 0, len(f.Sections))
	for _, s := range f.Sections {
		descr = append(descr, describeSection(s))
	}
	a.out.field("sections", "%s", strings.Join(descr, ", "))

	n, _ := cov.Shape()
	a.out.field("shape", "%s", rawshape.FormatTuple([]int{n, n}))
	if raw := cov.RawShape(); raw != nil {
		a.out.field("raw shape", "%s", raw)
	}
	if unit := cov.Unit(); unit != "" {
		a.out.field("unit", "%s", unit)
	}
	a.out.field("stored", "%s of %s upper-triangle elements (%.1f%%)",
		humanize.Comma(int64(cov.NNZ())), humanize.Comma(int64(upperSize(n))), density(cov.NNZ(), n))

	return nil
}

func describeSection(s *container.Section) string {
	switch s.Kind() {
	case container.KindImage:
		return fmt.Sprintf("%s (image %s)", s.Name, rawshape.FormatTuple(s.Image.Shape))
	case container.KindTable:
		return fmt.Sprintf("%s (table, %s rows)", s.Name, humanize.Comma(int64(s.Table.Len())))
	default:
		return fmt.Sprintf("%s (header, %d keys)", s.Name, s.Header.Len())
	}
}

func upperSize(n int) int { return n * (n + 1) / 2 }

func density(nnz, n int) float64 {
	if n == 0 {
		return 0
	}

	return 100 * float64(nnz) / float64(upperSize(n))
}

// VerifyCmd checks checksums and matrix properties.
type VerifyCmd struct {
	Path string `arg:"" help:"Covariance file" type:"existingfile"`
}

// Run fails when any section checksum is wrong or the sections do not form
// a valid covariance. Missing checksums and non-positive-definite matrices
// are reported as warnings.
func (c *VerifyCmd) Run(a *app) error {
	f, err := container.Read(a.ctx, c.Path, container.WithVerify(true), container.WithLogger(a.log))
	if err != nil {
		return err
	}
	if id, ok := f.Primary().Header.Get(container.KeyFileID); ok {
		a.out.field("file id", "%s", id)
	}
	for _, s := range f.Sections {
		if sum, ok := s.Header.Get(container.KeyDataSum); ok {
			a.out.success("%-8s DATASUM %s", s.Name, sum)
		} else {
			a.out.warning("%-8s no DATASUM", s.Name)
		}
	}

	cov, err := covariance.FromFile(f, a.readOptions()...)
	if err != nil {
		return err
	}
	if _, _, err = cov.ToCorrelation(); err != nil {
		return err
	}
	if cov.IsPositiveDefinite() {
		a.out.success("positive definite")
	} else {
		a.out.warning("not positive definite")
	}

	return nil
}

// WriteFlags override the output section of the configuration.
type WriteFlags struct {
	Format      string `help:"Output format (cbor, sqlite)"`
	Compression string `help:"Section codec (none, zstd, lz4, xz)"`
	Overwrite   bool   `help:"Replace an existing destination"`
}

// options merges the flags into a copy of cfg's output settings.
func (w WriteFlags) options(a *app) ([]covariance.Option, error) {
	cfg := *a.cfg
	if w.Format != "" {
		cfg.Output.Format = w.Format
	}
	if w.Compression != "" {
		cfg.Output.Compression = w.Compression
	}
	if w.Overwrite {
		cfg.Output.Overwrite = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return append(cfg.WriteOptions(), covariance.WithLogger(a.log)), nil
}

// ConvertCmd rewrites a covariance file.
type ConvertCmd struct {
	In  string `arg:"" help:"Source file" type:"existingfile"`
	Out string `arg:"" help:"Destination file" type:"path"`
	WriteFlags `embed:""`
}

// Run reads In with the configured tolerances and writes Out.
func (c *ConvertCmd) Run(a *app) error {
	cov, err := covariance.Read(a.ctx, c.In, a.readOptions()...)
	if err != nil {
		return err
	}
	opts, err := c.options(a)
	if err != nil {
		return err
	}
	if err = cov.Write(a.ctx, c.Out, opts...); err != nil {
		return err
	}
	a.out.success("wrote %s (%s stored elements)", c.Out, humanize.Comma(int64(cov.NNZ())))

	return nil
}

// SubmatrixCmd extracts the covariance of a raw-shape selection.
type SubmatrixCmd struct {
	In     string `arg:"" help:"Source file" type:"existingfile"`
	Out    string `arg:"" help:"Destination file" type:"path"`
	Select string `short:"s" required:"" help:"Index expression, one selector per raw axis (e.g. \"::2, 1\")"`
	WriteFlags `embed:""`
}

// Run selects, then writes the reduced covariance.
func (c *SubmatrixCmd) Run(a *app) error {
	sels, err := rawshape.ParseSelectors(c.Select)
	if err != nil {
		return err
	}
	cov, err := covariance.Read(a.ctx, c.In, a.readOptions()...)
	if err != nil {
		return err
	}
	sub, err := cov.SubMatrix(sels...)
	if err != nil {
		return err
	}
	opts, err := c.options(a)
	if err != nil {
		return err
	}
	if err = sub.Write(a.ctx, c.Out, opts...); err != nil {
		return err
	}
	n, _ := sub.Shape()
	a.out.success("wrote %s (shape %s)", c.Out, rawshape.FormatTuple([]int{n, n}))

	return nil
}

// DumpCmd prints correlation coordinates.
type DumpCmd struct {
	Path  string `arg:"" help:"Covariance file" type:"existingfile"`
	Raw   bool   `help:"Print raw data coordinates instead of flat indices"`
	Limit int    `help:"Maximum number of rows (0 prints all)" default:"20"`
}

// Run prints one INDXI/INDXJ/RHOIJ row per stored upper-triangle element.
func (c *DumpCmd) Run(a *app) error {
	cov, err := covariance.Read(a.ctx, c.Path, a.readOptions()...)
	if err != nil {
		return err
	}
	cd, err := cov.CoordinateData(c.Raw)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", covariance.ColumnRowIndex, covariance.ColumnColIndex, covariance.ColumnRho)
	rows := len(cd.Rho)
	if c.Limit > 0 && c.Limit < rows {
		rows = c.Limit
	}
	for k := 0; k < rows; k++ {
		fmt.Fprintf(tw, "%s\t%s\t%.6g\n", rawshape.FormatTuple(cd.I[k]), rawshape.FormatTuple(cd.J[k]), cd.Rho[k])
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	if rows < len(cd.Rho) {
		a.out.warning("%s more rows not shown", humanize.Comma(int64(len(cd.Rho)-rows)))
	}

	return nil
}

// DiagCmd writes a diagonal covariance.
type DiagCmd struct {
	Out      string    `arg:"" help:"Destination file" type:"path"`
	Variance []float64 `required:"" help:"Comma-separated variances"`
	RawShape []int     `name:"raw-shape" help:"Comma-separated raw data shape"`
	WriteFlags `embed:""`
}

// Run builds the covariance with the configured unit and writes it.
func (c *DiagCmd) Run(a *app) error {
	opts := append(a.cfg.BuildOptions(), covariance.WithLogger(a.log))
	if len(c.RawShape) > 0 {
		opts = append(opts, covariance.WithRawShape(c.RawShape...))
	}
	cov, err := covariance.FromVariance(c.Variance, opts...)
	if err != nil {
		return err
	}
	wopts, err := c.options(a)
	if err != nil {
		return err
	}
	if err = cov.Write(a.ctx, c.Out, wopts...); err != nil {
		return err
	}
	a.out.success("wrote %s (%d variances)", c.Out, len(c.Variance))

	return nil
}

// readOptions returns the configured build options plus the logger.
func (a *app) readOptions() []covariance.Option {
	return append(a.cfg.BuildOptions(), covariance.WithLogger(a.log))
}
