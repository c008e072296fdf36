// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/rawshape"
	"github.com/katalvlaran/lvcov/table"
)

// Defaults.
const (
	// DefaultSymmetryTolerance treats any difference between (i,j) and (j,i) as asymmetry.
	DefaultSymmetryTolerance = 0.0

	// DefaultPrimarySection names the header-only first section.
	DefaultPrimarySection = "PRIMARY"

	// DefaultVarSection names the variance image section.
	DefaultVarSection = "VAR"

	// DefaultCorrelSection names the coordinate table section.
	DefaultCorrelSection = "CORREL"
)

// Options holds construction and I/O settings. Construction functions read
// the first group; Write and Read read the second. Unused settings are ignored.
type Options struct {
	rawShape  rawshape.Shape
	unit      string
	covTol    float64
	rhoTol    float64
	symTol    float64
	logger    *slog.Logger
	onWarning WarningHandler

	overwrite     bool
	format        container.Format
	compression   container.Compression
	primarySect   string
	varSect       string
	correlSect    string
	primaryHeader *table.Meta
	quiet         bool
	verify        bool
}

// Option mutates Options.
type Option func(*Options)

// WithRawShape declares the N-d shape of the data the matrix describes.
// Its product must equal the matrix axis length (checked at construction).
// No dims leaves the raw shape unset.
func WithRawShape(dims ...int) Option {
	var shape rawshape.Shape
	if len(dims) > 0 {
		shape = append(rawshape.Shape{}, dims...)
	}
	return func(o *Options) { o.rawShape = shape }
}

// WithUnit sets the unit of the covariance values.
func WithUnit(unit string) Option {
	return func(o *Options) { o.unit = unit }
}

// WithCovTolerance drops covariance entries with |c| < tol.
// Panics if tol is negative or NaN.
func WithCovTolerance(tol float64) Option {
	mustTolerance("WithCovTolerance", tol)
	return func(o *Options) { o.covTol = tol }
}

// WithRhoTolerance drops entries whose correlation |rho| < tol.
// Panics if tol is negative or NaN.
func WithRhoTolerance(tol float64) Option {
	mustTolerance("WithRhoTolerance", tol)
	return func(o *Options) { o.rhoTol = tol }
}

// WithSymmetryTolerance sets the largest |C[i,j]-C[j,i]| not reported as asymmetry.
// Panics if tol is negative or NaN.
func WithSymmetryTolerance(tol float64) Option {
	mustTolerance("WithSymmetryTolerance", tol)
	return func(o *Options) { o.symTol = tol }
}

func mustTolerance(name string, tol float64) {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(fmt.Sprintf("covariance: %s(%v): tolerance must be finite and >= 0", name, tol))
	}
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWarningHandler routes recoverable warnings to h instead of the logger.
func WithWarningHandler(h WarningHandler) Option {
	return func(o *Options) { o.onWarning = h }
}

// WithOverwrite lets Write replace an existing file.
func WithOverwrite(on bool) Option {
	return func(o *Options) { o.overwrite = on }
}

// WithFormat selects the container format for Write.
// Panics on an unknown Format value.
func WithFormat(f container.Format) Option {
	if !f.Valid() {
		panic(fmt.Sprintf("covariance: WithFormat(%d): unknown format", uint8(f)))
	}
	return func(o *Options) { o.format = f }
}

// WithCompression selects the payload codec for Write.
// Panics on an unknown Compression value.
func WithCompression(c container.Compression) Option {
	if !c.Valid() {
		panic(fmt.Sprintf("covariance: WithCompression(%d): unknown codec", uint8(c)))
	}
	return func(o *Options) { o.compression = c }
}

// WithSections overrides the section names used by Write and Read.
// An empty variance name makes Read assume unit variance.
func WithSections(primary, variance, correl string) Option {
	return func(o *Options) {
		o.primarySect, o.varSect, o.correlSect = primary, variance, correl
	}
}

// WithPrimaryHeader adds keywords to the primary section written by Write.
func WithPrimaryHeader(h *table.Meta) Option {
	return func(o *Options) { o.primaryHeader = h }
}

// WithQuiet suppresses the Info summary logged by Read.
func WithQuiet() Option {
	return func(o *Options) { o.quiet = true }
}

// WithVerify toggles checksum verification in Read.
func WithVerify(on bool) Option {
	return func(o *Options) { o.verify = on }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		symTol:      DefaultSymmetryTolerance,
		logger:      slog.Default().With("component", "covariance"),
		format:      container.DefaultFormat,
		compression: container.DefaultCompression,
		primarySect: DefaultPrimarySection,
		varSect:     DefaultVarSection,
		correlSect:  DefaultCorrelSection,
		verify:      container.DefaultVerify,
	}
	for _, set := range opts {
		if set != nil {
			set(&o)
		}
	}
	if o.onWarning == nil {
		logger := o.logger
		o.onWarning = func(w Warning) { w.log(logger) }
	}

	return o
}

// containerOptions translates the I/O settings.
func (o Options) containerOptions() []container.Option {
	return []container.Option{
		container.WithOverwrite(o.overwrite),
		container.WithFormat(o.format),
		container.WithCompression(o.compression),
		container.WithVerify(o.verify),
		container.WithLogger(o.logger),
	}
}
