// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printer writes aligned, optionally coloured status lines.
type printer struct {
	w                io.Writer
	ok, warn, bad, k *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:    w,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		bad:  color.New(color.FgRed, color.Bold),
		k:    color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.k} {
			c.DisableColor()
		}
	}

	return p
}

// field prints "name:  value" with the name padded to a fixed column.
func (p *printer) field(name, format string, args ...any) {
	p.k.Fprintf(p.w, "%-12s", name+":")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) success(format string, args ...any) {
	p.ok.Fprint(p.w, "✓ ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) warning(format string, args ...any) {
	p.warn.Fprint(p.w, "! ")
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) failure(format string, args ...any) {
	p.bad.Fprint(p.w, "✗ ")
	fmt.Fprintf(p.w, format+"\n", args...)
}
