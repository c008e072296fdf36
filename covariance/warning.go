// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"
	"log/slog"
)

// Warning reports a recoverable condition. The only one raised today is
// asymmetric input: the upper triangle was kept and the lower one discarded.
type Warning struct {
	// Op is the constructor that saw the input.
	Op string
	// Pairs counts (i<j) pairs whose two stored values differ by more than the tolerance.
	Pairs int
	// MaxDeviation is the largest |C[i,j]-C[j,i]| among finite pairs.
	MaxDeviation float64
}

// WarningHandler receives warnings; it must not block.
type WarningHandler func(Warning)

// String renders a one-line message.
func (w Warning) String() string {
	return fmt.Sprintf("%s: asymmetry detected in %d pair(s), max deviation %g; using upper triangle",
		w.Op, w.Pairs, w.MaxDeviation)
}

func (w Warning) log(l *slog.Logger) {
	l.Warn("asymmetry detected, using upper triangle",
		"op", w.Op, "pairs", w.Pairs, "max_deviation", w.MaxDeviation)
}
