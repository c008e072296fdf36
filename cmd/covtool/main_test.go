// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/covariance"
)

// covtool runs the command line and returns exit code, stdout and stderr.
func covtool(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"--no-color"}, args...), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

// sampleFile writes a banded 6x6 covariance with raw shape (3, 2).
func sampleFile(t *testing.T) string {
	t.Helper()
	rows := make([][]float64, 6)
	for i := range rows {
		rows[i] = make([]float64, 6)
		for j := range rows[i] {
			switch d := i - j; {
			case d == 0:
				rows[i][j] = float64(i + 1)
			case d == 1 || d == -1:
				rows[i][j] = 0.3
			}
		}
	}
	c, err := covariance.FromArray(rows, covariance.WithRawShape(3, 2), covariance.WithUnit("m2"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cov.lvcov")
	require.NoError(t, c.Write(context.Background(), path, covariance.WithQuiet()))

	return path
}

func TestInfo(t *testing.T) {
	t.Parallel()

	code, out, errOut := covtool(t, "--log-level", "warn", "info", sampleFile(t))
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "cbor/")
	assert.Contains(t, out, "PRIMARY (header")
	assert.Contains(t, out, "VAR (image (3, 2))")
	assert.Contains(t, out, "CORREL (table, 11 rows)")
	assert.Contains(t, out, "(6, 6)")
	assert.Contains(t, out, "m2")
	assert.Contains(t, out, "11 of 21")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	code, out, errOut := covtool(t, "verify", sampleFile(t))
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "DATASUM")
	assert.Contains(t, out, "file id")
	assert.Contains(t, out, "positive definite")
	assert.NotContains(t, out, "not positive definite")
}

func TestConvertAndSubmatrix(t *testing.T) {
	t.Parallel()

	src := sampleFile(t)
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.lvcov")

	code, out, errOut := covtool(t, "convert", src, dst, "--compression", "lz4")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "11 stored elements")

	f, err := container.Read(context.Background(), dst)
	require.NoError(t, err)
	assert.Equal(t, container.FormatCBOR, f.Format)
	// Payloads that lz4 cannot shrink are stored uncompressed.
	assert.Contains(t, []container.Compression{container.CompressionLZ4, container.CompressionNone}, f.Compression)

	code, _, errOut = covtool(t, "convert", src, dst)
	require.Equal(t, 1, code)
	assert.Contains(t, errOut, "exists")

	sub := filepath.Join(dir, "sub.lvcov")
	code, out, errOut = covtool(t, "submatrix", src, sub, "--select", "::2")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "(4, 4)")

	c, err := covariance.Read(context.Background(), sub, covariance.WithQuiet())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, []int(c.RawShape()))
	v, err := c.At(2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-12)
}

func TestSubmatrixBadSelection(t *testing.T) {
	t.Parallel()

	code, _, errOut := covtool(t, "submatrix", sampleFile(t), filepath.Join(t.TempDir(), "x"), "-s", "::0")
	require.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid selection")
}

func TestDump(t *testing.T) {
	t.Parallel()

	code, out, errOut := covtool(t, "dump", sampleFile(t), "--raw", "--limit", "3")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "INDXI")
	assert.Contains(t, out, "RHOIJ")
	assert.Contains(t, out, "(0, 0)")
	assert.Contains(t, out, "8 more rows not shown")
}

func TestDiagWithConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "covtool.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[output]
format = "sqlite"
compression = "xz"

[build]
unit = "s2"

[logging]
level = "debug"
format = "json"
`), 0o644))

	dst := filepath.Join(dir, "diag.db")
	code, out, errOut := covtool(t, "--config", cfgPath, "diag", dst, "--variance", "1,2,3,4", "--raw-shape", "2,2")
	if !container.SQLiteAvailable() {
		require.Equal(t, 1, code)
		return
	}
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "4 variances")
	assert.Contains(t, errOut, `"msg":"container written"`)

	format, err := container.Sniff(dst)
	require.NoError(t, err)
	assert.Equal(t, container.FormatSQLite, format)

	c, err := covariance.Read(context.Background(), dst, covariance.WithQuiet())
	require.NoError(t, err)
	assert.Equal(t, "s2", c.Unit())
	assert.Equal(t, []float64{1, 2, 3, 4}, c.Variance())
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	code, _, _ := covtool(t, "frobnicate")
	assert.Equal(t, 2, code)

	code, _, errOut := covtool(t, "--log-format", "xml", "version")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown format")

	code, out, _ := covtool(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, version)
}
