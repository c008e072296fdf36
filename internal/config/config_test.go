// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/internal/config"
	"github.com/katalvlaran/lvcov/internal/logging"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "cbor", cfg.Output.Format)
	assert.Equal(t, "zstd", cfg.Output.Compression)
	assert.False(t, cfg.Output.Overwrite)
	assert.Empty(t, cfg.BuildOptions())
	assert.Len(t, cfg.WriteOptions(), 3)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("LVCOV_TEST_CODEC", "xz")

	path := writeFile(t, "covtool.yaml", `
output:
  format: sqlite
  compression: ${LVCOV_TEST_CODEC}
  overwrite: true
build:
  cov_tol: 1e-6
  rho_tol: 0.01
  unit: m2
logging:
  level: debug
  format: json
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Output.Format)
	assert.Equal(t, "xz", cfg.Output.Compression)
	assert.True(t, cfg.Output.Overwrite)
	assert.InDelta(t, 1e-6, cfg.Build.CovTol, 0)
	assert.InDelta(t, 0.01, cfg.Build.RhoTol, 0)
	assert.Equal(t, "m2", cfg.Build.Unit)
	assert.Len(t, cfg.BuildOptions(), 3)

	f, err := logging.ParseFormat(cfg.Logging.Format)
	require.NoError(t, err)
	assert.Equal(t, logging.FormatJSON, f)
}

func TestLoadTOMLKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "covtool.toml", `
[build]
cov_tol = 0.5

[logging]
level = "warn"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, container.DefaultFormat.String(), cfg.Output.Format)
	assert.Equal(t, container.DefaultCompression.String(), cfg.Output.Compression)
	assert.InDelta(t, 0.5, cfg.Build.CovTol, 0)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("extension", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(writeFile(t, "covtool.json", `{}`))
		require.ErrorIs(t, err, config.ErrUnsupportedExtension)
	})

	t.Run("syntax", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse("toml", []byte("[output\nformat ="))
		require.Error(t, err)
	})

	t.Run("format", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse(".yml", []byte("output:\n  format: hdf5\n"))
		require.ErrorIs(t, err, container.ErrUnknownFormat)
	})

	t.Run("compression", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse("yaml", []byte("output:\n  compression: brotli\n"))
		require.ErrorIs(t, err, container.ErrUnknownCompression)
	})

	t.Run("tolerance", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse("yaml", []byte("build:\n  rho_tol: -1\n"))
		require.ErrorContains(t, err, "build.rho_tol")
	})

	t.Run("logging", func(t *testing.T) {
		t.Parallel()
		_, err := config.Parse("toml", []byte("[logging]\nlevel = \"loud\"\n"))
		require.ErrorIs(t, err, logging.ErrUnknownLevel)
	})
}
