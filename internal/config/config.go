// SPDX-License-Identifier: MIT

// Package config loads covtool settings from a YAML or TOML file.
//
// The format is chosen by extension (.yaml, .yml, .toml). ${VAR} references
// are expanded from the environment before parsing; unset variables expand
// to the empty string. Keys absent from the file keep their Default values.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvcov/container"
	"github.com/katalvlaran/lvcov/covariance"
	"github.com/katalvlaran/lvcov/internal/logging"
)

// ErrUnsupportedExtension is returned for files that are neither YAML nor TOML.
var ErrUnsupportedExtension = errors.New("config: unsupported file extension")

// Config is the complete covtool configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Build   BuildConfig   `yaml:"build" toml:"build"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// OutputConfig controls how covariance files are written.
type OutputConfig struct {
	Format      string `yaml:"format" toml:"format"`
	Compression string `yaml:"compression" toml:"compression"`
	Overwrite   bool   `yaml:"overwrite" toml:"overwrite"`
}

// BuildConfig holds construction tolerances and the default unit.
type BuildConfig struct {
	CovTol float64 `yaml:"cov_tol" toml:"cov_tol"`
	RhoTol float64 `yaml:"rho_tol" toml:"rho_tol"`
	SymTol float64 `yaml:"sym_tol" toml:"sym_tol"`
	Unit   string  `yaml:"unit" toml:"unit"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:      container.DefaultFormat.String(),
			Compression: container.DefaultCompression.String(),
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads, expands and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data in the format named by ext (with or without the dot)
// on top of Default, then validates the result.
func Parse(ext string, data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))
	cfg := Default()

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedExtension)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the value of VAR.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envRef.FindStringSubmatch(match)[1])
	})
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := container.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if _, err := container.ParseCompression(c.Output.Compression); err != nil {
		return fmt.Errorf("output.compression: %w", err)
	}
	for _, tol := range []struct {
		key string
		v   float64
	}{
		{"build.cov_tol", c.Build.CovTol},
		{"build.rho_tol", c.Build.RhoTol},
		{"build.sym_tol", c.Build.SymTol},
	} {
		if tol.v < 0 || math.IsNaN(tol.v) || math.IsInf(tol.v, 0) {
			return fmt.Errorf("%s must be a finite non-negative number, got %v", tol.key, tol.v)
		}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}

	return nil
}

// BuildOptions translates the build section into covariance options.
// Tolerances equal to zero are left at the library defaults.
func (c *Config) BuildOptions() []covariance.Option {
	var opts []covariance.Option
	if c.Build.CovTol > 0 {
		opts = append(opts, covariance.WithCovTolerance(c.Build.CovTol))
	}
	if c.Build.RhoTol > 0 {
		opts = append(opts, covariance.WithRhoTolerance(c.Build.RhoTol))
	}
	if c.Build.SymTol > 0 {
		opts = append(opts, covariance.WithSymmetryTolerance(c.Build.SymTol))
	}
	if c.Build.Unit != "" {
		opts = append(opts, covariance.WithUnit(c.Build.Unit))
	}

	return opts
}

// WriteOptions translates the output section into covariance options.
// The config must have passed Validate.
func (c *Config) WriteOptions() []covariance.Option {
	format, _ := container.ParseFormat(c.Output.Format)
	codec, _ := container.ParseCompression(c.Output.Compression)

	return []covariance.Option{
		covariance.WithFormat(format),
		covariance.WithCompression(codec),
		covariance.WithOverwrite(c.Output.Overwrite),
	}
}
