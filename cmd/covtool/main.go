// SPDX-License-Identifier: MIT

// Command covtool inspects, converts and slices covariance files.
//
// Usage:
//
//	covtool info cov.lvcov
//	covtool verify cov.lvcov
//	covtool convert in.lvcov out.db --format sqlite --compression xz
//	covtool submatrix in.lvcov out.lvcov --select "::2, 1"
//	covtool dump cov.lvcov --raw --limit 10
//	covtool diag out.lvcov --variance 1,2,3,4,5,6 --raw-shape 3,2
//
// Settings come from an optional YAML or TOML file (--config); flags override it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/katalvlaran/lvcov/internal/config"
	"github.com/katalvlaran/lvcov/internal/logging"
)

const version = "0.1.0"

// CLI is the covtool command tree.
type CLI struct {
	Globals

	Info      InfoCmd      `cmd:"" help:"Summarise a covariance file"`
	Verify    VerifyCmd    `cmd:"" help:"Check section checksums and matrix properties"`
	Convert   ConvertCmd   `cmd:"" help:"Rewrite a covariance file in another format or codec"`
	Submatrix SubmatrixCmd `cmd:"" help:"Extract the covariance of a raw-shape selection"`
	Dump      DumpCmd      `cmd:"" help:"Print correlation coordinates"`
	Diag      DiagCmd      `cmd:"" help:"Write a diagonal covariance from a variance list"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// Globals are flags shared by every command.
type Globals struct {
	Config    string `name:"config" short:"c" help:"YAML or TOML configuration file" type:"path"`
	LogLevel  string `name:"log-level" help:"Override logging.level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Override logging.format (text, json)"`
	NoColor   bool   `name:"no-color" help:"Disable coloured output"`
}

// app is the runtime environment bound into every command's Run method.
type app struct {
	ctx context.Context
	cfg *config.Config
	log *slog.Logger
	out *printer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, builds the environment and executes the selected command.
// It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("covtool"),
		kong.Description("Sparse covariance file tool"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	a, err := cli.Globals.setup(ctx, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if err := kctx.Run(a); err != nil {
		newPrinter(stderr, cli.NoColor).failure("%v", err)
		return 1
	}

	return 0
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (g *Globals) setup(ctx context.Context, stdout, stderr io.Writer) (*app, error) {
	cfg := config.Default()
	if g.Config != "" {
		loaded, err := config.Load(g.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Logging.Format = g.LogFormat
	}

	log, err := logging.Parse(stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	return &app{
		ctx: ctx,
		cfg: cfg,
		log: log,
		out: newPrinter(stdout, g.NoColor),
	}, nil
}

// VersionCmd prints the covtool version.
type VersionCmd struct{}

// Run prints the version.
func (VersionCmd) Run(a *app) error {
	a.out.field("covtool", "%s", version)
	return nil
}
