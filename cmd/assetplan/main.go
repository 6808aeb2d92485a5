// Command assetplan resolves asset pipeline declarations into a build plan
// for one mode and optionally runs the plan through the bundled engine.
//
//	assetplan resolve [-config file] [-mode m] [-summary] [-dump]
//	assetplan check   [-config file] [-mode m]
//	assetplan build   [-config file] [-mode m] [-dir path]
//	assetplan defaults
//
// The mode comes from -mode, then NODE_ENV, then defaults to development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"

	"assetplan/internal/bundle"
	"assetplan/internal/config"
	"assetplan/internal/diagnostic"
	"assetplan/internal/plan"
)

const usageText = `Usage: assetplan <command> [options]

Commands:
  resolve   print the resolved plan for a mode
  check     validate declarations and report diagnostics
  build     resolve and run the plan with the built-in engine
  defaults  print the built-in declarations
`

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return runWithArgs(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr)
}

// options are the flags shared by every command.
type options struct {
	configPath string
	mode       string
	summary    bool
	dump       bool
	dir        string
}

func runWithArgs(
	ctx context.Context,
	args []string,
	lookup func(string) (string, bool),
	stdout, stderr io.Writer,
) int {
	if len(args) == 0 {
		_ = writef(stderr, "%s", usageText)
		return 2
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "defaults":
		if _, err := stdout.Write(config.DefaultYAML()); err != nil {
			return 1
		}

		return 0
	case "resolve", "check", "build":
	case "-h", "-help", "--help", "help":
		_ = writef(stdout, "%s", usageText)
		return 0
	default:
		_ = writef(stderr, "error: unknown command %q\n\n%s", cmd, usageText)
		return 2
	}

	fs := flag.NewFlagSet("assetplan "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options

	fs.StringVar(&opts.configPath, "config", "", "path to pipeline declarations (default: built-in)")
	fs.StringVar(&opts.mode, "mode", "", "build mode: development or production (default: $"+config.EnvVar+")")

	if cmd == "resolve" {
		fs.BoolVar(&opts.summary, "summary", false, "print a one-line-per-chain summary instead of YAML")
		fs.BoolVar(&opts.dump, "dump", false, "dump the resolved plan structure")
	}

	if cmd == "build" {
		fs.StringVar(&opts.dir, "dir", ".", "project root the declarations are relative to")
	}

	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	if fs.NArg() > 0 {
		_ = writef(stderr, "error: unexpected arguments: %v\n", fs.Args())
		return 2
	}

	mode, err := selectMode(opts.mode, lookup)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 2
	}

	pf, err := loadDeclarations(opts.configPath)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	diags := config.Validate(pf)

	if cmd == "check" {
		return runCheck(pf, diags, mode, stdout, stderr)
	}

	if err := printDiagnostics(stderr, diags, false); err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	if cmd == "resolve" {
		return runResolve(pf, mode, opts, stdout, stderr)
	}

	return runBuild(ctx, pf, mode, opts.dir, stdout, stderr)
}

func selectMode(flagValue string, lookup func(string) (string, bool)) (config.Mode, error) {
	if flagValue != "" {
		return config.ParseMode(flagValue)
	}

	return config.ModeFromEnv(lookup)
}

func loadDeclarations(path string) (*config.PipelineFile, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.LoadFile(path)
}

func runCheck(pf *config.PipelineFile, diags *diagnostic.Diagnostics, mode config.Mode, stdout, stderr io.Writer) int {
	if err := printDiagnostics(stderr, diags, true); err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	p, err := plan.NewResolver(pf).Resolve(mode)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	if err := bundle.New(nil, nil).Check(p); err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	if err := writef(stdout, "ok: %d chain(s), %d plugin(s) in %s\n", len(p.Chains), len(p.Plugins), mode); err != nil {
		return 1
	}

	return 0
}

func runResolve(pf *config.PipelineFile, mode config.Mode, opts options, stdout, stderr io.Writer) int {
	p, err := plan.NewResolver(pf).Resolve(mode)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	switch {
	case opts.dump:
		spew.Fdump(stdout, p)
	case opts.summary:
		if err := writef(stdout, "%s", plan.Summary(p)); err != nil {
			return 1
		}
	default:
		data, err := plan.ExportYAML(p)
		if err != nil {
			_ = writef(stderr, "error: %v\n", err)
			return 1
		}

		if _, err := stdout.Write(data); err != nil {
			return 1
		}
	}

	return 0
}

func runBuild(ctx context.Context, pf *config.PipelineFile, mode config.Mode, dir string, stdout, stderr io.Writer) int {
	p, err := plan.NewResolver(pf).Resolve(mode)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	logger := log.New(stderr, "assetplan: ", 0)

	res, err := bundle.New(nil, logger).Build(ctx, p, dir)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	for _, w := range res.Warnings {
		logger.Printf("warning: %s", w)
	}

	for _, out := range append(append([]string(nil), res.Outputs...), res.Extra...) {
		if err := writeln(stdout, out); err != nil {
			return 1
		}
	}

	return 0
}

// printDiagnostics writes warnings, plus infos when verbose, and returns the
// recorded errors joined into one.
func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics, verbose bool) error {
	for _, d := range diags.All(verbose) {
		if d.Severity != diagnostic.SeverityError {
			_ = writef(w, "%s: %s\n", d.Severity, d)
		}
	}

	return diags.Err()
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
