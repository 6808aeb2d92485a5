package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"

	"assetplan/internal/common"
	"assetplan/internal/config"
	"assetplan/internal/diagnostic"
	"assetplan/internal/match"
	"assetplan/internal/plan"
)

// ErrUnknownPlugin is returned when a plan names a plugin or minimizer the engine has no hook for.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Minimizers the engine honors through esbuild's minifier.
var knownMinimizers = map[string]bool{
	"terser":        true,
	"css-minimizer": true,
	"esbuild":       true,
}

// Hook runs one whole-build plugin.
type Hook func(ctx context.Context, b *Build, plugin plan.ResolvedPlugin) error

// Registry maps plugin names to hooks.
type Registry struct {
	hooks map[string]Hook
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: map[string]Hook{}}
}

// DefaultRegistry returns a registry holding the built-in hooks.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("clean", cleanHook)
	r.Register("copy", copyHook)
	r.Register("html", htmlHook)
	r.Register("html-injector", htmlInjectorHook)
	r.Register("css-extract", cssExtractHook)
	r.Register("bundle-analyzer", analyzerHook)
	r.Register("compression", compressionHook)
	r.Register("imagemin", imageminHook)

	return r
}

// Register adds or replaces the hook for name.
func (r *Registry) Register(name string, hook Hook) {
	r.hooks[name] = hook
}

// Lookup returns the hook for name.
func (r *Registry) Lookup(name string) (Hook, bool) {
	h, ok := r.hooks[name]
	return h, ok
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	return common.SortedKeys(r.hooks)
}

// Build is the state shared by hooks during one engine run.
type Build struct {
	Plan    *plan.ResolvedPlan
	WorkDir string
	OutDir  string
	Logger  *log.Logger
	// Outputs are the emitted files relative to OutDir, sorted.
	Outputs []string
	// Metafile is esbuild's JSON metafile when bundle analysis is enabled.
	Metafile string
	// Extra collects files written by hooks, relative to OutDir.
	Extra []string
}

// Result summarizes an engine run.
type Result struct {
	Outputs     []string
	Extra       []string
	Warnings    []string
	// Diagnostics holds resolution notes followed by engine warnings.
	Diagnostics diagnostic.Diagnostics
}

// Engine consumes resolved plans.
type Engine struct {
	registry *Registry
	logger   *log.Logger
}

// New creates an engine. A nil registry selects DefaultRegistry and a nil
// logger discards output.
func New(registry *Registry, logger *log.Logger) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Engine{registry: registry, logger: logger}
}

// Check reports every plugin and minimizer in the plan the engine cannot run,
// including plugins bound to a phase the engine never enters.
func (e *Engine) Check(p *plan.ResolvedPlan) error {
	var errs []error

	for _, pl := range p.Plugins {
		if _, ok := e.registry.Lookup(pl.Name); !ok {
			errs = append(errs, fmt.Errorf("%w %q%s", ErrUnknownPlugin, pl.Name, match.DidYouMean(pl.Name, e.registry.Names())))
		}

		if !pl.Phase.IsValid() {
			errs = append(errs, fmt.Errorf("plugin %q: %w %q%s", pl.Name, config.ErrUnknownPhase, pl.Phase,
				match.DidYouMean(string(pl.Phase), config.PhaseNames)))
		}
	}

	for _, m := range p.Optimization.Minimizers {
		if !knownMinimizers[m.Name] {
			errs = append(errs, fmt.Errorf("%w %q (minimizer)%s", ErrUnknownPlugin, m.Name,
				match.DidYouMean(m.Name, common.SortedKeys(knownMinimizers))))
		}
	}

	return errors.Join(errs...)
}

// Build runs the plan: before-build hooks, esbuild, output writing and
// after-emit hooks. workDir is the project root.
func (e *Engine) Build(ctx context.Context, p *plan.ResolvedPlan, workDir string) (*Result, error) {
	if p == nil {
		return nil, errors.New("plan is required")
	}

	if err := e.Check(p); err != nil {
		return nil, err
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolving work dir: %w", err)
	}

	b := &Build{
		Plan:    p,
		WorkDir: workDir,
		OutDir:  OutDir(p, workDir),
		Logger:  e.logger,
	}

	if err := e.runPhase(ctx, b, config.PhaseBeforeBuild); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts, diags, err := BuildOptions(p, workDir)
	if err != nil {
		return nil, err
	}

	for _, w := range diags.Warnings {
		e.logger.Printf("warning: %s", w.String())
	}

	res := esbuild.Build(opts)
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("bundling: %s", joinMessages(res.Errors))
	}

	if err := b.writeOutputs(res.OutputFiles); err != nil {
		return nil, err
	}

	b.Metafile = res.Metafile

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.runPhase(ctx, b, config.PhaseAfterEmit); err != nil {
		return nil, err
	}

	sort.Strings(b.Extra)

	result := &Result{
		Outputs: b.Outputs,
		Extra:   b.Extra,
	}

	result.Diagnostics.Merge(p.Diagnostics)
	result.Diagnostics.Merge(diags)

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, w.Text)
	}

	return result, nil
}

func (e *Engine) runPhase(ctx context.Context, b *Build, phase config.Phase) error {
	for _, pl := range b.Plan.PluginsIn(phase) {
		if err := ctx.Err(); err != nil {
			return err
		}

		hook, _ := e.registry.Lookup(pl.Name)

		e.logger.Printf("%s: %s", phase, pl.Name)

		if err := hook(ctx, b, pl); err != nil {
			return fmt.Errorf("plugin %s: %w", pl.Name, err)
		}
	}

	return nil
}

func (b *Build) writeOutputs(files []esbuild.OutputFile) error {
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}

		if err := os.WriteFile(f.Path, f.Contents, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}

		rel, err := filepath.Rel(b.OutDir, f.Path)
		if err != nil {
			return err
		}

		b.Outputs = append(b.Outputs, filepath.ToSlash(rel))
	}

	sort.Strings(b.Outputs)

	return nil
}

func joinMessages(msgs []esbuild.Message) string {
	parts := make([]string, 0, len(msgs))

	for _, m := range msgs {
		if m.Location != nil {
			parts = append(parts, fmt.Sprintf("%s:%d: %s", m.Location.File, m.Location.Line, m.Text))
			continue
		}

		parts = append(parts, m.Text)
	}

	return strings.Join(parts, "; ")
}
