package bundle

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"

	"assetplan/internal/common"
	"assetplan/internal/config"
	"assetplan/internal/diagnostic"
	"assetplan/internal/plan"
)

// DefaultOutDir is used when the plan declares no output path.
const DefaultOutDir = "dist"

// entryNamespace is the esbuild namespace of synthesized multi-module entries.
const entryNamespace = "assetplan-entry"

// loaderExtensions are run through the plan's rules to build the loader table.
var loaderExtensions = []string{
	".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".json",
	".css", ".scss", ".sass",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".avif", ".webp", ".ico",
	".ttf", ".otf", ".woff", ".woff2", ".eot",
}

// OutDir returns the absolute output directory of a plan.
func OutDir(p *plan.ResolvedPlan, workDir string) string {
	out := p.Output.Path
	if out == "" {
		out = DefaultOutDir
	}

	if filepath.IsAbs(out) {
		return out
	}

	return filepath.Join(workDir, out)
}

// BuildOptions translates a plan into esbuild options. workDir must be absolute.
// Declarations esbuild cannot honor are reported as warnings.
func BuildOptions(p *plan.ResolvedPlan, workDir string) (esbuild.BuildOptions, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	if !filepath.IsAbs(workDir) {
		return esbuild.BuildOptions{}, diags, fmt.Errorf("work dir %q is not absolute", workDir)
	}

	srcDir := filepath.Join(workDir, p.Context)
	prod := p.Mode.IsProduction()

	opts := esbuild.BuildOptions{
		AbsWorkingDir:     workDir,
		Bundle:            true,
		Write:             false,
		Outdir:            OutDir(p, workDir),
		PublicPath:        p.Output.PublicPath,
		Platform:          esbuild.PlatformBrowser,
		Target:            esbuild.ES2020,
		Format:            esbuild.FormatIIFE,
		LogLevel:          esbuild.LogLevelSilent,
		MinifyWhitespace:  prod,
		MinifyIdentifiers: prod,
		MinifySyntax:      prod,
		Metafile:          p.HasPlugin("bundle-analyzer"),
		ChunkNames:        "chunks/[name]-[hash]",
	}

	if p.Devtool != "" {
		opts.Sourcemap = esbuild.SourceMapLinked
	} else {
		opts.Sourcemap = esbuild.SourceMapNone
	}

	if splits(p) {
		opts.Splitting = true
		opts.Format = esbuild.FormatESModule
	}

	if len(p.Resolve.Extensions) > 0 {
		opts.ResolveExtensions = append([]string(nil), p.Resolve.Extensions...)
	}

	if len(p.Resolve.Alias) > 0 {
		opts.Alias = make(map[string]string, len(p.Resolve.Alias))
		for k, v := range p.Resolve.Alias {
			if strings.HasPrefix(v, ".") {
				v = filepath.Join(workDir, v)
			}

			opts.Alias[k] = v
		}
	}

	opts.Loader = loaders(p, &diags)

	if n, ok := p.NameFor(config.AssetScript); ok {
		opts.EntryNames = namePattern(n)
		if n.Ext != "" && n.Ext != "js" {
			opts.OutExtension = map[string]string{".js": "." + n.Ext}
		}
	}

	if n, ok := p.NameFor(config.AssetMedia); ok {
		opts.AssetNames = namePattern(n)
	}

	if n, ok := p.NameFor(config.AssetFont); ok && len(p.ChainsFor(config.AssetFont)) > 0 {
		if media, _ := p.NameFor(config.AssetMedia); namePattern(n) != namePattern(media) {
			diags.AddWarning("shared_asset_names",
				"esbuild uses one asset name pattern; font naming follows media naming", "naming", "font")
		}
	}

	multi := map[string][]string{}

	for _, name := range common.SortedKeys(p.Entry) {
		mods := p.Entry[name]

		switch len(mods) {
		case 0:
			diags.AddWarning("empty_entry", "entry has no modules", "entry", name)
		case 1:
			opts.EntryPointsAdvanced = append(opts.EntryPointsAdvanced, esbuild.EntryPoint{
				InputPath:  entryPath(srcDir, mods[0]),
				OutputPath: name,
			})
		default:
			multi[name] = mods
			opts.EntryPointsAdvanced = append(opts.EntryPointsAdvanced, esbuild.EntryPoint{
				InputPath:  entryNamespace + ":" + name,
				OutputPath: name,
			})
		}
	}

	if len(multi) > 0 {
		opts.Plugins = append(opts.Plugins, entryPlugin(multi, srcDir))
	}

	return opts, diags, nil
}

// splits reports whether shared chunks are split out, which requires ESM output.
func splits(p *plan.ResolvedPlan) bool {
	return p.Optimization.SplitChunks == "all" || p.Optimization.SplitChunks == "async"
}

// loaders maps file extensions to esbuild loaders using the plan's first
// matching chain for a sample file of each extension.
func loaders(p *plan.ResolvedPlan, diags *diagnostic.Diagnostics) map[string]esbuild.Loader {
	out := map[string]esbuild.Loader{}

	for _, ext := range loaderExtensions {
		chain, ok := p.Match(path.Join(filepath.ToSlash(p.Context), "index"+ext))
		if !ok {
			continue
		}

		loader, ok := loaderFor(chain.Class, ext)
		if !ok {
			diags.AddWarning("unsupported_file_type",
				fmt.Sprintf("no esbuild loader for %s files in class %s", ext, chain.Class),
				fmt.Sprintf("rules[%d]", chain.Rule), ext)

			continue
		}

		out[ext] = loader
	}

	return out
}

func loaderFor(class config.AssetClass, ext string) (esbuild.Loader, bool) {
	switch class {
	case config.AssetScript:
		switch ext {
		case ".jsx":
			return esbuild.LoaderJSX, true
		case ".ts":
			return esbuild.LoaderTS, true
		case ".tsx":
			return esbuild.LoaderTSX, true
		case ".json":
			return esbuild.LoaderJSON, true
		default:
			return esbuild.LoaderJS, true
		}
	case config.AssetStylesheet:
		if ext == ".css" {
			return esbuild.LoaderCSS, true
		}

		return esbuild.LoaderNone, false
	case config.AssetMedia, config.AssetFont:
		return esbuild.LoaderFile, true
	default:
		return esbuild.LoaderNone, false
	}
}

// namePattern converts a naming template into an esbuild name pattern:
// esbuild appends the extension itself and spells the hash "[hash]".
func namePattern(n plan.OutputName) string {
	pattern := strings.TrimSuffix(n.Template, "."+n.Ext)

	if n.Hashed {
		pattern = strings.ReplaceAll(pattern, n.HashToken, "[hash]")
	}

	return pattern
}

func entryPath(srcDir, mod string) string {
	if strings.HasPrefix(mod, ".") || filepath.IsAbs(mod) {
		return filepath.Join(srcDir, mod)
	}

	return mod
}

// entryPlugin serves a synthetic module importing every module of a
// multi-module entry, in declared order.
func entryPlugin(entries map[string][]string, resolveDir string) esbuild.Plugin {
	return esbuild.Plugin{
		Name: entryNamespace,
		Setup: func(build esbuild.PluginBuild) {
			build.OnResolve(esbuild.OnResolveOptions{Filter: "^" + entryNamespace + ":"},
				func(args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
					return esbuild.OnResolveResult{
						Path:      strings.TrimPrefix(args.Path, entryNamespace+":"),
						Namespace: entryNamespace,
					}, nil
				})

			build.OnLoad(esbuild.OnLoadOptions{Filter: ".*", Namespace: entryNamespace},
				func(args esbuild.OnLoadArgs) (esbuild.OnLoadResult, error) {
					mods, ok := entries[args.Path]
					if !ok {
						return esbuild.OnLoadResult{}, fmt.Errorf("unknown entry %q", args.Path)
					}

					var b strings.Builder
					for _, m := range mods {
						fmt.Fprintf(&b, "import %q;\n", m)
					}

					contents := b.String()

					return esbuild.OnLoadResult{
						Contents:   &contents,
						ResolveDir: resolveDir,
						Loader:     esbuild.LoaderJS,
					}, nil
				})
		},
	}
}
