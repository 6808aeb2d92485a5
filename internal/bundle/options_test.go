package bundle

import (
	"path/filepath"
	"testing"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetplan/internal/config"
	"assetplan/internal/plan"
)

func resolveDefault(t *testing.T, mode config.Mode) *plan.ResolvedPlan {
	t.Helper()

	p, err := plan.NewResolver(config.Default()).Resolve(mode)
	require.NoError(t, err)

	return p
}

func TestBuildOptionsDevelopment(t *testing.T) {
	workDir := t.TempDir()

	opts, diags, err := BuildOptions(resolveDefault(t, config.ModeDevelopment), workDir)
	require.NoError(t, err)

	assert.False(t, opts.MinifyWhitespace)
	assert.False(t, opts.MinifyIdentifiers)
	assert.False(t, opts.MinifySyntax)
	assert.Equal(t, esbuild.SourceMapLinked, opts.Sourcemap)
	assert.Equal(t, "[name]", opts.EntryNames)
	assert.Equal(t, "[name]", opts.AssetNames)
	assert.False(t, opts.Metafile)
	assert.True(t, opts.Splitting)
	assert.Equal(t, esbuild.FormatESModule, opts.Format)
	assert.Equal(t, filepath.Join(workDir, "dist"), opts.Outdir)
	assert.Equal(t, []string{".js", ".json", ".jsx"}, opts.ResolveExtensions)
	assert.Equal(t, filepath.Join(workDir, "src"), opts.Alias["@"])

	require.Len(t, opts.EntryPointsAdvanced, 1)
	assert.Equal(t, filepath.Join(workDir, "src", "js", "index.js"), opts.EntryPointsAdvanced[0].InputPath)
	assert.Equal(t, "main", opts.EntryPointsAdvanced[0].OutputPath)

	assert.Equal(t, esbuild.LoaderCSS, opts.Loader[".css"])
	assert.Equal(t, esbuild.LoaderJS, opts.Loader[".js"])
	assert.Equal(t, esbuild.LoaderTS, opts.Loader[".ts"])
	assert.Equal(t, esbuild.LoaderJSX, opts.Loader[".jsx"])
	assert.Equal(t, esbuild.LoaderFile, opts.Loader[".png"])
	assert.Equal(t, esbuild.LoaderFile, opts.Loader[".woff2"])
	assert.NotContains(t, opts.Loader, ".scss", "sass has no esbuild loader")
	assert.NotContains(t, opts.Loader, ".tsx", "no rule matches tsx")

	assert.NotEmpty(t, diags.ByCode("unsupported_file_type"))
}

func TestBuildOptionsProduction(t *testing.T) {
	opts, _, err := BuildOptions(resolveDefault(t, config.ModeProduction), t.TempDir())
	require.NoError(t, err)

	assert.True(t, opts.MinifyWhitespace)
	assert.True(t, opts.MinifyIdentifiers)
	assert.True(t, opts.MinifySyntax)
	assert.Equal(t, esbuild.SourceMapNone, opts.Sourcemap)
	assert.Equal(t, "[name].[hash]", opts.EntryNames)
	assert.Equal(t, "[name].[hash]", opts.AssetNames)
	assert.True(t, opts.Metafile, "bundle-analyzer needs a metafile")
}

func TestBuildOptionsRelativeWorkDir(t *testing.T) {
	_, _, err := BuildOptions(resolveDefault(t, config.ModeDevelopment), "relative/dir")
	assert.Error(t, err)
}

func TestBuildOptionsMultiModuleEntry(t *testing.T) {
	pf := &config.PipelineFile{
		Context: "src",
		Entry: map[string]config.StringOrArray{
			"main":   {"./polyfills.js", "./index.js"},
			"vendor": {"preact"},
		},
		Naming: []config.NamingRule{{Class: config.AssetScript, Ext: "mjs"}},
	}

	p, err := plan.NewResolver(pf).Resolve(config.ModeDevelopment)
	require.NoError(t, err)

	opts, _, err := BuildOptions(p, t.TempDir())
	require.NoError(t, err)

	require.Len(t, opts.EntryPointsAdvanced, 2)
	assert.Equal(t, entryNamespace+":main", opts.EntryPointsAdvanced[0].InputPath)
	assert.Equal(t, "preact", opts.EntryPointsAdvanced[1].InputPath)
	require.Len(t, opts.Plugins, 1)
	assert.Equal(t, map[string]string{".js": ".mjs"}, opts.OutExtension)
	assert.Equal(t, esbuild.FormatIIFE, opts.Format)
}

func TestNamePattern(t *testing.T) {
	tests := []struct {
		name plan.OutputName
		want string
	}{
		{name: plan.OutputName{Template: "[name].js", Ext: "js"}, want: "[name]"},
		{name: plan.OutputName{Template: "[name].[contenthash].js", Ext: "js", Hashed: true, HashToken: "[contenthash]"}, want: "[name].[hash]"},
		{name: plan.OutputName{Template: "[name].[contenthash].[ext]", Ext: "[ext]", Hashed: true, HashToken: "[contenthash]"}, want: "[name].[hash]"},
		{name: plan.OutputName{Template: "js/[name].[hash:8].mjs", Ext: "mjs", Hashed: true, HashToken: "[hash:8]"}, want: "js/[name].[hash]"},
	}

	for _, tt := range tests {
		t.Run(tt.name.Template, func(t *testing.T) {
			assert.Equal(t, tt.want, namePattern(tt.name))
		})
	}
}
