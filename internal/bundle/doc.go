// Package bundle is a reference engine that consumes a ResolvedPlan.
//
// Module bundling, transpilation and minification are delegated to esbuild.
// The plan decides which loaders apply to which file types (first matching
// chain wins), whether output is minified, whether source maps are written
// and how output files are named. Whole-build plugins are dispatched by name
// to hooks in a Registry at two lifecycle points:
//
//	before-build -> esbuild -> write outputs -> after-emit
//
// Stage and plugin names are opaque to the resolver; this engine is where an
// unsupported plugin name is reported.
package bundle
