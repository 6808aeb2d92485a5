package plan

import (
	"assetplan/internal/common"
	"assetplan/internal/config"
)

// SourceMapKey is forced to true in development wherever a stage or plugin declares it.
const SourceMapKey = "sourceMap"

// MinifyKeys are options that only mean something in production builds.
// They are dropped, at any depth, from development options.
var MinifyKeys = map[string]bool{
	"minify":             true,
	"minimize":           true,
	"collapseWhitespace": true,
	"mangle":             true,
}

// resolveOptions builds the self-contained option map of one stage or plugin.
func resolveOptions(base, production, development map[string]any, mode config.Mode) map[string]any {
	opts := common.CloneMap(base)

	switch mode {
	case config.ModeProduction:
		common.MergeMaps(opts, production)
	case config.ModeDevelopment:
		common.MergeMaps(opts, development)
		applyDevelopmentOverrides(opts)
	}

	if len(opts) == 0 {
		return nil
	}

	return opts
}

func applyDevelopmentOverrides(opts map[string]any) {
	for k, v := range opts {
		if MinifyKeys[k] {
			delete(opts, k)
			continue
		}

		if k == SourceMapKey {
			opts[k] = true
			continue
		}

		applyDevelopmentOverridesValue(v)
	}
}

func applyDevelopmentOverridesValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		applyDevelopmentOverrides(t)
	case []any:
		for _, e := range t {
			applyDevelopmentOverridesValue(e)
		}
	}
}
