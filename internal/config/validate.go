package config

import (
	"errors"
	"fmt"
	"strings"

	"assetplan/internal/common"
	"assetplan/internal/diagnostic"
	"assetplan/internal/match"
)

// Validate checks a pipeline file for structural problems. It does not know
// which stage or plugin names an engine supports; names are opaque here.
func Validate(pf *PipelineFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if pf == nil {
		res.AddError("pipeline_is_nil", "pipeline file is nil", "", "")
		return res
	}

	if len(pf.Entry) == 0 {
		res.AddWarning("no_entries", "no entry points declared", "entry", "")
	}

	for i := range pf.Rules {
		validateRule(res, fmt.Sprintf("rules[%d]", i), &pf.Rules[i])
	}

	validatePlugins(res, "plugins", pf.Plugins)
	validatePlugins(res, "optimization.minimizers", pf.Optimization.Minimizers)
	validateNaming(res, pf.Naming)

	if pf.DevServer.Port != 0 && !common.IsInRange(1, pf.DevServer.Port, 65535) {
		res.AddError("invalid_port", fmt.Sprintf("dev server port %d is outside 1..65535", pf.DevServer.Port),
			"dev_server", "port")
	}

	switch pf.Optimization.SplitChunks {
	case "", "all", "async":
	default:
		res.AddError("invalid_split_chunks",
			fmt.Sprintf("split_chunks %q (expected all or async)", pf.Optimization.SplitChunks),
			"optimization", "split_chunks")
	}

	return res
}

func validateRule(res *diagnostic.Diagnostics, scope string, r *Rule) {
	if _, err := r.Compile(); err != nil {
		code := "malformed_matcher"

		switch {
		case errors.Is(err, ErrMissingMatcher):
			code = "missing_matcher"
		case errors.Is(err, ErrAmbiguousMatcher):
			code = "ambiguous_matcher"
		}

		res.AddError(code, err.Error(), scope, r.Pattern())
	}

	if common.IsEmpty(r.Use) {
		res.AddWarning("empty_chain", "rule has no stages", scope, r.Pattern())
	}

	for j := range r.Use {
		st := &r.Use[j]
		stScope := fmt.Sprintf("%s.use[%d]", scope, j)

		if strings.TrimSpace(st.Name) == "" {
			res.AddError("empty_stage_name", "stage name is empty", stScope, "")
		}

		if !st.When.IsValid() {
			res.AddError("unknown_condition", fmt.Sprintf("unknown condition %q", st.When), stScope, st.Name).
				WithSuggestions(match.Suggest(string(st.When), ConditionNames)...)
		}
	}
}

func validatePlugins(res *diagnostic.Diagnostics, scope string, plugins []PluginRef) {
	seen := map[string]Condition{}

	for i := range plugins {
		p := &plugins[i]
		pScope := fmt.Sprintf("%s[%d]", scope, i)

		if strings.TrimSpace(p.Name) == "" {
			res.AddError("empty_plugin_name", "plugin name is empty", pScope, "")
			continue
		}

		if !p.When.IsValid() {
			res.AddError("unknown_condition", fmt.Sprintf("unknown condition %q", p.When), pScope, p.Name).
				WithSuggestions(match.Suggest(string(p.When), ConditionNames)...)
		}

		if p.Phase != "" && !p.Phase.IsValid() {
			res.AddError("unknown_phase",
				fmt.Sprintf("unknown phase %q (expected before-build or after-emit)", p.Phase), pScope, p.Name).
				WithSuggestions(match.Suggest(string(p.Phase), PhaseNames)...)
		}

		// Same name under mutually exclusive conditions is a legitimate per-mode variant.
		if prev, ok := seen[p.Name]; ok && overlaps(prev, p.When) {
			res.AddWarning("duplicate_plugin", fmt.Sprintf("plugin %q declared more than once", p.Name), pScope, p.Name)
		}

		seen[p.Name] = p.When
	}
}

func overlaps(a, b Condition) bool {
	for _, m := range Modes {
		if a.Holds(m) && b.Holds(m) {
			return true
		}
	}

	return false
}

func validateNaming(res *diagnostic.Diagnostics, rules []NamingRule) {
	seen := map[AssetClass]bool{}

	for i := range rules {
		n := &rules[i]
		scope := fmt.Sprintf("naming[%d]", i)

		if n.Class == AssetUnspecified {
			res.AddError("missing_asset_class", "naming rule has no asset class", scope, "")
			continue
		}

		if seen[n.Class] {
			res.AddError("duplicate_naming", fmt.Sprintf("asset class %s named more than once", n.Class), scope, n.Class.String())
		}

		seen[n.Class] = true

		// A hash in the stem would leak into development names.
		if token, ok := n.HashPlaceholder(); ok {
			res.AddError("hash_in_stem",
				fmt.Sprintf("hash token %s must not appear in stem or ext", token), scope, n.Class.String())
		}
	}
}
