package plan

import (
	"errors"
	"fmt"

	"assetplan/internal/common"
	"assetplan/internal/config"
	"assetplan/internal/diagnostic"
)

// DevtoolSourceMap is the devtool used for development builds.
const DevtoolSourceMap = "source-map"

// Resolver performs the resolution pipeline over one set of declarations.
// It never modifies the declarations and is safe for concurrent use.
type Resolver struct {
	pipeline *config.PipelineFile
}

// NewResolver creates a new Resolver.
func NewResolver(pipeline *config.PipelineFile) *Resolver {
	return &Resolver{pipeline: pipeline}
}

// Resolve resolves bare rules and plugins for mode, using default naming rules.
func Resolve(mode config.Mode, rules []config.Rule, plugins []config.PluginRef) (*ResolvedPlan, error) {
	return NewResolver(&config.PipelineFile{Rules: rules, Plugins: plugins}).Resolve(mode)
}

// Resolve runs the full resolution pipeline and returns a ResolvedPlan.
// Any *config.ConfigurationError aborts resolution; no partial plan is returned.
func (r *Resolver) Resolve(mode config.Mode) (*ResolvedPlan, error) {
	if !mode.Valid() {
		return nil, &config.ConfigurationError{Scope: "mode", Value: string(mode), Err: config.ErrUnknownMode}
	}

	if r.pipeline == nil {
		return nil, errors.New("pipeline declarations are required")
	}

	pf := r.pipeline
	plan := &ResolvedPlan{
		Mode:    mode,
		Context: pf.Context,
		Entry:   copyEntry(pf.Entry),
		Output:  pf.Output,
		Resolve: config.Resolve{
			Extensions: append([]string(nil), pf.Resolve.Extensions...),
			Alias:      copyStrings(pf.Resolve.Alias),
		},
		Chains:  make([]ResolvedChain, 0, len(pf.Rules)),
		Plugins: []ResolvedPlugin{},
	}

	for i := range pf.Rules {
		chain, err := resolveRule(i, &pf.Rules[i], mode, &plan.Diagnostics)
		if err != nil {
			return nil, err
		}

		plan.Chains = append(plan.Chains, chain)
	}

	plugins, err := resolvePlugins("plugins", pf.Plugins, mode, &plan.Diagnostics)
	if err != nil {
		return nil, err
	}

	plan.Plugins = plugins

	minimizers, err := resolvePlugins("optimization.minimizers", pf.Optimization.Minimizers, mode, &plan.Diagnostics)
	if err != nil {
		return nil, err
	}

	plan.Optimization = Optimization{SplitChunks: pf.Optimization.SplitChunks, Minimizers: minimizers}

	naming, err := resolveNaming(pf, mode)
	if err != nil {
		return nil, err
	}

	plan.Naming = naming

	if mode.IsDevelopment() {
		plan.Devtool = DevtoolSourceMap
	}

	port := pf.DevServer.Port
	if port == 0 {
		port = config.DefaultPort
	}

	plan.DevServer = DevServer{
		Port:     port,
		Open:     pf.DevServer.Open,
		Compress: pf.DevServer.Compress,
		Hot:      mode.IsDevelopment(),
	}

	return plan, nil
}

// resolveRule compiles a rule's matcher and filters its stage chain.
func resolveRule(
	index int,
	rule *config.Rule,
	mode config.Mode,
	diags *diagnostic.Diagnostics,
) (ResolvedChain, error) {
	scope := fmt.Sprintf("rules[%d]", index)

	matcher, err := rule.Compile()
	if err != nil {
		return ResolvedChain{}, rescope(err, scope)
	}

	for j := range rule.Use {
		if !rule.Use[j].When.IsValid() {
			return ResolvedChain{}, &config.ConfigurationError{
				Scope: fmt.Sprintf("%s.use[%d].when", scope, j),
				Value: string(rule.Use[j].When),
				Err:   config.ErrUnknownCondition,
			}
		}
	}

	active := common.Filter(rule.Use, func(s config.StageRef) bool {
		if s.When.Holds(mode) {
			return true
		}

		diags.AddInfo("stage_omitted", fmt.Sprintf("stage %q omitted in %s (when: %s)", s.Name, mode, s.When), scope, s.Name)

		return false
	})

	stages := common.Map(active, func(s config.StageRef) ResolvedStage {
		return ResolvedStage{
			Name:    s.Name,
			Options: resolveOptions(s.Options, s.Production, s.Development, mode),
		}
	})

	return ResolvedChain{
		Rule:    index,
		Pattern: rule.Pattern(),
		Exclude: rule.Exclude,
		Class:   rule.Class,
		Stages:  stages,
		matcher: matcher,
	}, nil
}

// resolvePlugins filters plugins by condition, preserving declared order.
func resolvePlugins(
	scope string,
	plugins []config.PluginRef,
	mode config.Mode,
	diags *diagnostic.Diagnostics,
) ([]ResolvedPlugin, error) {
	for i := range plugins {
		if !plugins[i].When.IsValid() {
			return nil, &config.ConfigurationError{
				Scope: fmt.Sprintf("%s[%d].when", scope, i),
				Value: string(plugins[i].When),
				Err:   config.ErrUnknownCondition,
			}
		}

		if plugins[i].Phase != "" && !plugins[i].Phase.IsValid() {
			return nil, &config.ConfigurationError{
				Scope: fmt.Sprintf("%s[%d].phase", scope, i),
				Value: string(plugins[i].Phase),
				Err:   config.ErrUnknownPhase,
			}
		}
	}

	active := common.Filter(plugins, func(p config.PluginRef) bool {
		if p.When.Holds(mode) {
			return true
		}

		diags.AddInfo("plugin_omitted", fmt.Sprintf("plugin %q omitted in %s (when: %s)", p.Name, mode, p.When), scope, p.Name)

		return false
	})

	return common.Map(active, func(p config.PluginRef) ResolvedPlugin {
		phase := p.Phase
		if phase == "" {
			phase = config.PhaseAfterEmit
		}

		return ResolvedPlugin{
			Name:    p.Name,
			Phase:   phase,
			Options: resolveOptions(p.Options, p.Production, p.Development, mode),
		}
	}), nil
}

// resolveNaming returns one template per asset class, falling back to defaults
// for classes without a declared rule.
func resolveNaming(pf *config.PipelineFile, mode config.Mode) ([]OutputName, error) {
	out := make([]OutputName, 0, len(config.AssetClasses))

	for _, class := range config.AssetClasses {
		n, ok := pf.NamingFor(class)
		if !ok {
			n = config.NamingRule{Class: class, Ext: config.DefaultExt[class]}
		}

		if _, ok := n.HashPlaceholder(); ok {
			return nil, &config.ConfigurationError{
				Scope: fmt.Sprintf("naming.%s.stem", class),
				Value: n.Stem + "." + n.Ext,
				Err:   config.ErrHashInStem,
			}
		}

		out = append(out, resolveName(n, mode))
	}

	return out, nil
}

// rescope prefixes the scope of a configuration error with the rule location.
func rescope(err error, scope string) error {
	var ce *config.ConfigurationError
	if errors.As(err, &ce) {
		return &config.ConfigurationError{Scope: scope + "." + ce.Scope, Value: ce.Value, Err: ce.Err}
	}

	return fmt.Errorf("%s: %w", scope, err)
}

func copyEntry(in map[string]config.StringOrArray) map[string][]string {
	if len(in) == 0 {
		return nil
	}

	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}

	return out
}

func copyStrings(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}

	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}
