package plan

import (
	"assetplan/internal/config"
	"assetplan/internal/diagnostic"
)

// ResolvedPlan is the final output of the resolution pipeline.
// It shares no memory with the declarations it was built from and must be
// treated as read-only by consumers.
type ResolvedPlan struct {
	// Mode is the build mode the plan was resolved for.
	Mode config.Mode `yaml:"mode"`
	// Context is the source directory entries and rule paths are relative to.
	Context string `yaml:"context,omitempty"`
	// Entry maps chunk names to their entry modules.
	Entry map[string][]string `yaml:"entry,omitempty"`
	// Output is the output directory configuration.
	Output config.Output `yaml:"output,omitempty"`
	// Resolve is the module resolution configuration.
	Resolve config.Resolve `yaml:"resolve,omitempty"`
	// Chains holds one stage chain per declared rule, in declaration order.
	Chains []ResolvedChain `yaml:"chains"`
	// Plugins are the active whole-build hooks in declaration order.
	Plugins []ResolvedPlugin `yaml:"plugins"`
	// Naming holds one output naming template per asset class.
	Naming []OutputName `yaml:"naming"`
	// Devtool is the source map style, empty when source maps are off.
	Devtool string `yaml:"devtool,omitempty"`
	// Optimization holds the resolved chunking and minimizer settings.
	Optimization Optimization `yaml:"optimization"`
	// DevServer holds the mode-derived dev server settings.
	DevServer DevServer `yaml:"dev_server"`
	// Diagnostics records what resolution omitted and why.
	Diagnostics diagnostic.Diagnostics `yaml:"-"`
}

// ResolvedChain is the stage chain of one rule after conditions are applied.
type ResolvedChain struct {
	// Rule is the index of the rule in the declarations.
	Rule int `yaml:"rule"`
	// Pattern is the rule's test or glob as declared.
	Pattern string `yaml:"pattern"`
	// Exclude is the rule's exclude pattern as declared.
	Exclude string `yaml:"exclude,omitempty"`
	// Class is the asset class of the files the chain produces.
	Class config.AssetClass `yaml:"class,omitempty"`
	// Stages run in order over a matched file.
	Stages []ResolvedStage `yaml:"stages"`

	matcher *config.Matcher
}

// ResolvedStage is a stage with its options fixed for the build mode.
type ResolvedStage struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// ResolvedPlugin is a plugin with its options fixed for the build mode.
type ResolvedPlugin struct {
	Name    string         `yaml:"name"`
	Phase   config.Phase   `yaml:"phase"`
	Options map[string]any `yaml:"options,omitempty"`
}

// Optimization holds chunk splitting and the active minimizers.
type Optimization struct {
	SplitChunks string           `yaml:"split_chunks,omitempty"`
	Minimizers  []ResolvedPlugin `yaml:"minimizers,omitempty"`
}

// DevServer holds dev server settings. Hot is derived from the build mode.
type DevServer struct {
	Port     int  `yaml:"port"`
	Open     bool `yaml:"open"`
	Compress bool `yaml:"compress"`
	Hot      bool `yaml:"hot"`
}

// Match returns the first chain whose rule selects the file at path.
func (p *ResolvedPlan) Match(path string) (ResolvedChain, bool) {
	for _, c := range p.Chains {
		if c.matcher != nil && c.matcher.Match(path) {
			return c, true
		}
	}

	return ResolvedChain{}, false
}

// ChainsFor returns the chains producing the given asset class, in declaration order.
func (p *ResolvedPlan) ChainsFor(class config.AssetClass) []ResolvedChain {
	var out []ResolvedChain

	for _, c := range p.Chains {
		if c.Class == class {
			out = append(out, c)
		}
	}

	return out
}

// NameFor returns the naming template for an asset class.
func (p *ResolvedPlan) NameFor(class config.AssetClass) (OutputName, bool) {
	for _, n := range p.Naming {
		if n.Class == class {
			return n, true
		}
	}

	return OutputName{}, false
}

// HasPlugin reports whether a plugin with the given name is active.
func (p *ResolvedPlan) HasPlugin(name string) bool {
	_, ok := p.Plugin(name)
	return ok
}

// Plugin returns the first active plugin with the given name.
func (p *ResolvedPlan) Plugin(name string) (ResolvedPlugin, bool) {
	for _, pl := range p.Plugins {
		if pl.Name == name {
			return pl, true
		}
	}

	return ResolvedPlugin{}, false
}

// StageNames returns the chain's stage names in order.
func (c ResolvedChain) StageNames() []string {
	names := make([]string, len(c.Stages))
	for i := range c.Stages {
		names[i] = c.Stages[i].Name
	}

	return names
}

// PluginsIn returns the active plugins for one lifecycle phase, in order.
func (p *ResolvedPlan) PluginsIn(phase config.Phase) []ResolvedPlugin {
	var out []ResolvedPlugin

	for _, pl := range p.Plugins {
		if pl.Phase == phase {
			out = append(out, pl)
		}
	}

	return out
}
