package config

import (
	"regexp"
	"strings"
)

// PipelineFile is the root of a pipeline declaration file.
type PipelineFile struct {
	// Version is the schema version (currently "1").
	Version string `yaml:"version"`
	// Context is the directory entry points and rule paths are relative to.
	Context string `yaml:"context,omitempty"`
	// Entry maps a chunk name to one or more entry modules.
	Entry map[string]StringOrArray `yaml:"entry,omitempty"`
	// Output describes where emitted files go.
	Output Output `yaml:"output,omitempty"`
	// Resolve configures module resolution for the engine.
	Resolve Resolve `yaml:"resolve,omitempty"`
	// Rules are the per file type stage chains, first match wins.
	Rules []Rule `yaml:"rules,omitempty"`
	// Plugins are whole-build hooks in declaration order.
	Plugins []PluginRef `yaml:"plugins,omitempty"`
	// Naming holds one output naming rule per asset class.
	Naming []NamingRule `yaml:"naming,omitempty"`
	// Optimization controls chunk splitting and minimizers.
	Optimization Optimization `yaml:"optimization,omitempty"`
	// DevServer holds the static dev server settings.
	DevServer DevServer `yaml:"dev_server,omitempty"`
}

// Rule is a file type rule: a matcher plus the ordered stage chain
// applied to every file it matches.
type Rule struct {
	// Test is an RE2 regular expression matched against the file path.
	Test string `yaml:"test,omitempty"`
	// Glob is a path.Match pattern matched against the file's base name.
	Glob string `yaml:"glob,omitempty"`
	// Exclude skips files whose path matches this regular expression.
	Exclude string `yaml:"exclude,omitempty"`
	// Class is the asset class of the files this rule produces.
	Class AssetClass `yaml:"class,omitempty"`
	// Use is the stage chain in execution order.
	Use []StageRef `yaml:"use"`
}

// Pattern returns the rule's matcher source as written.
func (r *Rule) Pattern() string {
	if r.Test != "" {
		return r.Test
	}

	return r.Glob
}

// StageRef references a per-file transformation stage by name.
type StageRef struct {
	Name string    `yaml:"name"`
	When Condition `yaml:"when,omitempty"`
	// Options are passed to the stage in every mode.
	Options map[string]any `yaml:"options,omitempty"`
	// Production is merged over Options in production mode.
	Production map[string]any `yaml:"production,omitempty"`
	// Development is merged over Options in development mode.
	Development map[string]any `yaml:"development,omitempty"`
}

// PluginRef references a whole-build hook by name.
type PluginRef struct {
	Name        string         `yaml:"name"`
	When        Condition      `yaml:"when,omitempty"`
	Phase       Phase          `yaml:"phase,omitempty"`
	Options     map[string]any `yaml:"options,omitempty"`
	Production  map[string]any `yaml:"production,omitempty"`
	Development map[string]any `yaml:"development,omitempty"`
}

// NamingRule describes how output files of one asset class are named.
type NamingRule struct {
	Class AssetClass `yaml:"class"`
	// Stem is the file name before the hash, "[name]" by default.
	Stem string `yaml:"stem,omitempty"`
	// Ext is the extension without the leading dot. "[ext]" keeps the source extension.
	Ext string `yaml:"ext"`
	// HashToken is the content hash placeholder, "[contenthash]" by default.
	HashToken string `yaml:"hash_token,omitempty"`
}

// Output describes the output directory.
type Output struct {
	Path       string `yaml:"path,omitempty"`
	PublicPath string `yaml:"public_path,omitempty"`
}

// Resolve configures how the engine resolves module specifiers.
type Resolve struct {
	Extensions []string          `yaml:"extensions,omitempty"`
	Alias      map[string]string `yaml:"alias,omitempty"`
}

// Optimization holds chunking and minimizer settings.
type Optimization struct {
	// SplitChunks is "all", "async" or empty for no splitting.
	SplitChunks string `yaml:"split_chunks,omitempty"`
	// Minimizers are resolved like plugins.
	Minimizers []PluginRef `yaml:"minimizers,omitempty"`
}

// DevServer holds dev server settings. Hot reload is derived from the mode.
type DevServer struct {
	Port     int  `yaml:"port,omitempty"`
	Open     bool `yaml:"open,omitempty"`
	Compress bool `yaml:"compress,omitempty"`
}

// StringOrArray is a string or a list of strings in YAML.
type StringOrArray []string

// Default values applied by the loader.
const (
	DefaultVersion   = "1"
	DefaultStem      = "[name]"
	DefaultHashToken = "[contenthash]"
	DefaultPort      = 8080
)

// DefaultExt is the naming extension used for each asset class when none is declared.
var DefaultExt = map[AssetClass]string{
	AssetScript:     "js",
	AssetStylesheet: "css",
	AssetMedia:      "[ext]",
	AssetFont:       "[ext]",
}

// NamingFor returns the naming rule declared for class, if any.
func (pf *PipelineFile) NamingFor(class AssetClass) (NamingRule, bool) {
	for _, n := range pf.Naming {
		if n.Class == class {
			return n, true
		}
	}

	return NamingRule{}, false
}

// hashPlaceholders matches the hash spellings bundlers understand, with an
// optional length: [hash], [contenthash], [chunkhash], [fullhash], [hash:8].
var hashPlaceholders = regexp.MustCompile(`\[(?:content|chunk|full)?hash(?::\d+)?\]`)

// HashPlaceholder returns the first hash placeholder found in the stem or
// ext: the rule's own HashToken (DefaultHashToken when unset) or any
// well-known hash spelling. Either would put a hash into development names.
func (n NamingRule) HashPlaceholder() (string, bool) {
	token := n.HashToken
	if token == "" {
		token = DefaultHashToken
	}

	for _, part := range []string{n.Stem, n.Ext} {
		if strings.Contains(part, token) {
			return token, true
		}

		if found := hashPlaceholders.FindString(part); found != "" {
			return found, true
		}
	}

	return "", false
}
