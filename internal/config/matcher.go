package config

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
)

// Matcher is a compiled rule matcher. It is safe for concurrent use.
type Matcher struct {
	test    *regexp.Regexp
	glob    string
	exclude *regexp.Regexp
}

// Compile compiles the rule's test/glob and exclude patterns.
// Any malformed or missing pattern is a *ConfigurationError.
func (r *Rule) Compile() (*Matcher, error) {
	m := &Matcher{}

	switch {
	case r.Test != "" && r.Glob != "":
		return nil, &ConfigurationError{Scope: "test", Value: r.Test, Err: ErrAmbiguousMatcher}

	case r.Test != "":
		re, err := regexp.Compile(r.Test)
		if err != nil {
			return nil, &ConfigurationError{Scope: "test", Value: r.Test, Err: fmt.Errorf("%w: %w", ErrMalformedMatcher, err)}
		}

		m.test = re

	case r.Glob != "":
		// path.Match only reports ErrBadPattern while scanning, so match the pattern against itself.
		if _, err := path.Match(r.Glob, r.Glob); err != nil {
			return nil, &ConfigurationError{Scope: "glob", Value: r.Glob, Err: fmt.Errorf("%w: %w", ErrMalformedMatcher, err)}
		}

		m.glob = r.Glob

	default:
		return nil, &ConfigurationError{Scope: "test", Value: "", Err: ErrMissingMatcher}
	}

	if r.Exclude != "" {
		re, err := regexp.Compile(r.Exclude)
		if err != nil {
			return nil, &ConfigurationError{Scope: "exclude", Value: r.Exclude, Err: fmt.Errorf("%w: %w", ErrMalformedMatcher, err)}
		}

		m.exclude = re
	}

	return m, nil
}

// Match reports whether the file at p is selected by the rule.
// Paths are compared in slash form.
func (m *Matcher) Match(p string) bool {
	p = filepath.ToSlash(p)

	if m.exclude != nil && m.exclude.MatchString(p) {
		return false
	}

	if m.test != nil {
		return m.test.MatchString(p)
	}

	ok, err := path.Match(m.glob, path.Base(p))

	return err == nil && ok
}
