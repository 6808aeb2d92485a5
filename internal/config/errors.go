package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMode is returned for a build mode outside the enumeration.
	ErrUnknownMode = errors.New("unknown build mode")
	// ErrMalformedMatcher is returned when a rule pattern cannot be compiled.
	ErrMalformedMatcher = errors.New("malformed matcher")
	// ErrMissingMatcher is returned when a rule has neither test nor glob.
	ErrMissingMatcher = errors.New("rule has no matcher")
	// ErrAmbiguousMatcher is returned when a rule sets both test and glob.
	ErrAmbiguousMatcher = errors.New("rule sets both test and glob")
	// ErrUnknownCondition is returned for a "when" value outside the enumeration.
	ErrUnknownCondition = errors.New("unknown condition")
	// ErrUnknownPhase is returned for a plugin phase outside the enumeration.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrHashInStem is returned when a naming stem embeds the hash token.
	ErrHashInStem = errors.New("hash token in naming stem")
)

// ConfigurationError reports a declaration that makes a build plan impossible.
// It is always fatal to resolution.
type ConfigurationError struct {
	// Scope locates the offending declaration, e.g. "mode" or "rules[2].test".
	Scope string
	// Value is the offending value as written.
	Value string
	// Err is the underlying cause, usually one of the sentinel errors above.
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %q: %v", e.Scope, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
