package config

import (
	"fmt"
)

// EnvVar is the environment variable that selects the build mode.
const EnvVar = "NODE_ENV"

// Mode is the build mode a pipeline is resolved for.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Modes lists every valid build mode.
var Modes = []Mode{ModeDevelopment, ModeProduction}

// Valid reports whether m is one of the enumerated modes.
func (m Mode) Valid() bool {
	return m == ModeDevelopment || m == ModeProduction
}

// IsProduction reports whether m minifies and hashes output names.
func (m Mode) IsProduction() bool { return m == ModeProduction }

// IsDevelopment reports whether m keeps source maps and stable names.
func (m Mode) IsDevelopment() bool { return m == ModeDevelopment }

// ParseMode converts s into a Mode. Anything outside the enumeration is a
// *ConfigurationError wrapping ErrUnknownMode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", &ConfigurationError{Scope: "mode", Value: s, Err: ErrUnknownMode}
	}

	return m, nil
}

// ModeFromEnv reads the build mode from EnvVar using lookup (usually os.LookupEnv).
// An unset or empty variable selects development. A set variable with an
// unknown value is an error rather than a silent fallback.
func ModeFromEnv(lookup func(string) (string, bool)) (Mode, error) {
	v, ok := lookup(EnvVar)
	if !ok || v == "" {
		return ModeDevelopment, nil
	}

	m, err := ParseMode(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", EnvVar, err)
	}

	return m, nil
}

// Condition restricts a stage or plugin to a build mode.
type Condition string

const (
	ConditionAlways      Condition = "always"
	ConditionDevelopment Condition = "development"
	ConditionProduction  Condition = "production"
)

// ConditionNames lists the accepted condition spellings.
var ConditionNames = []string{string(ConditionAlways), string(ConditionDevelopment), string(ConditionProduction)}

// IsValid reports whether c is empty or one of the known conditions.
func (c Condition) IsValid() bool {
	switch c {
	case "", ConditionAlways, ConditionDevelopment, ConditionProduction:
		return true
	default:
		return false
	}
}

// Holds reports whether the condition is satisfied in mode m.
// An empty condition always holds.
func (c Condition) Holds(m Mode) bool {
	switch c {
	case "", ConditionAlways:
		return true
	case ConditionDevelopment:
		return m == ModeDevelopment
	case ConditionProduction:
		return m == ModeProduction
	default:
		return false
	}
}

// Phase is the build lifecycle point at which a plugin runs.
type Phase string

const (
	PhaseBeforeBuild Phase = "before-build"
	PhaseAfterEmit   Phase = "after-emit"
)

// PhaseNames lists the accepted phase spellings.
var PhaseNames = []string{string(PhaseBeforeBuild), string(PhaseAfterEmit)}

// IsValid reports whether p is one of the known phases.
func (p Phase) IsValid() bool {
	return p == PhaseBeforeBuild || p == PhaseAfterEmit
}
