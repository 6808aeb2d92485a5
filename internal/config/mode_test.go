package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestModeFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    Mode
		wantErr bool
	}{
		{name: "unset defaults to development", vars: nil, want: ModeDevelopment},
		{name: "empty defaults to development", vars: map[string]string{EnvVar: ""}, want: ModeDevelopment},
		{name: "development", vars: map[string]string{EnvVar: "development"}, want: ModeDevelopment},
		{name: "production", vars: map[string]string{EnvVar: "production"}, want: ModeProduction},
		{name: "unknown value", vars: map[string]string{EnvVar: "staging"}, wantErr: true},
		{name: "case sensitive", vars: map[string]string{EnvVar: "Production"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ModeFromEnv(env(tt.vars))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigurationError(err))
				assert.True(t, errors.Is(err, ErrUnknownMode))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	for _, bad := range []string{"", "dev", "prod", "test", " production"} {
		_, err := ParseMode(bad)

		var ce *ConfigurationError
		require.ErrorAs(t, err, &ce, bad)
		assert.Equal(t, "mode", ce.Scope)
		assert.Equal(t, bad, ce.Value)
	}
}

func TestModePredicates(t *testing.T) {
	assert.True(t, ModeProduction.IsProduction())
	assert.False(t, ModeProduction.IsDevelopment())
	assert.True(t, ModeDevelopment.IsDevelopment())
	assert.False(t, ModeDevelopment.IsProduction())
	assert.False(t, Mode("test").IsProduction())
	assert.False(t, Mode("test").IsDevelopment())
}

func TestConditionHolds(t *testing.T) {
	tests := []struct {
		cond      Condition
		dev, prod bool
	}{
		{cond: "", dev: true, prod: true},
		{cond: ConditionAlways, dev: true, prod: true},
		{cond: ConditionDevelopment, dev: true, prod: false},
		{cond: ConditionProduction, dev: false, prod: true},
		{cond: "staging", dev: false, prod: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.cond), func(t *testing.T) {
			assert.Equal(t, tt.dev, tt.cond.Holds(ModeDevelopment))
			assert.Equal(t, tt.prod, tt.cond.Holds(ModeProduction))
		})
	}
}

func TestAssetClassNames(t *testing.T) {
	for _, c := range AssetClasses {
		parsed, err := ParseAssetClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	assert.Equal(t, "stylesheet", AssetStylesheet.String())
	assert.Equal(t, "AssetClass(9)", AssetClass(9).String())

	_, err := ParseAssetClass("video")
	assert.Error(t, err)
}
