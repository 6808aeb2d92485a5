package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func runCLI(t *testing.T, vars map[string]string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	code := runWithArgs(context.Background(), args, env(vars), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestUsage(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI(t, nil)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: assetplan")

	code, _, stderr = runCLI(t, nil, "serve")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "serve"`)

	code, stdout, _ := runCLI(t, nil, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Commands:")

	code, _, _ = runCLI(t, nil, "resolve", "-bogus")
	assert.Equal(t, 2, code)

	code, _, stderr = runCLI(t, nil, "resolve", "extra")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unexpected arguments")
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, nil, "defaults")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "rules:")
	assert.Contains(t, stdout, "plugins:")
}

func TestResolveModeSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		args []string
		want string
	}{
		{name: "unset", want: "mode: development"},
		{name: "empty env", vars: map[string]string{"NODE_ENV": ""}, want: "mode: development"},
		{name: "env", vars: map[string]string{"NODE_ENV": "production"}, want: "mode: production"},
		{
			name: "flag over env",
			vars: map[string]string{"NODE_ENV": "production"},
			args: []string{"-mode", "development"},
			want: "mode: development",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := runCLI(t, tt.vars, append([]string{"resolve"}, tt.args...)...)
			require.Equal(t, 0, code, stderr)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestResolveInvalidMode(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCLI(t, map[string]string{"NODE_ENV": "staging"}, "resolve")
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "NODE_ENV")

	code, _, stderr = runCLI(t, nil, "resolve", "-mode", "test")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "configuration error")
}

func TestResolveSummaryAndDump(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, nil, "resolve", "-mode", "production", "-summary")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "mode: production")
	assert.Contains(t, stdout, "bundle-analyzer")

	code, stdout, _ = runCLI(t, nil, "resolve", "-mode", "development", "-summary")
	require.Equal(t, 0, code)
	assert.NotContains(t, stdout, "bundle-analyzer")

	code, stdout, _ = runCLI(t, nil, "resolve", "-dump")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "plan.ResolvedPlan")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCLI(t, nil, "check", "-mode", "production")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "ok:")

	dir := t.TempDir()
	bad := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rules:\n  - test: '\\.(css'\n    use: [css]\n"), 0644))

	code, _, stderr = runCLI(t, nil, "check", "-config", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "error: [rules[0]]")
	assert.Contains(t, stderr, "malformed_matcher")

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("plugins: [sprite-sheet]\n"), 0644))

	code, _, stderr = runCLI(t, nil, "check", "-config", unknown)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown plugin")

	code, _, stderr = runCLI(t, nil, "check", "-config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"pipeline.yaml": "context: src\nentry:\n  app: ./index.js\nrules:\n  - test: '\\.js$'\n    class: script\n    use: [babel]\nplugins:\n  - html\n",
		"src/index.js":  "console.log('built');\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	code, stdout, stderr := runCLI(t, nil,
		"build", "-config", filepath.Join(dir, "pipeline.yaml"), "-dir", dir, "-mode", "development")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "app.js\n")
	assert.Contains(t, stdout, "index.html\n")
	assert.Contains(t, stderr, "assetplan: after-emit: html")

	_, err := os.Stat(filepath.Join(dir, "dist", "app.js"))
	require.NoError(t, err)
}

func TestDiagnosticsOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("rules:\n  - test: '\\.(css'\n    use: []\n  - use: [js]\n"), 0644))

	for _, cmd := range []string{"check", "resolve", "build"} {
		code, stdout, stderr := runCLI(t, nil, cmd, "-config", cfg)
		assert.Equal(t, 1, code, cmd)
		assert.Empty(t, stdout, cmd)

		lines := strings.Split(strings.TrimSpace(stderr), "\n")
		require.NotEmpty(t, lines, cmd)

		last := lines[len(lines)-1]
		assert.True(t, strings.HasPrefix(last, "error: [rules[0]]"), last)
		assert.Contains(t, last, "; [rules[1]]")
		assert.Contains(t, last, "missing_matcher")
		assert.Contains(t, stderr, "warning: [entry]: [no_entries]")
		assert.Contains(t, stderr, "empty_chain")
	}
}
