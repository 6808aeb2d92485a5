package bundle

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetplan/internal/plan"
)

func TestInjectAssets(t *testing.T) {
	t.Parallel()

	outputs := []string{"chunks/shared-ABC.js", "main.css", "main.js", "main.js.map"}

	tests := []struct {
		name       string
		publicPath string
		module     bool
		want       []string
	}{
		{
			name: "defer scripts",
			want: []string{
				`<link rel="stylesheet" href="main.css">`,
				`<script defer src="main.js"></script>`,
			},
		},
		{
			name:   "module scripts",
			module: true,
			want:   []string{`<script type="module" src="main.js"></script>`},
		},
		{
			name:       "public path",
			publicPath: "/static/",
			want: []string{
				`<link rel="stylesheet" href="/static/main.css">`,
				`<script defer src="/static/main.js"></script>`,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := injectAssets(defaultHTML, outputs, tt.publicPath, tt.module)
			for _, w := range tt.want {
				assert.Contains(t, page, w)
			}

			assert.NotContains(t, page, "chunks/")
			assert.NotContains(t, page, ".map")
		})
	}
}

func TestInjectAssetsPlacement(t *testing.T) {
	t.Parallel()

	page := injectAssets("<html><HEAD></HEAD><body></body></html>", []string{"a.css", "a.js"}, "", false)

	assert.Equal(t,
		"<html><HEAD>    <link rel=\"stylesheet\" href=\"a.css\">\n</HEAD><body>    <script defer src=\"a.js\"></script>\n</body></html>",
		page)

	assert.Equal(t, "<p>x</p>", injectAssets("<p>x</p>", nil, "", false))
	assert.Equal(t, "<p>x</p>    <script defer src=\"a.js\"></script>\n",
		injectAssets("<p>x</p>", []string{"a.js"}, "", false))
}

func TestCleanHookStaysInsideWorkDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger := log.New(io.Discard, "", 0)

	for _, out := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "elsewhere")} {
		b := &Build{Plan: &plan.ResolvedPlan{}, WorkDir: dir, OutDir: out, Logger: logger}
		require.Error(t, cleanHook(context.Background(), b, plan.ResolvedPlugin{Name: "clean"}), out)
	}

	out := filepath.Join(dir, "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "old"), 0755))

	b := &Build{Plan: &plan.ResolvedPlan{}, WorkDir: dir, OutDir: out, Logger: logger}
	require.NoError(t, cleanHook(context.Background(), b, plan.ResolvedPlugin{Name: "clean"}))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCopyHookDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static", "img"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "robots.txt"), []byte("ok"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "img", "a.png"), []byte("png"), 0644))

	b := &Build{Plan: &plan.ResolvedPlan{}, WorkDir: dir, OutDir: filepath.Join(dir, "dist")}
	pl := plan.ResolvedPlugin{Name: "copy", Options: map[string]any{
		"patterns": []any{map[string]any{"from": "static", "to": "assets"}},
	}}

	require.NoError(t, copyHook(context.Background(), b, pl))
	assert.ElementsMatch(t, []string{"assets/robots.txt", "assets/img/a.png"}, b.Extra)

	data, err := os.ReadFile(filepath.Join(dir, "dist", "assets", "img", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	bad := plan.ResolvedPlugin{Name: "copy", Options: map[string]any{"patterns": []any{"static"}}}
	require.Error(t, copyHook(context.Background(), b, bad))
}
