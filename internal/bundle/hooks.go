package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"

	"assetplan/internal/compress"
	"assetplan/internal/plan"
)

// cleanHook empties the output directory. It refuses to touch anything
// outside the work dir.
func cleanHook(_ context.Context, b *Build, _ plan.ResolvedPlugin) error {
	rel, err := filepath.Rel(b.WorkDir, b.OutDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to clean %s outside %s", b.OutDir, b.WorkDir)
	}

	if err := os.RemoveAll(b.OutDir); err != nil {
		return err
	}

	return os.MkdirAll(b.OutDir, 0755)
}

// copyHook copies static files. Options: patterns: [{from, to}], with from
// relative to the work dir and to relative to the output dir.
func copyHook(_ context.Context, b *Build, pl plan.ResolvedPlugin) error {
	patterns, _ := pl.Options["patterns"].([]any)

	for i, raw := range patterns {
		pat, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("patterns[%d] must be a map", i)
		}

		from := optString(pat, "from", "")
		if from == "" {
			return fmt.Errorf("patterns[%d] has no from", i)
		}

		src := filepath.Join(b.WorkDir, from)
		dst := filepath.Join(b.OutDir, optString(pat, "to", "."))

		info, err := os.Stat(src)
		if err != nil {
			return err
		}

		if !info.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
			if err := copyFile(src, dst); err != nil {
				return err
			}

			b.addExtra(dst)

			continue
		}

		err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}

			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}

			target := filepath.Join(dst, rel)
			if err := copyFile(path, target); err != nil {
				return err
			}

			b.addExtra(target)

			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// htmlInjectorHook only checks that an html plugin runs; the html hook does the injection.
func htmlInjectorHook(_ context.Context, b *Build, _ plan.ResolvedPlugin) error {
	if !b.Plan.HasPlugin("html") {
		b.Logger.Printf("html-injector: no html plugin active, nothing to inject into")
	}

	return nil
}

// cssExtractHook reports the stylesheets esbuild emitted as separate files.
func cssExtractHook(_ context.Context, b *Build, _ plan.ResolvedPlugin) error {
	n := 0

	for _, out := range b.Outputs {
		if strings.HasSuffix(out, ".css") {
			n++
		}
	}

	b.Logger.Printf("css-extract: %d stylesheet(s) emitted", n)

	return nil
}

// analyzerHook writes esbuild's metafile analysis. Options: report (file name), verbose.
func analyzerHook(_ context.Context, b *Build, pl plan.ResolvedPlugin) error {
	if b.Metafile == "" {
		return errors.New("no metafile produced")
	}

	report := esbuild.AnalyzeMetafile(b.Metafile, esbuild.AnalyzeMetafileOptions{
		Verbose: optBool(pl.Options, "verbose", false),
	})

	dst := filepath.Join(b.OutDir, optString(pl.Options, "report", "report.txt"))
	if err := os.WriteFile(dst, []byte(report), 0644); err != nil {
		return err
	}

	b.addExtra(dst)

	return nil
}

// compressionHook writes .br/.gz siblings. Options: algorithms, threshold, extensions, level.
func compressionHook(_ context.Context, b *Build, pl plan.ResolvedPlugin) error {
	opts := compress.DefaultOptions()

	if algs := optStrings(pl.Options, "algorithms"); len(algs) > 0 {
		opts.Algorithms = opts.Algorithms[:0]
		for _, a := range algs {
			opts.Algorithms = append(opts.Algorithms, compress.Algorithm(a))
		}
	}

	if exts := optStrings(pl.Options, "extensions"); len(exts) > 0 {
		opts.Extensions = exts
	}

	opts.Threshold = optInt(pl.Options, "threshold", opts.Threshold)
	opts.Level = optInt(pl.Options, "level", opts.Level)

	written, err := compress.Dir(b.OutDir, opts)
	if err != nil {
		return err
	}

	b.Extra = append(b.Extra, written...)

	return nil
}

// imageminHook has no Go image optimizer behind it; images are emitted as-is.
func imageminHook(_ context.Context, b *Build, _ plan.ResolvedPlugin) error {
	b.Logger.Printf("imagemin: image optimization is not available, images copied unchanged")
	return nil
}

func (b *Build) addExtra(abs string) {
	if rel, err := filepath.Rel(b.OutDir, abs); err == nil {
		b.Extra = append(b.Extra, filepath.ToSlash(rel))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func optString(opts map[string]any, key, def string) string {
	if s, ok := opts[key].(string); ok {
		return s
	}

	return def
}

func optBool(opts map[string]any, key string, def bool) bool {
	if v, ok := opts[key].(bool); ok {
		return v
	}

	return def
}

func optInt(opts map[string]any, key string, def int) int {
	switch v := opts[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func optStrings(opts map[string]any, key string) []string {
	switch v := opts[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}
