// Package compress writes precompressed siblings (.br, .gz) of emitted
// assets so a static server can serve them without compressing per request.
package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/andybalholm/brotli"
)

// Algorithm names a compression format by its file suffix.
type Algorithm string

const (
	AlgorithmBrotli Algorithm = "br"
	AlgorithmGzip   Algorithm = "gzip"
)

// Suffix returns the file extension written for the algorithm.
func (a Algorithm) Suffix() string {
	switch a {
	case AlgorithmBrotli:
		return ".br"
	case AlgorithmGzip:
		return ".gz"
	default:
		return ""
	}
}

// Options controls which files Dir compresses.
type Options struct {
	Algorithms []Algorithm
	// Threshold is the minimum file size in bytes worth compressing.
	Threshold int
	// Extensions limits compression to these file extensions (with dot).
	Extensions []string
	// Level is used for both algorithms; 0 selects each algorithm's default.
	Level int
	// MinRatio skips outputs that are not at least this much smaller (0..1).
	MinRatio float64
}

// DefaultOptions returns brotli+gzip for text assets over 1 KiB.
func DefaultOptions() Options {
	return Options{
		Algorithms: []Algorithm{AlgorithmBrotli, AlgorithmGzip},
		Threshold:  1024,
		Extensions: []string{".js", ".mjs", ".css", ".html", ".svg", ".json", ".map", ".txt"},
		MinRatio:   0.8,
	}
}

// Brotli compresses data. level 0 selects brotli.DefaultCompression.
func Brotli(data []byte, level int) ([]byte, error) {
	if level == 0 {
		level = brotli.DefaultCompression
	}

	var buf bytes.Buffer

	w := brotli.NewWriterLevel(&buf, level)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli close: %w", err)
	}

	return buf.Bytes(), nil
}

// Gzip compresses data. level 0 selects gzip.DefaultCompression.
func Gzip(data []byte, level int) ([]byte, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}

	var buf bytes.Buffer

	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reverses Brotli or Gzip output.
func Decompress(a Algorithm, data []byte) ([]byte, error) {
	var r io.Reader

	switch a {
	case AlgorithmBrotli:
		r = brotli.NewReader(bytes.NewReader(data))
	case AlgorithmGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gr.Close()

		r = gr
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", a)
	}

	return io.ReadAll(r)
}

func encode(a Algorithm, data []byte, level int) ([]byte, error) {
	switch a {
	case AlgorithmBrotli:
		return Brotli(data, level)
	case AlgorithmGzip:
		return Gzip(data, level)
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", a)
	}
}

// Dir compresses every eligible file under dir and returns the written
// paths relative to dir, sorted.
func Dir(dir string, opts Options) ([]string, error) {
	for _, a := range opts.Algorithms {
		if a.Suffix() == "" {
			return nil, fmt.Errorf("unsupported algorithm %q", a)
		}
	}

	var sources []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !eligible(path, opts.Extensions) {
			return nil
		}

		sources = append(sources, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	var written []string

	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}

		if len(data) < opts.Threshold {
			continue
		}

		for _, a := range opts.Algorithms {
			out, err := encode(a, data, opts.Level)
			if err != nil {
				return nil, fmt.Errorf("compress %s: %w", src, err)
			}

			if opts.MinRatio > 0 && float64(len(out)) > float64(len(data))*opts.MinRatio {
				continue
			}

			dst := src + a.Suffix()
			if err := os.WriteFile(dst, out, 0644); err != nil {
				return nil, fmt.Errorf("write %s: %w", dst, err)
			}

			rel, err := filepath.Rel(dir, dst)
			if err != nil {
				return nil, err
			}

			written = append(written, filepath.ToSlash(rel))
		}
	}

	sort.Strings(written)

	return written, nil
}

func eligible(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".br" || ext == ".gz" {
		return false
	}

	if len(extensions) == 0 {
		return true
	}

	return slices.Contains(extensions, ext)
}
