package bundle

import (
	"context"
	"fmt"
	"html"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"assetplan/internal/plan"
)

const defaultHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>App</title>
  </head>
  <body>
  </body>
</html>
`

var interTagSpace = regexp.MustCompile(`>\s+<`)

// htmlHook writes an HTML page referencing the emitted scripts and stylesheets.
// Options: template (relative to the source context), filename, minify.collapseWhitespace.
func htmlHook(_ context.Context, b *Build, pl plan.ResolvedPlugin) error {
	page := defaultHTML

	if tpl := optString(pl.Options, "template", ""); tpl != "" {
		data, err := os.ReadFile(filepath.Join(b.WorkDir, b.Plan.Context, tpl))
		if err != nil {
			return fmt.Errorf("reading template: %w", err)
		}

		page = string(data)
	}

	page = injectAssets(page, b.Outputs, b.Plan.Output.PublicPath, splits(b.Plan))

	if minify, ok := pl.Options["minify"].(map[string]any); ok && optBool(minify, "collapseWhitespace", false) {
		page = strings.TrimSpace(interTagSpace.ReplaceAllString(page, "><"))
	}

	dst := filepath.Join(b.OutDir, optString(pl.Options, "filename", "index.html"))
	if err := os.WriteFile(dst, []byte(page), 0644); err != nil {
		return err
	}

	b.addExtra(dst)

	return nil
}

// injectAssets adds <link> tags before </head> and <script> tags before </body>.
// Chunk files are loaded through their entry and are not referenced directly.
func injectAssets(page string, outputs []string, publicPath string, module bool) string {
	var links, scripts strings.Builder

	for _, out := range outputs {
		if strings.HasPrefix(out, "chunks/") {
			continue
		}

		href := html.EscapeString(path.Join(publicPath, out))
		if publicPath == "" {
			href = html.EscapeString(out)
		}

		switch path.Ext(out) {
		case ".css":
			fmt.Fprintf(&links, "    <link rel=\"stylesheet\" href=\"%s\">\n", href)
		case ".js":
			if module {
				fmt.Fprintf(&scripts, "    <script type=\"module\" src=\"%s\"></script>\n", href)
			} else {
				fmt.Fprintf(&scripts, "    <script defer src=\"%s\"></script>\n", href)
			}
		}
	}

	page = insertBefore(page, "</head>", links.String())

	return insertBefore(page, "</body>", scripts.String())
}

func insertBefore(page, marker, content string) string {
	if content == "" {
		return page
	}

	i := strings.LastIndex(strings.ToLower(page), marker)
	if i < 0 {
		return page + content
	}

	return page[:i] + content + page[i:]
}
