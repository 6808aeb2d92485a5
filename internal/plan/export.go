package plan

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"assetplan/internal/config"
)

// ExportYAML renders a plan as YAML for review or for an external engine.
func ExportYAML(plan *ResolvedPlan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is nil")
	}

	return yaml.Marshal(plan)
}

// sampleEntry is the entry name rendered next to each naming template.
const sampleEntry = "main"

// Summary returns a short human-readable description of a plan:
// one line per chain, one line listing the plugins and one line per naming
// template with the name it gives sampleEntry.
func Summary(plan *ResolvedPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "mode: %s\n", plan.Mode)

	for _, c := range plan.Chains {
		class := c.Class.String()
		if c.Class == config.AssetUnspecified {
			class = "-"
		}

		fmt.Fprintf(&b, "  %-28s %-10s %s\n", c.Pattern, class, strings.Join(c.StageNames(), " -> "))
	}

	names := make([]string, len(plan.Plugins))
	for i, p := range plan.Plugins {
		names[i] = p.Name
	}

	fmt.Fprintf(&b, "plugins: %s\n", strings.Join(names, ", "))

	hash := ContentHash([]byte(sampleEntry))

	for _, n := range plan.Naming {
		sample, err := n.Render(sampleEntry, n.Ext, hash)
		if err != nil {
			sample = "-"
		}

		fmt.Fprintf(&b, "  %-10s %-28s %s\n", n.Class, n.Template, sample)
	}

	return b.String()
}
