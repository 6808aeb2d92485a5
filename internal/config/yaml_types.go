package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// --- StageRef / PluginRef YAML methods ---

type (
	rawStageRef  StageRef
	rawPluginRef PluginRef
)

// UnmarshalYAML accepts:
//   - Bare name: "css"
//   - Name with options: {css: {sourceMap: true}}
//   - Full form: {name: css, when: production, options: {...}}
func (s *StageRef) UnmarshalYAML(node *yaml.Node) error {
	name, opts, short, err := decodeShorthand(node)
	if err != nil {
		return err
	}

	if short {
		*s = StageRef{Name: name, Options: opts}
		return nil
	}

	var raw rawStageRef
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*s = StageRef(raw)

	return nil
}

// UnmarshalYAML accepts the same shorthand forms as StageRef.
func (p *PluginRef) UnmarshalYAML(node *yaml.Node) error {
	name, opts, short, err := decodeShorthand(node)
	if err != nil {
		return err
	}

	if short {
		*p = PluginRef{Name: name, Options: opts}
		return nil
	}

	var raw rawPluginRef
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*p = PluginRef(raw)

	return nil
}

// refKeys are the full-form keys; a single-key map using one of them is not shorthand.
var refKeys = map[string]bool{
	"name": true, "when": true, "phase": true,
	"options": true, "production": true, "development": true,
}

// decodeShorthand recognizes the bare-name and {name: options} forms.
// short is false when the node is a full-form mapping that the caller must decode.
func decodeShorthand(node *yaml.Node) (name string, opts map[string]any, short bool, err error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if err := node.Decode(&name); err != nil {
			return "", nil, false, err
		}

		if name == "" {
			return "", nil, false, errors.New("empty reference name")
		}

		return name, nil, true, nil

	case yaml.MappingNode:
		if len(node.Content) != 2 || refKeys[node.Content[0].Value] {
			return "", nil, false, nil
		}

		if err := node.Content[0].Decode(&name); err != nil {
			return "", nil, false, fmt.Errorf("invalid reference name: %w", err)
		}

		val := node.Content[1]
		if val.Tag == "!!null" {
			return name, nil, true, nil
		}

		if val.Kind != yaml.MappingNode {
			return "", nil, false, fmt.Errorf("options for %q must be a map, got %v", name, val.Kind)
		}

		if err := val.Decode(&opts); err != nil {
			return "", nil, false, fmt.Errorf("invalid options for %q: %w", name, err)
		}

		return name, opts, true, nil

	default:
		return "", nil, false, fmt.Errorf("expected name or map, got %v", node.Kind)
	}
}
