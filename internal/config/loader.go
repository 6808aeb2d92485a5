package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultPipeline []byte

// LoadFile loads and parses a YAML pipeline file from the given path.
func LoadFile(path string) (*PipelineFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a PipelineFile.
func Parse(data []byte) (*PipelineFile, error) {
	var pf PipelineFile

	err := yaml.Unmarshal(data, &pf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pipeline YAML: %w", err)
	}

	applyDefaults(&pf)

	return &pf, nil
}

// Default returns the built-in pipeline declarations: a JavaScript app with
// CSS/Sass, images and fonts, HTML generation and production-only analysis.
func Default() *PipelineFile {
	pf, err := Parse(defaultPipeline)
	if err != nil {
		panic(fmt.Sprintf("embedded default pipeline is invalid: %v", err))
	}

	return pf
}

// DefaultYAML returns the raw built-in pipeline declarations.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultPipeline...)
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(pf *PipelineFile) {
	if pf.Version == "" {
		pf.Version = DefaultVersion
	}

	for _, class := range AssetClasses {
		if _, ok := pf.NamingFor(class); !ok {
			pf.Naming = append(pf.Naming, NamingRule{Class: class, Ext: DefaultExt[class]})
		}
	}

	for i := range pf.Naming {
		n := &pf.Naming[i]
		if n.Stem == "" {
			n.Stem = DefaultStem
		}

		if n.HashToken == "" {
			n.HashToken = DefaultHashToken
		}

		if n.Ext == "" {
			n.Ext = DefaultExt[n.Class]
		}
	}

	for i := range pf.Plugins {
		if pf.Plugins[i].Phase == "" {
			pf.Plugins[i].Phase = PhaseAfterEmit
		}
	}

	if pf.DevServer.Port == 0 {
		pf.DevServer.Port = DefaultPort
	}
}

// Marshal serializes a PipelineFile to YAML.
func Marshal(pf *PipelineFile) ([]byte, error) {
	return yaml.Marshal(pf)
}

// WriteFile writes a PipelineFile to the given path.
func WriteFile(pf *PipelineFile, path string) error {
	data, err := Marshal(pf)
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pipeline file %s: %w", path, err)
	}

	return nil
}
