package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:generate go tool stringer -type=AssetClass -linecomment -output=assetclass_string.go

// AssetClass groups output files that share a naming rule.
type AssetClass int

const (
	AssetUnspecified AssetClass = iota // unspecified
	AssetScript                        // script
	AssetStylesheet                    // stylesheet
	AssetMedia                         // media
	AssetFont                          // font
)

// AssetClasses lists every concrete asset class in output order.
var AssetClasses = []AssetClass{AssetScript, AssetStylesheet, AssetMedia, AssetFont}

// ParseAssetClass converts a class name into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	for _, c := range AssetClasses {
		if c.String() == s {
			return c, nil
		}
	}

	if s == "" || s == AssetUnspecified.String() {
		return AssetUnspecified, nil
	}

	return AssetUnspecified, fmt.Errorf("unknown asset class %q (expected script, stylesheet, media or font)", s)
}

// UnmarshalYAML decodes an asset class from its name.
func (c *AssetClass) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseAssetClass(s)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// MarshalYAML encodes an asset class as its name.
func (c AssetClass) MarshalYAML() (any, error) {
	return c.String(), nil
}
