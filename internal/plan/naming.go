package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"assetplan/internal/config"
)

// HashLength is the number of hex digits ContentHash returns.
const HashLength = 20

// ErrMissingHash is returned when a hashed template is rendered without a hash.
var ErrMissingHash = errors.New("content hash required for hashed output name")

// OutputName is the resolved naming template of one asset class.
type OutputName struct {
	Class config.AssetClass `yaml:"class"`
	// Template is e.g. "[name].js" or "[name].[contenthash].js".
	Template string `yaml:"template"`
	// Ext is the extension the template ends with, without the dot.
	Ext string `yaml:"ext"`
	// Hashed reports whether Template embeds HashToken.
	Hashed    bool   `yaml:"hashed"`
	HashToken string `yaml:"hash_token,omitempty"`
}

// namingTemplate builds the template of n in mode. Development names are
// stable; production names embed the content hash token.
func namingTemplate(n config.NamingRule, mode config.Mode) string {
	stem, token := n.Stem, n.HashToken
	if stem == "" {
		stem = config.DefaultStem
	}

	if token == "" {
		token = config.DefaultHashToken
	}

	if mode.IsProduction() {
		return stem + "." + token + "." + n.Ext
	}

	return stem + "." + n.Ext
}

func resolveName(n config.NamingRule, mode config.Mode) OutputName {
	token := n.HashToken
	if token == "" {
		token = config.DefaultHashToken
	}

	if n.Ext == "" {
		n.Ext = config.DefaultExt[n.Class]
	}

	out := OutputName{
		Class:    n.Class,
		Template: namingTemplate(n, mode),
		Ext:      n.Ext,
		Hashed:   mode.IsProduction(),
	}

	if out.Hashed {
		out.HashToken = token
	}

	return out
}

// Render substitutes name, ext and hash into the template.
// ext is used for "[ext]" and must not carry a leading dot.
func (o OutputName) Render(name, ext, hash string) (string, error) {
	if o.Hashed && hash == "" {
		return "", ErrMissingHash
	}

	r := strings.NewReplacer("[name]", name, "[ext]", strings.TrimPrefix(ext, "."))
	out := r.Replace(o.Template)

	if o.Hashed {
		out = strings.ReplaceAll(out, o.HashToken, hash)
	}

	return out, nil
}

// ContentHash returns a short hex digest of data suitable for output names.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:HashLength]
}
