package prefabs

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.NRGBA
	Set bool
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string, line %d", value.Line)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(value.Value, "#"))
	if err != nil || (len(raw) != 3 && len(raw) != 4) {
		return fmt.Errorf("invalid color %q, want #rrggbb or #rrggbbaa", value.Value)
	}
	c.NRGBA = color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}
	if len(raw) == 4 {
		c.A = raw[3]
	}
	c.Set = true
	return nil
}

// Or returns the decoded color, or fallback when none was given.
func (c YAMLColor) Or(fallback color.NRGBA) color.NRGBA {
	if !c.Set {
		return fallback
	}
	return c.NRGBA
}
