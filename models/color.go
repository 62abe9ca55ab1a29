package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is the overlay tint. It is written to disk as "#rrggbb".
type Color struct {
	R, G, B uint8
}

// Black is the default overlay color.
var Black = Color{}

// ColorFromColorful converts a go-colorful color, clamping it to the RGB gamut.
func ColorFromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful returns c as a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

func (c Color) String() string { return c.Hex() }

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor accepts "#rrggbb", "rrggbb", "#rgb" and "r,g,b". Channel values
// in the comma form are clamped to [0,255].
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(strings.Trim(s, "()[] "), ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("color %q: want 3 channels, got %d", s, len(parts))
		}
		var ch [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return Color{}, fmt.Errorf("color %q: %w", s, err)
			}
			ch[i] = v
		}
		return ColorFromChannels(ch[0], ch[1], ch[2]), nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if !hexColorPattern.MatchString(s) {
		return Color{}, fmt.Errorf("color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return ColorFromColorful(c), nil
}

// ColorFromChannels builds a Color from integer channels, clamping each to [0,255].
func ColorFromChannels(r, g, b int) Color {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// MarshalYAML writes the color as a hex string.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// UnmarshalYAML reads either a color string or a [r, g, b] sequence.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var ch []int
		if err := value.Decode(&ch); err != nil {
			return fmt.Errorf("color: %w", err)
		}
		if len(ch) != 3 {
			return fmt.Errorf("color: want 3 channels, got %d", len(ch))
		}
		*c = ColorFromChannels(ch[0], ch[1], ch[2])
		return nil
	case yaml.ScalarNode:
		parsed, err := ParseColor(value.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	default:
		return fmt.Errorf("color: unsupported YAML node at line %d", value.Line)
	}
}

// Swatch is a named palette entry offered by the color chooser.
type Swatch struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// darkPalette lists colors dark enough to dim with; channels are 0..1.
var darkPalette = []struct {
	name    string
	r, g, b float64
}{
	{"Black", 0, 0, 0},
	{"Dark Gray 1", 0.1, 0.1, 0.1},
	{"Dark Gray 2", 0.15, 0.15, 0.15},
	{"Dark Gray 3", 0.2, 0.2, 0.2},
	{"Dark Blue 1", 0, 0, 0.1},
	{"Dark Blue 2", 0, 0, 0.15},
	{"Dark Blue 3", 0, 0, 0.2},
	{"Dark Red 1", 0.1, 0, 0},
	{"Dark Red 2", 0.15, 0, 0},
	{"Dark Red 3", 0.2, 0, 0},
	{"Dark Green 1", 0, 0.1, 0},
	{"Dark Green 2", 0, 0.15, 0},
	{"Dark Green 3", 0, 0.2, 0},
	{"Dark Amber 1", 0.2, 0.1, 0},
	{"Dark Amber 2", 0.15, 0.075, 0},
	{"Dark Amber 3", 0.1, 0.05, 0},
}

// Palette returns the preset swatches in display order.
func Palette() []Swatch {
	out := make([]Swatch, len(darkPalette))
	for i, p := range darkPalette {
		c := ColorFromColorful(colorful.Color{R: p.r, G: p.g, B: p.b})
		out[i] = Swatch{Name: p.name, Color: c.Hex()}
	}
	return out
}
