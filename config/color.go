package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an sRGB color with straight alpha. In TOML it is a hex
// string, "#rrggbb" or "#rrggbbaa".
type Color struct {
	R, G, B, A uint8
}

// RGBA builds a Color from components.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Floats returns the components normalized to [0, 1] for vertex data.
func (c Color) Floats() (float32, float32, float32, float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// UnmarshalText parses "#rrggbb" or "#rrggbbaa".
func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", string(text))
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", string(text), err)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	c.R = uint8(v >> 24)
	c.G = uint8(v >> 16)
	c.B = uint8(v >> 8)
	c.A = uint8(v)
	return nil
}

// MarshalText renders the hex form, dropping alpha when opaque.
func (c Color) MarshalText() ([]byte, error) {
	if c.A == 0xff {
		return []byte(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), nil
	}
	return []byte(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)), nil
}
