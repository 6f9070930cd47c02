// Package material derives full Material Design color themes (light/dark
// role schemes and tonal palettes) from a single source color.
package material

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ARGB is a 32-bit color in alpha-red-green-blue channel order.
type ARGB uint32

// hexColorPattern matches a normalized 6-digit hex color.
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// FromHex parses a 6-digit hex color, with or without the leading "#".
// The resulting value is fully opaque.
func FromHex(s string) (ARGB, error) {
	raw := strings.TrimPrefix(s, "#")
	if len(raw) != 6 {
		return 0, fmt.Errorf("invalid hex color %q: want 6 hex digits", s)
	}
	var rgb uint32
	if _, err := fmt.Sscanf(strings.ToLower(raw), "%06x", &rgb); err != nil {
		return 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return ARGB(0xff000000 | rgb), nil
}

// NormalizeHex expands shorthand hex input ("6", "ab", "f0c") into a
// 6-digit "#rrggbb" string. Returns false for anything that cannot be
// normalized into a valid color.
func NormalizeHex(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	s := strings.TrimPrefix(raw, "#")
	switch len(s) {
	case 1:
		s = strings.Repeat(s, 6)
	case 2:
		s = strings.Repeat(s, 3)
	case 3:
		s = strings.Repeat(s, 2)
	}
	s = "#" + s
	if !hexColorPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// Hex renders the RGB channels as "#rrggbb". The alpha channel is not
// rendered; translucency travels separately as an asset opacity.
func (c ARGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red(), c.Green(), c.Blue())
}

// Alpha returns the alpha channel.
func (c ARGB) Alpha() uint8 { return uint8(c >> 24) }

// Red returns the red channel.
func (c ARGB) Red() uint8 { return uint8(c >> 16) }

// Green returns the green channel.
func (c ARGB) Green() uint8 { return uint8(c >> 8) }

// Blue returns the blue channel.
func (c ARGB) Blue() uint8 { return uint8(c) }

// WithOpacity scales the alpha channel by opacity, leaving RGB unchanged.
// Opacity is clamped into [0, 1].
func (c ARGB) WithOpacity(opacity float64) ARGB {
	opacity = math.Max(0, math.Min(1, opacity))
	alpha := uint32(math.Round(float64(c.Alpha()) * opacity))
	return ARGB(alpha<<24 | uint32(c)&0x00ffffff)
}
