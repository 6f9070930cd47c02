package material

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ToneValues are the fixed lightness stops every tonal palette is sampled
// at when generating palette assets.
var ToneValues = []int{5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100}

// TonalPalette is a hue/chroma pair from which colors of any tone can be
// produced. Hue is in degrees, chroma in CIELAB units.
type TonalPalette struct {
	Hue    float64
	Chroma float64
}

// Tone returns the palette color at the given tone (CIELAB L*, 0-100).
// Chroma is reduced until the color fits the sRGB gamut, mirroring how
// tonal palettes clamp out-of-gamut requests.
func (p TonalPalette) Tone(tone int) ARGB {
	if tone <= 0 {
		return 0xff000000
	}
	if tone >= 100 {
		return 0xffffffff
	}

	l := float64(tone) / 100
	rad := p.Hue * math.Pi / 180
	for chroma := p.Chroma / 100; chroma > 0; chroma -= 0.005 {
		col := colorful.Lab(l, chroma*math.Cos(rad), chroma*math.Sin(rad))
		if col.IsValid() {
			return fromColorful(col)
		}
	}
	return fromColorful(colorful.Lab(l, 0, 0).Clamped())
}

// Palettes are the six tonal palettes keyed from a source color.
type Palettes struct {
	Primary        TonalPalette
	Secondary      TonalPalette
	Tertiary       TonalPalette
	Neutral        TonalPalette
	NeutralVariant TonalPalette
	Error          TonalPalette
}

// PaletteNames lists the palettes in their canonical order.
var PaletteNames = []string{
	"primary",
	"secondary",
	"tertiary",
	"neutral",
	"neutralVariant",
	"error",
}

// ByName returns the named tonal palette.
func (p Palettes) ByName(name string) (TonalPalette, bool) {
	switch name {
	case "primary":
		return p.Primary, true
	case "secondary":
		return p.Secondary, true
	case "tertiary":
		return p.Tertiary, true
	case "neutral":
		return p.Neutral, true
	case "neutralVariant":
		return p.NeutralVariant, true
	case "error":
		return p.Error, true
	default:
		return TonalPalette{}, false
	}
}

// palettesFromSource keys the six palettes from the source color's hue and
// chroma, following the Material key-color rules: the primary palette keeps
// the source hue at a minimum chroma of 48, secondary and neutral variants
// desaturate it, tertiary rotates the hue by 60 degrees, and error is fixed.
func palettesFromSource(source ARGB) Palettes {
	hue, chroma := hueChroma(source)
	return Palettes{
		Primary:        TonalPalette{Hue: hue, Chroma: math.Max(48, chroma)},
		Secondary:      TonalPalette{Hue: hue, Chroma: 16},
		Tertiary:       TonalPalette{Hue: math.Mod(hue+60, 360), Chroma: 24},
		Neutral:        TonalPalette{Hue: hue, Chroma: 4},
		NeutralVariant: TonalPalette{Hue: hue, Chroma: 8},
		Error:          TonalPalette{Hue: 25, Chroma: 84},
	}
}

// hueChroma extracts the CIELAB hue angle (degrees) and chroma of a color.
func hueChroma(c ARGB) (hue, chroma float64) {
	col := toColorful(c)
	_, a, b := col.Lab()
	chroma = math.Hypot(a, b) * 100
	hue = math.Atan2(b, a) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	return hue, chroma
}

func toColorful(c ARGB) colorful.Color {
	return colorful.Color{
		R: float64(c.Red()) / 255,
		G: float64(c.Green()) / 255,
		B: float64(c.Blue()) / 255,
	}
}

func fromColorful(col colorful.Color) ARGB {
	r, g, b := col.RGB255()
	return ARGB(0xff000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}
