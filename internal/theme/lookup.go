package theme

import (
	"github.com/thematic-dev/thematic/internal/material"
)

// ColorForPath reverses an asset's path/name coordinate into the value a
// freshly derived theme assigns it. Segment 0 is the theme name; the
// remaining segments select the category:
//
//   - a one-segment path with leaf "source" is the source color
//   - scheme/<variant> with a role leaf is that scheme role
//   - state-layers/<variant>/<role> with an "opacity-<n>" leaf is the role
//     color with its alpha scaled by the parsed fraction
//   - palettes with a "<palette>-<tone>" leaf is that palette tone
//
// Any other shape returns ok=false; callers log and leave the asset value
// unchanged.
func ColorForPath(derived *material.Theme, segments []string, name string) (material.ARGB, bool) {
	if len(segments) == 0 {
		return 0, false
	}

	if len(segments) == 1 {
		if name == SourceName {
			return derived.Source, true
		}
		return 0, false
	}

	switch segments[1] {
	case CategoryScheme:
		if len(segments) != 3 {
			return 0, false
		}
		scheme, ok := derived.Scheme(segments[2])
		if !ok {
			return 0, false
		}
		value, ok := scheme[name]
		return value, ok

	case CategoryStateLayers:
		if len(segments) != 4 {
			return 0, false
		}
		scheme, ok := derived.Scheme(segments[2])
		if !ok {
			return 0, false
		}
		base, ok := scheme[segments[3]]
		if !ok {
			return 0, false
		}
		opacity, ok := ParseOpacityName(name)
		if !ok {
			return 0, false
		}
		return base.WithOpacity(opacity), true

	case CategoryPalettes:
		paletteName, tone, ok := ParsePaletteToneName(name)
		if !ok {
			return 0, false
		}
		palette, ok := derived.Palettes.ByName(paletteName)
		if !ok {
			return 0, false
		}
		return palette.Tone(tone), true

	default:
		return 0, false
	}
}
