package material

// Scheme maps Material role names to their resolved colors for one
// appearance variant. Iterate with Roles for a stable order.
type Scheme map[string]ARGB

// Variants lists the scheme variants in their canonical order.
var Variants = []string{"light", "dark"}

// StateOpacities are the fixed state-layer opacity levels, per the Material
// "State layer tokens & values" definitions.
var StateOpacities = []float64{0.08, 0.10, 0.16}

// roleSpec binds a role name to its palette and the tone used by each
// scheme variant.
type roleSpec struct {
	name    string
	palette string
	light   int
	dark    int
}

// roleSpecs is the full Material role set in canonical order. The role
// count drives the expected-asset arithmetic, so additions here must be
// mirrored in callers relying on fixed counts.
var roleSpecs = []roleSpec{
	{"primary", "primary", 40, 80},
	{"onPrimary", "primary", 100, 20},
	{"primaryContainer", "primary", 90, 30},
	{"onPrimaryContainer", "primary", 10, 90},
	{"secondary", "secondary", 40, 80},
	{"onSecondary", "secondary", 100, 20},
	{"secondaryContainer", "secondary", 90, 30},
	{"onSecondaryContainer", "secondary", 10, 90},
	{"tertiary", "tertiary", 40, 80},
	{"onTertiary", "tertiary", 100, 20},
	{"tertiaryContainer", "tertiary", 90, 30},
	{"onTertiaryContainer", "tertiary", 10, 90},
	{"error", "error", 40, 80},
	{"onError", "error", 100, 20},
	{"errorContainer", "error", 90, 30},
	{"onErrorContainer", "error", 10, 90},
	{"background", "neutral", 99, 10},
	{"onBackground", "neutral", 10, 90},
	{"surface", "neutral", 99, 10},
	{"onSurface", "neutral", 10, 90},
	{"surfaceVariant", "neutralVariant", 90, 30},
	{"onSurfaceVariant", "neutralVariant", 30, 80},
	{"outline", "neutralVariant", 50, 60},
	{"outlineVariant", "neutralVariant", 80, 30},
	{"shadow", "neutral", 0, 0},
	{"scrim", "neutral", 0, 0},
	{"inverseSurface", "neutral", 20, 90},
	{"inverseOnSurface", "neutral", 95, 20},
	{"inversePrimary", "primary", 80, 40},
}

// Roles lists every scheme role name in canonical order.
var Roles = func() []string {
	names := make([]string, len(roleSpecs))
	for i, spec := range roleSpecs {
		names[i] = spec.name
	}
	return names
}()

// schemeFromPalettes resolves every role against the palettes for one
// variant.
func schemeFromPalettes(palettes Palettes, dark bool) Scheme {
	scheme := make(Scheme, len(roleSpecs))
	for _, spec := range roleSpecs {
		palette, _ := palettes.ByName(spec.palette)
		tone := spec.light
		if dark {
			tone = spec.dark
		}
		scheme[spec.name] = palette.Tone(tone)
	}
	return scheme
}
