package material

// Schemes groups the light and dark scheme variants of a derived theme.
type Schemes struct {
	Light Scheme
	Dark  Scheme
}

// Theme is the full derivation from a single source color: the source
// itself, both scheme variants, and the six tonal palettes. Derivation is
// total; any 24-bit source value yields a theme.
type Theme struct {
	Source   ARGB
	Schemes  Schemes
	Palettes Palettes
}

// Derive computes the full theme for the given source color.
func Derive(source ARGB) *Theme {
	palettes := palettesFromSource(source)
	return &Theme{
		Source: source,
		Schemes: Schemes{
			Light: schemeFromPalettes(palettes, false),
			Dark:  schemeFromPalettes(palettes, true),
		},
		Palettes: palettes,
	}
}

// Scheme returns the scheme for a variant name ("light" or "dark").
func (t *Theme) Scheme(variant string) (Scheme, bool) {
	switch variant {
	case "light":
		return t.Schemes.Light, true
	case "dark":
		return t.Schemes.Dark, true
	default:
		return nil, false
	}
}
