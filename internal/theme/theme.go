package theme

import (
	"sort"

	"github.com/thematic-dev/thematic/internal/material"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

// Theme is the reconstructed domain object grouping a source color, the
// per-variant scheme assets, optional state-layer assets and optional tonal
// palette assets under one name. Themes are never stored by the host; they
// are recomputed from flat asset lists on demand.
type Theme struct {
	Name        string
	Source      protocol.Asset
	Scheme      map[string][]protocol.Asset
	StateLayers map[string][]protocol.Asset
	Palettes    []protocol.Asset
}

// MapAssetsToThemes reconstructs themes from an unordered flat asset list.
// Theme roots are assets named "source" with a one-segment path; every
// other asset is classified by the sub-path below its theme name. Unknown
// categories are silently dropped for forward compatibility. Themes are
// returned in the order their root asset appeared; duplicate roots are
// last-wins.
func MapAssetsToThemes(assets []protocol.Asset) []Theme {
	var order []string
	byName := make(map[string]*Theme)

	for _, asset := range assets {
		segments := SplitPath(asset.Path)
		if asset.Name != SourceName || len(segments) != 1 || segments[0] == "" {
			continue
		}
		name := segments[0]
		if existing, ok := byName[name]; ok {
			existing.Source = asset
			continue
		}
		byName[name] = &Theme{
			Name:        name,
			Source:      asset,
			Scheme:      make(map[string][]protocol.Asset),
			StateLayers: make(map[string][]protocol.Asset),
		}
		order = append(order, name)
	}

	for _, asset := range assets {
		segments := SplitPath(asset.Path)
		if len(segments) < 2 {
			continue
		}
		t, ok := byName[segments[0]]
		if !ok {
			continue
		}
		sub := segments[1:]
		switch sub[0] {
		case CategoryScheme:
			if len(sub) >= 2 {
				t.Scheme[sub[1]] = append(t.Scheme[sub[1]], asset)
			}
		case CategoryStateLayers:
			if len(sub) >= 3 {
				t.StateLayers[sub[1]] = append(t.StateLayers[sub[1]], asset)
			}
		case CategoryPalettes:
			t.Palettes = append(t.Palettes, asset)
		}
	}

	themes := make([]Theme, 0, len(order))
	for _, name := range order {
		themes = append(themes, *byName[name])
	}
	return themes
}

// Flatten returns every asset of a theme as one list: source first, then
// scheme variants, state layers and palettes, variants in sorted order.
func Flatten(t Theme) []protocol.Asset {
	assets := []protocol.Asset{t.Source}
	for _, variant := range sortedKeys(t.Scheme) {
		assets = append(assets, t.Scheme[variant]...)
	}
	for _, variant := range sortedKeys(t.StateLayers) {
		assets = append(assets, t.StateLayers[variant]...)
	}
	assets = append(assets, t.Palettes...)
	return assets
}

// ExpectedAssetCount returns how many assets a full theme generation
// produces: the source plus every role color across both variants, plus the
// optional state-layer and tonal-palette sets. The counts are constant,
// derived from the fixed Material role set.
func ExpectedAssetCount(withStateLayers, withTonalPalettes bool) int {
	roles := len(material.Roles)
	variants := len(material.Variants)

	count := 1 + roles*variants
	if withStateLayers {
		count += roles * variants * len(material.StateOpacities)
	}
	if withTonalPalettes {
		count += len(material.PaletteNames) * len(material.ToneValues)
	}
	return count
}

// StateLayerAssetCount returns how many assets the state-layer set alone
// contributes to a theme.
func StateLayerAssetCount() int {
	return len(material.Roles) * len(material.Variants) * len(material.StateOpacities)
}

// PaletteAssetCount returns how many assets the tonal-palette set alone
// contributes to a theme.
func PaletteAssetCount() int {
	return len(material.PaletteNames) * len(material.ToneValues)
}

// SameReference reports whether two assets denote the same logical color:
// identical name and identical path below the theme name. This is the
// cross-theme matching rule used by replace and sync.
func SameReference(a, b protocol.Asset) bool {
	if a.Name != b.Name {
		return false
	}
	subA := SplitPath(a.Path)
	subB := SplitPath(b.Path)
	if len(subA) != len(subB) {
		return false
	}
	for i := 1; i < len(subA); i++ {
		if subA[i] != subB[i] {
			return false
		}
	}
	return true
}

// Compare orders assets by path then name. Used to align variant subsets
// positionally before zipping them into a swap mapping.
func Compare(a, b protocol.Asset) int {
	if c := compareStrings(a.Path, b.Path); c != 0 {
		return c
	}
	return compareStrings(a.Name, b.Name)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sortedKeys(m map[string][]protocol.Asset) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
