package theme

import (
	"testing"

	"github.com/thematic-dev/thematic/internal/material"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

func asset(name, path string) protocol.Asset {
	return protocol.Asset{ID: name + "@" + path, Name: name, Path: path}
}

func TestMapAssetsToThemes(t *testing.T) {
	assets := []protocol.Asset{
		asset("source", "forest"),
		asset("primary", "forest / scheme / light"),
		asset("primary", "forest / scheme / dark"),
		asset("opacity-0.08", "forest / state-layers / light / primary"),
		asset("primary-40", "forest / palettes"),
		asset("source", "ocean"),
		asset("onPrimary", "ocean / scheme / light"),
		// Unknown category under a known theme.
		asset("something", "forest / gradients / light"),
		// Orphan asset with no theme root.
		asset("primary", "ghost / scheme / light"),
		// Plain asset outside any theme structure.
		asset("brand-red", ""),
	}

	themes := MapAssetsToThemes(assets)
	if len(themes) != 2 {
		t.Fatalf("theme count = %d, want 2", len(themes))
	}

	forest := themes[0]
	if forest.Name != "forest" {
		t.Fatalf("first theme = %q, want forest (input order)", forest.Name)
	}
	if len(forest.Scheme["light"]) != 1 || len(forest.Scheme["dark"]) != 1 {
		t.Errorf("forest scheme sizes = %d/%d, want 1/1",
			len(forest.Scheme["light"]), len(forest.Scheme["dark"]))
	}
	if len(forest.StateLayers["light"]) != 1 {
		t.Errorf("forest light state layers = %d, want 1", len(forest.StateLayers["light"]))
	}
	if len(forest.Palettes) != 1 {
		t.Errorf("forest palettes = %d, want 1", len(forest.Palettes))
	}

	ocean := themes[1]
	if ocean.Name != "ocean" {
		t.Fatalf("second theme = %q, want ocean", ocean.Name)
	}
	if len(ocean.Scheme["light"]) != 1 {
		t.Errorf("ocean light scheme = %d, want 1", len(ocean.Scheme["light"]))
	}
}

func TestMapAssetsToThemesIdempotent(t *testing.T) {
	assets := []protocol.Asset{
		asset("source", "forest"),
		asset("primary", "forest / scheme / light"),
		asset("primary-40", "forest / palettes"),
	}

	first := MapAssetsToThemes(assets)
	second := MapAssetsToThemes(Flatten(first[0]))

	if len(second) != 1 {
		t.Fatalf("re-aggregation produced %d themes, want 1", len(second))
	}
	if len(Flatten(second[0])) != len(assets) {
		t.Errorf("re-aggregated asset count = %d, want %d", len(Flatten(second[0])), len(assets))
	}
}

func TestMapAssetsToThemesDuplicateRootLastWins(t *testing.T) {
	first := asset("source", "forest")
	first.Color = "#111111"
	second := asset("source", "forest")
	second.Color = "#222222"

	themes := MapAssetsToThemes([]protocol.Asset{first, second})
	if len(themes) != 1 {
		t.Fatalf("theme count = %d, want 1", len(themes))
	}
	if themes[0].Source.Color != "#222222" {
		t.Errorf("source color = %s, want the later root", themes[0].Source.Color)
	}
}

func TestExpectedAssetCount(t *testing.T) {
	tests := []struct {
		name        string
		stateLayers bool
		palettes    bool
		want        int
	}{
		{"base", false, false, 59},
		{"with state layers", true, false, 233},
		{"with palettes", false, true, 131},
		{"full", true, true, 305},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedAssetCount(tt.stateLayers, tt.palettes); got != tt.want {
				t.Errorf("ExpectedAssetCount(%v, %v) = %d, want %d",
					tt.stateLayers, tt.palettes, got, tt.want)
			}
		})
	}

	if got := StateLayerAssetCount(); got != 174 {
		t.Errorf("StateLayerAssetCount() = %d, want 174", got)
	}
	if got := PaletteAssetCount(); got != 72 {
		t.Errorf("PaletteAssetCount() = %d, want 72", got)
	}
}

func TestSameReference(t *testing.T) {
	tests := []struct {
		name string
		a, b protocol.Asset
		want bool
	}{
		{
			"same role across themes",
			asset("primary", "forest / scheme / light"),
			asset("primary", "ocean / scheme / light"),
			true,
		},
		{
			"different role",
			asset("primary", "forest / scheme / light"),
			asset("onPrimary", "ocean / scheme / light"),
			false,
		},
		{
			"different variant",
			asset("primary", "forest / scheme / light"),
			asset("primary", "ocean / scheme / dark"),
			false,
		},
		{
			"different depth",
			asset("primary", "forest / scheme / light"),
			asset("primary", "ocean / scheme"),
			false,
		},
		{
			"display and logical separators",
			asset("primary", "forest / scheme / light"),
			asset("primary", "ocean/scheme/light"),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameReference(tt.a, tt.b); got != tt.want {
				t.Errorf("SameReference = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"logical", "forest/scheme/light", []string{"forest", "scheme", "light"}},
		{"display", "forest / scheme / light", []string{"forest", "scheme", "light"}},
		{"single", "forest", []string{"forest"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPath(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitPath(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("SplitPath(%q) = %v, want %v", tt.input, got, tt.want)
				}
			}
		})
	}
}

func TestOpacityNames(t *testing.T) {
	for _, opacity := range []float64{0.08, 0.10, 0.16} {
		name := OpacityName(opacity)
		parsed, ok := ParseOpacityName(name)
		if !ok || parsed != opacity {
			t.Errorf("opacity %v round-tripped to %v (ok=%v) via %q", opacity, parsed, ok, name)
		}
	}

	if _, ok := ParseOpacityName("primary-40"); ok {
		t.Error("non-opacity name should not parse")
	}
	if _, ok := ParseOpacityName("opacity-1.5"); ok {
		t.Error("out-of-range opacity should not parse")
	}
}

func TestPaletteToneNames(t *testing.T) {
	tests := []struct {
		input   string
		palette string
		tone    int
		ok      bool
	}{
		{"primary-40", "primary", 40, true},
		{"neutralVariant-95", "neutralVariant", 95, true},
		{"no-tone-", "", 0, false},
		{"plain", "", 0, false},
		{"-40", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			palette, tone, ok := ParsePaletteToneName(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (palette != tt.palette || tone != tt.tone) {
				t.Errorf("parsed %q/%d, want %q/%d", palette, tone, tt.palette, tt.tone)
			}
		})
	}
}

func TestColorForPath(t *testing.T) {
	source, err := material.FromHex("#673ab7")
	if err != nil {
		t.Fatal(err)
	}
	derived := material.Derive(source)
	lightScheme, _ := derived.Scheme("light")

	tests := []struct {
		name     string
		segments []string
		leaf     string
		want     material.ARGB
		ok       bool
	}{
		{"source", []string{"forest"}, "source", derived.Source, true},
		{"light primary", []string{"forest", "scheme", "light"}, "primary", lightScheme["primary"], true},
		{"state layer", []string{"forest", "state-layers", "light", "primary"}, "opacity-0.08", lightScheme["primary"].WithOpacity(0.08), true},
		{"palette tone", []string{"forest", "palettes"}, "primary-40", derived.Palettes.Primary.Tone(40), true},
		{"unknown variant", []string{"forest", "scheme", "sepia"}, "primary", 0, false},
		{"unknown role", []string{"forest", "scheme", "light"}, "accent", 0, false},
		{"unknown category", []string{"forest", "gradients", "light"}, "primary", 0, false},
		{"root with wrong leaf", []string{"forest"}, "primary", 0, false},
		{"empty", nil, "source", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ColorForPath(derived, tt.segments, tt.leaf)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("value = %s, want %s", got.Hex(), tt.want.Hex())
			}
		})
	}
}
