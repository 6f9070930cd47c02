package material

import (
	"testing"
)

func TestFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ARGB
		wantErr bool
	}{
		{"with hash", "#673ab7", 0xff673ab7, false},
		{"without hash", "673ab7", 0xff673ab7, false},
		{"uppercase", "#673AB7", 0xff673ab7, false},
		{"black", "#000000", 0xff000000, false},
		{"white", "#ffffff", 0xffffffff, false},
		{"too short", "#fff", 0, true},
		{"too long", "#673ab7ff", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("FromHex(%q) = %#x, want %#x", tt.input, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"single digit", "6", "#666666", true},
		{"two digits", "ab", "#ababab", true},
		{"three digits", "f0c", "#f0cf0c", true},
		{"full without hash", "673ab7", "#673ab7", true},
		{"full with hash", "#673AB7", "#673AB7", true},
		{"empty", "", "", false},
		{"non-hex", "ghijkl", "", false},
		{"four digits", "1234", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeHex(tt.input)
			if ok != tt.ok {
				t.Fatalf("NormalizeHex(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("NormalizeHex(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#673ab7", "#000000", "#ffffff", "#00695c"} {
		c, err := FromHex(hex)
		if err != nil {
			t.Fatalf("FromHex(%q) failed: %v", hex, err)
		}
		if got := c.Hex(); got != hex {
			t.Errorf("round trip of %q produced %q", hex, got)
		}
	}
}

func TestWithOpacity(t *testing.T) {
	opaque := ARGB(0xff673ab7)

	tests := []struct {
		name    string
		opacity float64
		alpha   uint8
	}{
		{"low state layer", 0.08, 20},
		{"medium state layer", 0.10, 26},
		{"high state layer", 0.16, 41},
		{"full", 1.0, 255},
		{"zero", 0, 0},
		{"clamped high", 1.5, 255},
		{"clamped low", -0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := opaque.WithOpacity(tt.opacity)
			if got.Alpha() != tt.alpha {
				t.Errorf("alpha = %d, want %d", got.Alpha(), tt.alpha)
			}
			if got.Hex() != opaque.Hex() {
				t.Errorf("RGB channels changed: %s -> %s", opaque.Hex(), got.Hex())
			}
		})
	}
}

func TestToneExtremes(t *testing.T) {
	p := TonalPalette{Hue: 280, Chroma: 48}

	if got := p.Tone(0); got != 0xff000000 {
		t.Errorf("Tone(0) = %#x, want opaque black", uint32(got))
	}
	if got := p.Tone(100); got != 0xffffffff {
		t.Errorf("Tone(100) = %#x, want opaque white", uint32(got))
	}
}

func TestToneMonotoneLightness(t *testing.T) {
	// Higher tones must never come out darker than lower ones.
	p := TonalPalette{Hue: 120, Chroma: 30}
	prev := -1.0
	for _, tone := range ToneValues {
		c := p.Tone(tone)
		// Perceived luminance approximation is enough for ordering.
		lum := 0.299*float64(c.Red()) + 0.587*float64(c.Green()) + 0.114*float64(c.Blue())
		if lum < prev {
			t.Fatalf("tone %d is darker than the previous tone (%f < %f)", tone, lum, prev)
		}
		prev = lum
	}
}

func TestDerive(t *testing.T) {
	source, err := FromHex("#673ab7")
	if err != nil {
		t.Fatal(err)
	}
	theme := Derive(source)

	if theme.Source != source {
		t.Errorf("source = %#x, want %#x", uint32(theme.Source), uint32(source))
	}

	if len(Roles) != 29 {
		t.Fatalf("role count = %d, want 29", len(Roles))
	}
	if len(PaletteNames) != 6 {
		t.Fatalf("palette count = %d, want 6", len(PaletteNames))
	}
	if len(ToneValues) != 12 {
		t.Fatalf("tone count = %d, want 12", len(ToneValues))
	}

	for _, variant := range Variants {
		scheme, ok := theme.Scheme(variant)
		if !ok {
			t.Fatalf("missing scheme variant %q", variant)
		}
		if len(scheme) != len(Roles) {
			t.Errorf("%s scheme has %d roles, want %d", variant, len(scheme), len(Roles))
		}
		for _, role := range Roles {
			if _, ok := scheme[role]; !ok {
				t.Errorf("%s scheme missing role %q", variant, role)
			}
		}
		// Shadow and scrim are always pure black.
		for _, role := range []string{"shadow", "scrim"} {
			if scheme[role] != 0xff000000 {
				t.Errorf("%s %s = %s, want #000000", variant, role, scheme[role].Hex())
			}
		}
	}

	if _, ok := theme.Scheme("sepia"); ok {
		t.Error("unknown variant should not resolve")
	}
}

func TestSchemeVariantsDiffer(t *testing.T) {
	source, _ := FromHex("#00695c")
	theme := Derive(source)

	light, _ := theme.Scheme("light")
	dark, _ := theme.Scheme("dark")

	if light["primary"] == dark["primary"] {
		t.Error("light and dark primary should differ")
	}
	// The inverse primary of one variant is the primary of the other.
	if light["inversePrimary"] != dark["primary"] {
		t.Errorf("light inversePrimary = %s, want dark primary %s",
			light["inversePrimary"].Hex(), dark["primary"].Hex())
	}
	if dark["inversePrimary"] != light["primary"] {
		t.Errorf("dark inversePrimary = %s, want light primary %s",
			dark["inversePrimary"].Hex(), light["primary"].Hex())
	}
}

func TestPalettesByName(t *testing.T) {
	source, _ := FromHex("#673ab7")
	theme := Derive(source)

	for _, name := range PaletteNames {
		if _, ok := theme.Palettes.ByName(name); !ok {
			t.Errorf("missing palette %q", name)
		}
	}
	if _, ok := theme.Palettes.ByName("magenta"); ok {
		t.Error("unknown palette should not resolve")
	}
}
