// Package theme reconstructs structured themes from the flat asset lists
// the host hands back, and implements the path convention the assets are
// grouped under: "<theme>/scheme/<variant>/<role>",
// "<theme>/state-layers/<variant>/<role>/opacity-<n>" and
// "<theme>/palettes".
package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator is the logical path separator. The host renders it padded with
// spaces, so both forms appear on the wire.
const Separator = "/"

// DisplaySeparator is the separator as rendered by the host.
const DisplaySeparator = " / "

// Category path segments, directly below the theme name.
const (
	CategoryScheme      = "scheme"
	CategoryStateLayers = "state-layers"
	CategoryPalettes    = "palettes"
)

// SourceName is the leaf name of a theme's root asset. Exactly one asset
// per theme carries this name with a one-segment path; that is the sole
// signal used to discover theme boundaries in an unordered asset list.
const SourceName = "source"

// SplitPath splits an asset path into its segments, accepting both the
// logical and the host-rendered separator.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, Separator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, strings.TrimSpace(part))
	}
	return segments
}

// JoinPath joins path segments with the logical separator. The host
// normalizes to its display form on write.
func JoinPath(segments []string) string {
	return strings.Join(segments, Separator)
}

// DisplayPath joins path segments the way the host renders them.
func DisplayPath(segments []string) string {
	return strings.Join(segments, DisplaySeparator)
}

// OpacityName renders a state-layer leaf name for an opacity level, e.g.
// "opacity-0.08".
func OpacityName(opacity float64) string {
	return fmt.Sprintf("opacity-%.2f", opacity)
}

// ParseOpacityName reverses OpacityName.
func ParseOpacityName(name string) (float64, bool) {
	raw, found := strings.CutPrefix(name, "opacity-")
	if !found {
		return 0, false
	}
	opacity, err := strconv.ParseFloat(raw, 64)
	if err != nil || opacity < 0 || opacity > 1 {
		return 0, false
	}
	return opacity, true
}

// PaletteToneName renders a palette leaf name, e.g. "primary-40".
func PaletteToneName(palette string, tone int) string {
	return fmt.Sprintf("%s-%d", palette, tone)
}

// ParsePaletteToneName reverses PaletteToneName. The palette name may
// itself not contain a hyphen, so the split happens at the last one.
func ParsePaletteToneName(name string) (palette string, tone int, ok bool) {
	idx := strings.LastIndex(name, "-")
	if idx <= 0 || idx == len(name)-1 {
		return "", 0, false
	}
	tone, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return name[:idx], tone, true
}
