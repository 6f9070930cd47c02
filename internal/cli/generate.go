package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/extract"
	"github.com/thematic-dev/thematic/internal/material"
	"github.com/thematic-dev/thematic/internal/theme"
)

var (
	// Generate command flags
	generateColor       string
	generateImage       string
	generatePalettes    bool
	generateStateLayers bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <theme-name>",
	Short: "Generate a full Material theme from a source color",
	Long: `Generate a complete Material theme as library assets: the source color,
light and dark color schemes, and optionally state layers and tonal
palettes.

The source color is given with --color, or extracted from an image with
--image.

Examples:
  # From a hex color
  thematic generate my-theme --color "#673AB7"

  # From the dominant color of a wallpaper, with everything
  thematic generate my-theme --image wallpaper.jpg --state-layers --palettes`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateColor, "color", "c", "", "source color as hex (#rgb or #rrggbb)")
	generateCmd.Flags().StringVarP(&generateImage, "image", "i", "", "image file to extract the source color from")
	generateCmd.Flags().BoolVar(&generatePalettes, "palettes", false, "also generate tonal palettes")
	generateCmd.Flags().BoolVar(&generateStateLayers, "state-layers", false, "also generate state layers")
	generateCmd.MarkFlagsOneRequired("color", "image")
	generateCmd.MarkFlagsMutuallyExclusive("color", "image")
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, args []string) error {
	themeName := args[0]

	sourceHex, err := resolveSourceColor()
	if err != nil {
		return err
	}

	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	generated, err := s.builder().GenerateTheme(cmd.Context(), themeName, sourceHex, generatePalettes, generateStateLayers)
	if err != nil {
		return err
	}

	fmt.Printf("Generated theme %q with %d assets (source %s)\n",
		generated.Name, len(theme.Flatten(*generated)), generated.Source.Color)
	return nil
}

// resolveSourceColor yields the normalized source hex from --color or
// --image.
func resolveSourceColor() (string, error) {
	if generateImage != "" {
		source, err := extract.SourceColor(generateImage)
		if err != nil {
			return "", fmt.Errorf("failed to extract source color: %w", err)
		}
		return source.Hex(), nil
	}

	normalized, ok := material.NormalizeHex(generateColor)
	if !ok {
		return "", fmt.Errorf("invalid color %q: expected #rgb or #rrggbb", generateColor)
	}
	return normalized, nil
}
