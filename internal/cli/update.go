package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/material"
	"github.com/thematic-dev/thematic/internal/theme"
)

var (
	// Update command flags
	updateName        string
	updateColor       string
	updatePalettes    bool
	updateStateLayers bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <theme-name>",
	Short: "Update an existing theme in place",
	Long: `Update an existing theme's assets in place. A new source color recomputes
every asset from its position in the theme; a new name renames the whole
asset tree. State layers and tonal palettes can be added to a theme that
lacks them, but existing ones are left untouched.

Examples:
  # Recolor a theme from a new source
  thematic update my-theme --color "#00695C"

  # Rename and backfill state layers
  thematic update my-theme --name brand --state-layers`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "new theme name")
	updateCmd.Flags().StringVarP(&updateColor, "color", "c", "", "new source color as hex")
	updateCmd.Flags().BoolVar(&updatePalettes, "palettes", false, "generate tonal palettes if the theme has none")
	updateCmd.Flags().BoolVar(&updateStateLayers, "state-layers", false, "generate state layers if the theme has none")
}

// runUpdate executes the update command.
func runUpdate(cmd *cobra.Command, args []string) error {
	themeName := args[0]

	newHex := ""
	if updateColor != "" {
		normalized, ok := material.NormalizeHex(updateColor)
		if !ok {
			return fmt.Errorf("invalid color %q: expected #rgb or #rrggbb", updateColor)
		}
		newHex = normalized
	}
	if newHex == "" && updateName == "" && !updatePalettes && !updateStateLayers {
		return fmt.Errorf("nothing to update: give --color, --name, --palettes or --state-layers")
	}

	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	lib, err := s.panel().LoadThemes(cmd.Context())
	if err != nil {
		return err
	}
	existing, err := findTheme(lib, themeName)
	if err != nil {
		return err
	}

	updated, err := s.builder().UpdateTheme(cmd.Context(), existing, updateName, newHex, updatePalettes, updateStateLayers)
	if err != nil {
		return err
	}

	fmt.Printf("Updated theme %q (%d assets)\n", updated.Name, len(theme.Flatten(*updated)))
	return nil
}
