package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/services"
	"github.com/thematic-dev/thematic/internal/theme"
)

var (
	// Swap command flags
	swapDark      bool
	swapSelection bool
	swapThemes    []string
)

// swapCmd represents the swap command
var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Swap shapes between a theme's light and dark variants",
	Long: `Swap the colors of shapes between the light and dark variants of the
library's themes. Shapes bound to a light asset take the matching dark
asset with --dark, and the reverse without it.

Examples:
  # Move the whole page to dark
  thematic swap --dark

  # Back to light, selection only, one theme
  thematic swap --selection --theme my-theme`,
	RunE: runSwap,
}

func init() {
	swapCmd.Flags().BoolVar(&swapDark, "dark", false, "swap to the dark variant (default swaps to light)")
	swapCmd.Flags().BoolVar(&swapSelection, "selection", false, "only recolor the current selection")
	swapCmd.Flags().StringSliceVarP(&swapThemes, "theme", "t", nil, "themes to swap (default: all)")
}

// runSwap executes the swap command.
func runSwap(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if swapSelection {
		if err := s.requireSelection(); err != nil {
			return err
		}
	}

	lib, err := s.panel().LoadThemes(cmd.Context())
	if err != nil {
		return err
	}

	targets, err := selectThemes(lib, swapThemes)
	if err != nil {
		return err
	}

	result, err := s.tools().SwapColors(cmd.Context(), targets, swapDark, recolorScope(swapSelection))
	if err != nil {
		return err
	}

	fmt.Printf("Recolored %d of %d shapes\n", result.Updated, result.Shapes)
	return nil
}

// selectThemes picks the named themes from the library, or all of them when
// no names are given.
func selectThemes(lib *services.Library, names []string) ([]theme.Theme, error) {
	if len(names) == 0 {
		return lib.Themes, nil
	}
	selected := make([]theme.Theme, 0, len(names))
	for _, name := range names {
		t, err := findTheme(lib, name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, t)
	}
	return selected, nil
}

func recolorScope(selection bool) services.Scope {
	if selection {
		return services.ScopeSelection
	}
	return services.ScopePage
}
