package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/services"
	"github.com/thematic-dev/thematic/internal/theme"
)

// themesCmd represents the themes command
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the themes in the library",
	RunE:  runThemes,
}

// runThemes executes the themes command.
func runThemes(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	lib, err := s.panel().LoadThemes(cmd.Context())
	if err != nil {
		return err
	}

	if len(lib.Themes) == 0 {
		fmt.Println("No themes in the library.")
		return nil
	}

	table := NewTable([]string{"NAME", "SOURCE", "ASSETS", "STATE LAYERS", "PALETTES"})
	for _, t := range lib.Themes {
		table.AddRow([]string{
			t.Name,
			t.Source.Color,
			strconv.Itoa(len(theme.Flatten(t))),
			yesNo(len(t.StateLayers) > 0),
			yesNo(len(t.Palettes) > 0),
		})
	}
	fmt.Print(table.Render())
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// findTheme resolves one theme by name from a fetched library.
func findTheme(lib *services.Library, name string) (theme.Theme, error) {
	for _, t := range lib.Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return theme.Theme{}, fmt.Errorf("theme %q not found in the library", name)
}
