package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var replaceSelection bool

// replaceCmd represents the replace command
var replaceCmd = &cobra.Command{
	Use:   "replace <current-theme> <replacement-theme>",
	Short: "Recolor shapes from one theme onto another",
	Long: `Recolor shapes bound to assets of one theme with the corresponding assets
of another. Assets correspond when they share the same name and position
inside their theme; shapes bound to assets without a counterpart keep
their color.

Examples:
  thematic replace old-brand new-brand
  thematic replace old-brand new-brand --selection`,
	Args: cobra.ExactArgs(2),
	RunE: runReplace,
}

func init() {
	replaceCmd.Flags().BoolVar(&replaceSelection, "selection", false, "only recolor the current selection")
}

// runReplace executes the replace command.
func runReplace(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if replaceSelection {
		if err := s.requireSelection(); err != nil {
			return err
		}
	}

	lib, err := s.panel().LoadThemes(cmd.Context())
	if err != nil {
		return err
	}

	current, err := findTheme(lib, args[0])
	if err != nil {
		return err
	}
	replacement, err := findTheme(lib, args[1])
	if err != nil {
		return err
	}

	result, err := s.tools().ReplaceThemes(cmd.Context(), current, replacement, recolorScope(replaceSelection))
	if err != nil {
		return err
	}

	fmt.Printf("Recolored %d of %d shapes\n", result.Updated, result.Shapes)
	return nil
}
