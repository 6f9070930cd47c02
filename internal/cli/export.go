package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/compression"
	"github.com/thematic-dev/thematic/internal/theme"
)

// themeEntry is the archive member holding an exported theme's assets.
const themeEntry = "theme.json"

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <theme-name>",
	Short: "Export a theme's assets to an archive",
	Long: `Export every asset of a theme to a compressed archive that can be
imported into another document.

Examples:
  thematic export my-theme -o my-theme.tar.xz`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output archive path (default <theme-name>.tar.xz)")
}

// runExport executes the export command.
func runExport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	lib, err := s.panel().LoadThemes(cmd.Context())
	if err != nil {
		return err
	}
	target, err := findTheme(lib, args[0])
	if err != nil {
		return err
	}

	assets := theme.Flatten(target)
	data, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode theme assets: %w", err)
	}

	path := exportOutput
	if path == "" {
		path = target.Name + ".tar.xz"
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	if err := compression.WriteArchive(out, map[string][]byte{themeEntry: data}); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	fmt.Printf("Exported %d assets of theme %q to %s\n", len(assets), target.Name, path)
	return nil
}
