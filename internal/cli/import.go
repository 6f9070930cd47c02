package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/compression"
	"github.com/thematic-dev/thematic/internal/theme"
	"github.com/thematic-dev/thematic/pkg/protocol"
)

var importName string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Import theme assets from an archive",
	Long: `Import the assets of an exported theme archive into the library. With
--name the assets are rebased under a new theme name.

Examples:
  thematic import my-theme.tar.xz
  thematic import my-theme.tar.xz --name my-theme-copy`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "import under a different theme name")
}

// runImport executes the import command.
func runImport(cmd *cobra.Command, args []string) error {
	assets, err := readThemeArchive(args[0])
	if err != nil {
		return err
	}

	if importName != "" {
		for i, asset := range assets {
			segments := theme.SplitPath(asset.Path)
			segments[0] = importName
			assets[i].Path = theme.JoinPath(segments)
		}
	}

	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	created, err := s.builder().ImportAssets(cmd.Context(), assets)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d assets from %s\n", len(created), args[0])
	return nil
}

// readThemeArchive loads the exported asset list from an archive.
func readThemeArchive(path string) ([]protocol.Asset, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer in.Close()

	files, err := compression.ReadArchive(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	data, ok := files[themeEntry]
	if !ok {
		return nil, fmt.Errorf("archive has no %s entry", themeEntry)
	}

	var assets []protocol.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to decode theme assets: %w", err)
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("archive holds no assets")
	}
	return assets, nil
}
