package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/theme"
)

var (
	// Sync command flags
	syncAddNew      bool
	syncRemoveExtra bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync <source-theme> <target-theme>...",
	Short: "Propagate a theme's colors to other themes",
	Long: `Propagate the source theme's colors to each target theme. Assets present
in both take the source values; assets the target lacks are created under
its name unless --add-new=false, and assets the source no longer has are
removed from the target unless --remove-extra=false.

Examples:
  thematic sync brand brand-staging
  thematic sync brand team-a team-b --add-new=false --remove-extra=false`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAddNew, "add-new", true, "create assets the target lacks")
	syncCmd.Flags().BoolVar(&syncRemoveExtra, "remove-extra", true, "remove target assets the source no longer has")
}

// runSync executes the sync command.
func runSync(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	lib, err := s.panel().LoadThemes(cmd.Context())
	if err != nil {
		return err
	}

	source, err := findTheme(lib, args[0])
	if err != nil {
		return err
	}

	targets := make([]theme.Theme, 0, len(args)-1)
	for _, name := range args[1:] {
		target, err := findTheme(lib, name)
		if err != nil {
			return err
		}
		if target.Name == source.Name {
			return fmt.Errorf("cannot sync theme %q onto itself", source.Name)
		}
		targets = append(targets, target)
	}

	if err := s.tools().SyncThemes(cmd.Context(), source, targets, syncAddNew, syncRemoveExtra); err != nil {
		return err
	}

	fmt.Printf("Synced %q to %d theme(s)\n", source.Name, len(targets))
	return nil
}
