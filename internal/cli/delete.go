package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <theme-name>",
	Short: "Request deletion of a theme from the library",
	Long: `Request deletion of every asset under a theme name. Host support for
deletion is still pending; the request is sent and acknowledged with a
warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

// runDelete executes the delete command.
func runDelete(cmd *cobra.Command, args []string) error {
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

	if err := s.builder().DeleteTheme(cmd.Context(), target.Name); err != nil {
		return err
	}

	fmt.Printf("Requested deletion of theme %q\n", target.Name)
	return nil
}
