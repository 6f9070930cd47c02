// Package cli provides the command-line interface for Thematic.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/version"
)

var (
	// Global flags
	flagVerbose    bool
	flagDocument   string
	flagSave       string
	flagHostPlugin string
	flagTimeout    time.Duration

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "thematic",
		Short: "Material color theme assets for your design library",
		Long: `Thematic derives full Material color themes from a single source color and
manages them as library assets: color schemes for light and dark, state
layers, and tonal palettes.

Themes live in a host document. By default thematic operates on a local
document loaded from (and saved to) a snapshot file; with --host-plugin it
drives an external host process over RPC instead.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&flagDocument, "document", "d", "", "document snapshot to load (JSON or .tar.xz)")
	rootCmd.PersistentFlags().StringVarP(&flagSave, "save", "s", "", "write the document snapshot back to this path on exit")
	rootCmd.PersistentFlags().StringVar(&flagHostPlugin, "host-plugin", "", "path to a host plugin binary to drive instead of a local document")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-operation deadline (0 waits forever)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(swapCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(hostCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
