package cli

import (
	"os"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/thematic-dev/thematic/internal/transport"
)

// hostCmd represents the host command
var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Serve a host document as a plugin process",
	Long: `Serve the host side of the message channel so another thematic process
can drive it with --host-plugin. The document is loaded from --document
and written back to --save when the panel disconnects.

This command is meant to be launched by the panel process, not by hand.`,
	Hidden: true,
	RunE:   runHost,
}

// runHost executes the host command.
func runHost(cmd *cobra.Command, args []string) error {
	level := hclog.Warn
	if flagVerbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "thematic-host",
		Output: os.Stderr,
		Level:  level,
	})

	doc, err := loadDocument()
	if err != nil {
		return err
	}

	transport.Serve(cmd.Context(), doc, logger)
	return saveDocument(doc)
}
