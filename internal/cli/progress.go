package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/thematic-dev/thematic/internal/services"
)

// newProgressNotifier returns a notifier rendering operation progress to
// stderr. On a terminal the line is redrawn in place and sized to the
// terminal width; otherwise only phase transitions are printed.
func newProgressNotifier() services.Notifier {
	tty := term.IsTerminal(int(os.Stderr.Fd()))

	return func(p services.Progress) {
		if !tty {
			if p.Phase != services.PhaseUpdated {
				fmt.Fprintln(os.Stderr, p.Message)
			}
			return
		}

		line := p.Message
		if p.Total > 0 {
			line = fmt.Sprintf("%s %d/%d", p.Message, p.Loaded, p.Total)
		}

		width, _, err := term.GetSize(int(os.Stderr.Fd()))
		if err == nil && width > 1 && len(line) > width-1 {
			line = line[:width-1]
		}

		// Clear the previous line before redrawing.
		fmt.Fprintf(os.Stderr, "\r\x1b[2K%s", line)
		if p.Phase == services.PhaseCompleted {
			fmt.Fprintln(os.Stderr)
		}
	}
}
