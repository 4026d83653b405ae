package outwriter

import (
	"os"

	"github.com/huangsam/mindscore/internal/contract"
	"golang.org/x/term"
)

// getMaxTextWidth calculates the maximum width of a free-text column in table
// output, given how much space the other columns take.
func getMaxTextWidth(cfg *contract.Config, reserved int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - reserved - 20
	if available < 15 {
		return 15
	}
	if available > 90 {
		return 90
	}
	return available
}
