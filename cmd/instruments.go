package cmd

import (
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/outwriter"
	"github.com/spf13/cobra"
)

// instrumentsCmd lists the registry or shows one definition.
var instrumentsCmd = &cobra.Command{
	Use:   "instruments [key]",
	Short: "List registered instruments or show one definition",
	Long: `Show the instrument registry.

Without arguments, lists every instrument with its item count, answer scale,
polarity and subscales. With a key, prints the questions and the
interpretation bands of that instrument.

Extra definitions are loaded from the instruments list of the config file.

Examples:
  mindscore instruments
  mindscore instruments anxiety_gad7
  mindscore instruments depression_phq9 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ow := outwriter.NewOutWriter()
		if len(args) == 0 {
			if err := ow.WriteInstruments(engine.Registry().Definitions(), cfg); err != nil {
				contract.LogFatal("Failed to write instruments", err)
			}
			return
		}

		def, err := engine.Registry().Get(args[0])
		if err != nil {
			contract.LogFatal("Failed to find instrument", err)
		}
		if err := ow.WriteInstrument(def, cfg); err != nil {
			contract.LogFatal("Failed to write instrument", err)
		}
	},
}
