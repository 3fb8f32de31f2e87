package cmd

import (
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the timer and start a work phase",
	Long: `Same as "focusify run", but a work phase is started right away
instead of waiting for the start command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, true)
	},
}

func init() {
	addRunFlags(startCmd)
}
