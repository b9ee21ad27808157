package power

import (
	"fmt"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "power [mode]",
	Short: "Get/Set the power mode",
	Long: `Without an argument the current power mode is printed.
Valid modes are: Quiet, Balanced, Performance and Manual.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode settings.PowerMode
		if len(args) > 0 {
			parsed, err := settings.ParsePowerMode(args[0])
			if err != nil {
				return err
			}
			mode = parsed
		}

		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		if len(args) > 0 {
			if _, err := daemon.Engine.ApplyPowerMode(cmd.Context(), mode); err != nil {
				return err
			}
		}

		fmt.Println(daemon.Engine.DisplayMode())
		return nil
	},
}
