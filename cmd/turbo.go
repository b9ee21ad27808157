package cmd

import (
	"github.com/markusressel/g2go/cmd/global"
	"github.com/spf13/cobra"
)

var turboCmd = &cobra.Command{
	Use:   "turbo",
	Short: "Toggle the G mode",
	Long:  `Toggles the G mode (turbo) of the device, the same way the G key does.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		_, err = daemon.Engine.ToggleTurbo(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(turboCmd)
}
