package cmd

import (
	"github.com/markusressel/g2go/cmd/global"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Apply the saved settings to the device",
	Long:  `Re-applies the saved power mode, fan settings and keyboard lighting, e.g. after a reboot.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		daemon.Engine.Restore(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
