package cmd

import (
	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the permission rules required to access the device",
	Long: `Runs the setup script with elevated privileges. It installs the udev rule for the
keyboard and the polkit rule for ACPI calls. A restart is required afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		if !daemon.Probe.SetupNeeded {
			ui.Info("Permissions are already configured, running setup anyway")
		}
		_, err = daemon.Prober.RunSetup(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
