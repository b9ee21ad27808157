package fan

import (
	"fmt"
	"strconv"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/spf13/cobra"
)

var speedCmd = &cobra.Command{
	Use:   "speed [cpu] [gpu]",
	Short: "Get/Set the manual fan targets in percent",
	Long: `Without arguments the configured targets are printed.
Setting targets switches the device to the Manual power mode.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or both cpu and gpu speed, got %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var speeds [2]uint8
		for i, arg := range args {
			value, err := strconv.ParseUint(arg, 10, 8)
			if err != nil || value > 100 {
				return fmt.Errorf("invalid speed %q, must be within 0-100", arg)
			}
			speeds[i] = uint8(value)
		}

		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		if len(args) > 0 {
			if _, err := daemon.Engine.ApplyManualFanSpeeds(cmd.Context(), speeds[0], speeds[1]); err != nil {
				return err
			}
		}

		config := daemon.Engine.Snapshot()
		fmt.Printf("CPU %d%%, GPU %d%%\n", config.CpuFanTarget, config.GpuFanTarget)
		return nil
	},
}

func init() {
	Command.AddCommand(speedCmd)
}
