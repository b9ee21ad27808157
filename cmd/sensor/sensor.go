package sensor

import (
	"fmt"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	componentCpu = "cpu"
	componentGpu = "gpu"
)

var component string

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the current temperature of the CPU or GPU",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		if component != componentCpu && component != componentGpu {
			return fmt.Errorf("unknown component: %s, options: %s, %s", component, componentCpu, componentGpu)
		}

		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		snapshot, err := daemon.Feed.Poll(cmd.Context())
		if err != nil {
			return err
		}

		value := snapshot.CpuTemp
		if component == componentGpu {
			value = snapshot.GpuTemp
		}
		fmt.Printf("%d", int(value))
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&component,
		"id", "i",
		componentCpu,
		"Component to read, cpu or gpu",
	)
}
