package fan

import (
	"fmt"
	"strings"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset [name]",
	Short: "Get/Set the fan preset",
	Long:  fmt.Sprintf("Without an argument the selected preset is printed.\nValid presets are: %s", presetNames()),
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var preset settings.FanPreset
		if len(args) > 0 {
			parsed, err := settings.ParseFanPreset(args[0])
			if err != nil {
				return err
			}
			preset = parsed
		}

		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		if len(args) > 0 {
			if _, err := daemon.Engine.ApplyFanPreset(cmd.Context(), preset); err != nil {
				return err
			}
		}

		selected := daemon.Engine.Snapshot().SelectedFanPreset
		if !selected.IsSet() {
			fmt.Println("none")
			return nil
		}
		speeds := selected.Speeds()
		fmt.Printf("%s (CPU %d%%, GPU %d%%)\n", selected, speeds.Cpu, speeds.Gpu)
		return nil
	},
}

func presetNames() string {
	var names []string
	for _, preset := range settings.FanPresets() {
		names = append(names, preset.String())
	}
	return strings.Join(names, ", ")
}

func init() {
	Command.AddCommand(presetCmd)
}
