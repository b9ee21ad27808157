package config

import (
	"encoding/json"
	"fmt"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the effective configuration including defaults",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := global.LoadConfig()
		if err != nil {
			return err
		}

		// go through json to use the same keys as the config file
		data, err := json.Marshal(config)
		if err != nil {
			return err
		}
		var document map[string]any
		if err := json.Unmarshal(data, &document); err != nil {
			return err
		}
		out, err := yaml.Marshal(document)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	Command.AddCommand(showCmd)
}
