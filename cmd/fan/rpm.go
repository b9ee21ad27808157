package fan

import (
	"fmt"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rpmCmd = &cobra.Command{
	Use:   "rpm",
	Short: "Get the current rpm value of both fans",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		snapshot, err := daemon.Feed.Poll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d %d\n", snapshot.Fan1Rpm, snapshot.Fan2Rpm)
		return nil
	},
}

func init() {
	Command.AddCommand(rpmCmd)
}
