package lighting

import (
	"bytes"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "List the preset colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows [][]string
		for _, color := range settings.PresetColors {
			rows = append(rows, []string{color.Name, color.Color.Hex(), color.Color.String()})
		}
		colorTable := table.Table{
			Headers: []string{"Name", "Hex", "RGB"},
			Rows:    rows,
		}

		var buf bytes.Buffer
		err := colorTable.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if err != nil {
			return err
		}
		ui.Printfln(buf.String())
		return nil
	},
}

func init() {
	Command.AddCommand(colorsCmd)
}
