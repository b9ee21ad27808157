package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/internal"
	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/gateway"
	"github.com/markusressel/g2go/internal/hwmon"
	"github.com/markusressel/g2go/internal/probe"
	"github.com/markusressel/g2go/internal/status"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Probes the laptop for supported subsystems and prints them together with all temperature sensors`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := global.LoadConfig()
		if err != nil {
			return err
		}
		gw, err := internal.NewGateway(config)
		if err != nil {
			return err
		}

		result := probe.NewProber(gw, status.NewBoard()).Probe(cmd.Context())

		// === Print detected devices ===
		tableConfig := &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}

		devices, err := gw.CheckUsbDevices(cmd.Context())
		if err != nil {
			devices = []string{err.Error()}
		}
		permissions, err := gw.CheckPermissions(cmd.Context())
		if err != nil {
			permissions = err.Error()
		}

		tables := []table.Table{
			capabilityTable(result.Capabilities, gw),
			{
				Headers: []string{"Setup  ", "Value"},
				Rows: [][]string{
					{"Permissions", permissions},
					{"USB devices", strings.Join(devices, ", ")},
					{"Setup needed", fmt.Sprintf("%v", result.SetupNeeded)},
				},
			},
			sensorTable(hwmon.GetTemperatureSensors()),
		}

		for idx, t := range tables {
			if t.Rows == nil {
				continue
			}
			var buf bytes.Buffer
			tableErr := t.WriteTable(&buf, tableConfig)
			if tableErr != nil {
				ui.Fatal("Error printing table: %v", tableErr)
			}
			tableString := buf.String()
			if idx < (len(tables) - 1) {
				ui.Printf(tableString)
			} else {
				ui.Printfln(tableString)
			}
		}
		return nil
	},
}

func capabilityTable(caps device.Capabilities, gw gateway.Gateway) table.Table {
	var modes []string
	for _, mode := range caps.PowerModes.Modes() {
		modes = append(modes, mode.String())
	}
	return table.Table{
		Headers: []string{"Device ", "Value"},
		Rows: [][]string{
			{"Model", caps.Model},
			{"Keyboard", fmt.Sprintf("%v", caps.KeyboardSupported)},
			{"Power", fmt.Sprintf("%v", caps.PowerSupported)},
			{"Power modes", strings.Join(modes, ", ")},
			{"Manual fans", fmt.Sprintf("%v", !caps.FanControlLimited)},
			{"Turbo", fmt.Sprintf("%v", caps.TurboInitiallyEnabled)},
			{"Spectrum", fmt.Sprintf("%v", gw.Supports(gateway.FeatureSpectrum))},
			{"Rainbow", fmt.Sprintf("%v", gw.Supports(gateway.FeatureRainbow))},
		},
	}
}

func sensorTable(sensors []hwmon.TemperatureSensor) table.Table {
	var rows [][]string
	for _, sensor := range sensors {
		rows = append(rows, []string{
			"", sensor.Chip, sensor.Label, fmt.Sprintf("%.1f", sensor.Value),
		})
	}
	return table.Table{
		Headers: []string{"Sensors", "Chip", "Label", "Value"},
		Rows:    rows,
	}
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
