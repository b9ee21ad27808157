package cmd

import (
	"fmt"
	"os"

	"github.com/markusressel/g2go/cmd/config"
	"github.com/markusressel/g2go/cmd/fan"
	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/cmd/lighting"
	"github.com/markusressel/g2go/cmd/power"
	"github.com/markusressel/g2go/cmd/sensor"
	"github.com/markusressel/g2go/cmd/settings"
	"github.com/markusressel/g2go/internal"
	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "g2go",
	Short: "A daemon to control keyboard lighting, power modes and fans of Dell G-series laptops.",
	Long: `g2go controls the RGB keyboard, the thermal profile, the fans
and the G mode of Dell G-series laptops and keeps them in sync
with your saved settings.`,
	// this is the default command to run when no subcommand is specified
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupUi()
	},
	Run: func(cmd *cobra.Command, args []string) {
		printHeader()

		daemonConfig, err := global.LoadConfig()
		if err != nil {
			ui.ErrorAndNotify("Config Validation Error", "%s", err.Error())
			return
		}

		internal.RunDaemon(daemonConfig)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/g2go.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)

	rootCmd.AddCommand(power.Command)
	rootCmd.AddCommand(fan.Command)
	rootCmd.AddCommand(lighting.Command)
	rootCmd.AddCommand(sensor.Command)
	rootCmd.AddCommand(settings.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("g", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("2", pterm.NewStyle(pterm.FgWhite)),
		pterm.NewLettersFromStringWithStyle("go", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()
	if err != nil {
		fmt.Println("g2go")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
