package lighting

import (
	"fmt"
	"strings"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/spf13/cobra"
)

var (
	color    string
	duration uint16
	zones    []string
)

var Command = &cobra.Command{
	Use:   "lighting [mode]",
	Short: "Get/Set the keyboard lighting",
	Long: fmt.Sprintf(`Without an argument the current lighting is printed.
Valid modes are: %s
Colors are given as "r,g,b" or "#rrggbb".`, modeNames()),
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		daemon, err := global.OpenSession(cmd.Context())
		if err != nil {
			return err
		}
		defer daemon.Close()

		if len(args) > 0 {
			mode, err := settings.ParseLightingMode(args[0])
			if err != nil {
				return err
			}
			changed := func(name string) bool {
				return cmd.Flags().Changed(name)
			}
			changes, err := buildChanges(mode, changed)
			if err != nil {
				return err
			}
			if _, err := daemon.Engine.ApplyLighting(cmd.Context(), changes...); err != nil {
				return err
			}
		}

		fmt.Println(describe(daemon.Engine.Snapshot().Lighting))
		return nil
	},
}

// buildChanges selects mode and adds a change for every changed flag.
func buildChanges(mode settings.LightingMode, changed func(flag string) bool) ([]settings.Change, error) {
	changes := []settings.Change{settings.Set(settings.KeyLightingMode, mode)}

	if changed("color") {
		rgb, err := settings.ParseRGB(color)
		if err != nil {
			return nil, err
		}
		changes = append(changes,
			settings.Set(settings.KeyRed, rgb.R()),
			settings.Set(settings.KeyGreen, rgb.G()),
			settings.Set(settings.KeyBlue, rgb.B()),
		)
	}
	if changed("duration") {
		if duration < settings.MinDurationMs || duration > settings.MaxDurationMs {
			return nil, fmt.Errorf("duration must be within %d-%d ms, was %d",
				settings.MinDurationMs, settings.MaxDurationMs, duration)
		}
		changes = append(changes, settings.Set(settings.KeyDurationMs, duration))
	}
	if changed("zone") {
		if len(zones) != settings.ZoneCount {
			return nil, fmt.Errorf("expected %d zone colors, got %d", settings.ZoneCount, len(zones))
		}
		var colors [settings.ZoneCount]settings.RGB
		for i, zone := range zones {
			rgb, err := settings.ParseRGB(zone)
			if err != nil {
				return nil, err
			}
			colors[i] = rgb
		}
		changes = append(changes, settings.Set(settings.KeyZoneColors, colors))
	}
	return changes, nil
}

func describe(lighting settings.Lighting) string {
	switch lighting.Mode {
	case settings.LightingZone:
		var colors []string
		for _, zone := range lighting.ZoneColors {
			colors = append(colors, zone.Hex())
		}
		return fmt.Sprintf("%s %s", lighting.Mode, strings.Join(colors, " "))
	case settings.LightingOff:
		return lighting.Mode.String()
	}
	if lighting.Mode.UsesDuration() {
		return fmt.Sprintf("%s %s %d ms", lighting.Mode, lighting.Color().Hex(), lighting.DurationMs)
	}
	return fmt.Sprintf("%s %s", lighting.Mode, lighting.Color().Hex())
}

func modeNames() string {
	var names []string
	for _, mode := range settings.LightingModes() {
		names = append(names, mode.String())
	}
	return strings.Join(names, ", ")
}

func init() {
	Command.Flags().StringVarP(&color, "color", "", "", "Effect color")
	Command.Flags().Uint16VarP(&duration, "duration", "d", settings.MaxDurationMs, "Effect duration in milliseconds")
	Command.Flags().StringArrayVarP(&zones, "zone", "z", nil, "Zone color, repeat once per zone from left to right")
}
