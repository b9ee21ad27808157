package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/util"
)

const (
	placeholderRed      = "%r%"
	placeholderGreen    = "%g%"
	placeholderBlue     = "%b%"
	placeholderDuration = "%duration%"
	placeholderZones    = "%zones%"
	placeholderHex      = "%hex%"
)

// CommandRunner executes an external command and returns its output.
type CommandRunner func(ctx context.Context, executable string, args []string, timeout time.Duration) (string, error)

// KeyboardLeds runs the configured external command for each lighting effect.
type KeyboardLeds struct {
	commands configuration.LedCommandsConfig
	timeout  time.Duration
	run      CommandRunner
}

func NewKeyboardLeds(commands configuration.LedCommandsConfig, timeout time.Duration) *KeyboardLeds {
	return &KeyboardLeds{
		commands: commands,
		timeout:  timeout,
		run:      util.SafeCmdExecution,
	}
}

type ledParams struct {
	color      settings.RGB
	durationMs uint16
	zones      [settings.ZoneCount]settings.RGB
}

func (k *KeyboardLeds) execute(ctx context.Context, op string, command *configuration.LedCommandConfig, params ledParams, success string) (string, error) {
	if command == nil {
		return "", newCommandError(op, "No command configured for %s", op)
	}
	args := make([]string, len(command.Args))
	for i, arg := range command.Args {
		args[i] = expandPlaceholders(arg, params)
	}
	output, err := k.run(ctx, command.Exec, args, k.timeout)
	if err != nil {
		return "", wrapCommandError(op, err)
	}
	if output != "" {
		return output, nil
	}
	return success, nil
}

func expandPlaceholders(arg string, params ledParams) string {
	zones := make([]string, len(params.zones))
	for i, zone := range params.zones {
		zones[i] = zone.String()
	}
	replacer := strings.NewReplacer(
		placeholderRed, strconv.Itoa(int(params.color.R())),
		placeholderGreen, strconv.Itoa(int(params.color.G())),
		placeholderBlue, strconv.Itoa(int(params.color.B())),
		placeholderHex, strings.TrimPrefix(params.color.Hex(), "#"),
		placeholderDuration, strconv.Itoa(int(params.durationMs)),
		placeholderZones, strings.Join(zones, ";"),
	)
	return replacer.Replace(arg)
}

func (k *KeyboardLeds) SetStaticColor(ctx context.Context, color settings.RGB) (string, error) {
	return k.execute(ctx, "set_static_color", k.commands.Static, ledParams{color: color},
		fmt.Sprintf("Static color set to RGB(%s)", color))
}

func (k *KeyboardLeds) SetMorph(ctx context.Context, color settings.RGB, durationMs uint16) (string, error) {
	return k.execute(ctx, "set_morph", k.commands.Morph, ledParams{color: color, durationMs: durationMs},
		fmt.Sprintf("Morph effect applied (%d ms)", durationMs))
}

func (k *KeyboardLeds) SetPulseEffect(ctx context.Context, color settings.RGB, durationMs uint16) (string, error) {
	return k.execute(ctx, "set_pulse_effect", k.commands.Pulse, ledParams{color: color, durationMs: durationMs},
		fmt.Sprintf("Breathing effect applied (%d ms)", durationMs))
}

func (k *KeyboardLeds) SetZoneColors(ctx context.Context, zones [settings.ZoneCount]settings.RGB) (string, error) {
	return k.execute(ctx, "set_zone_colors", k.commands.Zones, ledParams{zones: zones},
		"Zone colors applied")
}

func (k *KeyboardLeds) TurnOffLeds(ctx context.Context) (string, error) {
	return k.execute(ctx, "turn_off_leds", k.commands.Off, ledParams{}, "LEDs turned off")
}

func (k *KeyboardLeds) SetSpectrum(ctx context.Context, durationMs uint16) (string, error) {
	return k.execute(ctx, "set_spectrum", k.commands.Spectrum, ledParams{durationMs: durationMs},
		fmt.Sprintf("Spectrum effect applied (%d ms)", durationMs))
}

func (k *KeyboardLeds) SetRainbow(ctx context.Context, durationMs uint16) (string, error) {
	return k.execute(ctx, "set_rainbow", k.commands.Rainbow, ledParams{durationMs: durationMs},
		fmt.Sprintf("Rainbow effect applied (%d ms)", durationMs))
}

func (k *KeyboardLeds) SupportsSpectrum() bool {
	return k.commands.Spectrum != nil
}

func (k *KeyboardLeds) SupportsRainbow() bool {
	return k.commands.Rainbow != nil
}
