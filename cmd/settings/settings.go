package settings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/markusressel/g2go/cmd/global"
	"github.com/markusressel/g2go/internal/engine"
	"github.com/markusressel/g2go/internal/persistence"
	model "github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var Command = &cobra.Command{
	Use:              "settings",
	Short:            "Inspect and edit the saved settings",
	Long:             `Changes are sent to the device before they are saved. A running daemon picks them up.`,
	TraverseChildren: true,
}

func openStore() (persistence.SettingsStore, error) {
	config, err := global.LoadConfig()
	if err != nil {
		return nil, err
	}
	store := persistence.NewPersistence(config.DbPath)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

// exportDocument renders config as a YAML document using the persisted key names.
func exportDocument(config model.Configuration) ([]byte, error) {
	return yaml.Marshal(config.Fields())
}

var errPresetNotClearable = errors.New("the fan preset is cleared by selecting a power mode other than Manual")

var lightingKeys = []string{
	model.KeyLightingMode,
	model.KeyRed,
	model.KeyGreen,
	model.KeyBlue,
	model.KeyDurationMs,
	model.KeyZoneColors,
}

// parseDocument turns the keys of a YAML document into changes, sorted by key.
func parseDocument(data []byte) ([]model.Change, error) {
	var document map[string]any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}
	keys := maps.Keys(document)
	slices.Sort(keys)

	changes := make([]model.Change, 0, len(keys))
	for _, key := range keys {
		changes = append(changes, model.Set(key, document[key]))
	}
	return changes, nil
}

// applyChanges runs the intent of every key whose value differs from the current
// configuration. Nothing is sent when a change is invalid. Fan targets given along
// with a power mode other than Manual are not applied.
func applyChanges(ctx context.Context, e *engine.Engine, changes []model.Change) error {
	target, err := e.Snapshot().Apply(changes...)
	if err != nil {
		return err
	}
	keys := map[string]bool{}
	var lighting []model.Change
	for _, change := range changes {
		keys[change.Key] = true
		if slices.Contains(lightingKeys, change.Key) {
			lighting = append(lighting, change)
		}
	}

	if keys[model.KeyPowerMode] && target.PowerMode != e.Snapshot().PowerMode {
		if _, err := e.ApplyPowerMode(ctx, target.PowerMode); err != nil {
			return err
		}
	}

	if keys[model.KeySelectedFanPreset] && target.SelectedFanPreset != e.Snapshot().SelectedFanPreset {
		if !target.SelectedFanPreset.IsSet() {
			return errPresetNotClearable
		}
		if _, err := e.ApplyFanPreset(ctx, target.SelectedFanPreset); err != nil {
			return err
		}
	}

	if keys[model.KeyCpuFanTarget] || keys[model.KeyGpuFanTarget] {
		current := e.Snapshot()
		differs := target.CpuFanTarget != current.CpuFanTarget || target.GpuFanTarget != current.GpuFanTarget
		if differs && (!keys[model.KeyPowerMode] || target.PowerMode == model.PowerModeManual) {
			if _, err := e.ApplyManualFanSpeeds(ctx, target.CpuFanTarget, target.GpuFanTarget); err != nil {
				return err
			}
		}
	}

	if keys[model.KeyTurboActive] && target.TurboActive != e.TurboActive() {
		if _, err := e.ToggleTurbo(ctx); err != nil {
			return err
		}
	}

	if len(lighting) > 0 && target.Lighting != e.Snapshot().Lighting {
		if e.Capabilities().KeyboardSupported {
			_, err = e.ApplyLighting(ctx, lighting...)
		} else {
			_, err = e.UpdateLighting(lighting...)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// withEngine runs fn against an engine bound to the device.
func withEngine(ctx context.Context, fn func(e *engine.Engine) error) error {
	daemon, err := global.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer daemon.Close()
	return fn(daemon.Engine)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		data, err := exportDocument(store.Load())
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the saved settings to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		data, err := exportDocument(store.Load())
		if err != nil {
			return err
		}
		return util.WriteFileAtomic(args[0], bytes.NewReader(data))
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Apply the settings of a YAML file",
	Long:  `Keys missing from the file keep their value.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		changes, err := parseDocument(data)
		if err != nil {
			return err
		}
		return withEngine(cmd.Context(), func(e *engine.Engine) error {
			return applyChanges(cmd.Context(), e, changes)
		})
	},
}

var setCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change a single setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: model.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine) error {
			return applyChanges(cmd.Context(), e, []model.Change{model.Set(args[0], args[1])})
		})
	},
}

func init() {
	Command.AddCommand(showCmd)
	Command.AddCommand(exportCmd)
	Command.AddCommand(importCmd)
	Command.AddCommand(setCmd)
}
