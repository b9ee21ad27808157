package configuration

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendDell      = "dell"
	BackendSimulated = "simulated"
)

type Configuration struct {
	DbPath  string `json:"dbPath"`
	Backend string `json:"backend"`

	SensorPollingRate time.Duration `json:"sensorPollingRate"`
	ModeSwitchDelay   time.Duration `json:"modeSwitchDelay"`
	CommandTimeout    time.Duration `json:"commandTimeout"`
	RestoreOnStartup  bool          `json:"restoreOnStartup"`

	Acpi          AcpiConfig         `json:"acpi"`
	Keyboard      KeyboardConfig     `json:"keyboard"`
	Setup         SetupConfig        `json:"setup"`
	Hotkey        HotkeyConfig       `json:"hotkey"`
	Notifications NotificationConfig `json:"notifications"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`
	Profiling  ProfilingConfig  `json:"profiling"`
}

type NotificationConfig struct {
	// Enabled is the answer used for the notification permission when no terminal is attached.
	Enabled bool `json:"enabled"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("g2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/g2go/")
	}

	viper.SetEnvPrefix("g2go")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/g2go/g2go.db")
	viper.SetDefault("backend", BackendDell)
	viper.SetDefault("sensorPollingRate", 3*time.Second)
	viper.SetDefault("modeSwitchDelay", 300*time.Millisecond)
	viper.SetDefault("commandTimeout", 5*time.Second)
	viper.SetDefault("restoreOnStartup", false)

	viper.SetDefault("acpi.callPath", "/proc/acpi/call")
	viper.SetDefault("acpi.method", "")
	viper.SetDefault("acpi.productNamePath", "/sys/class/dmi/id/product_name")
	viper.SetDefault("acpi.temperatureFallback.cpuChip", "coretemp")
	viper.SetDefault("acpi.temperatureFallback.gpuChip", "amdgpu")

	viper.SetDefault("keyboard.vendorId", DellVendorId)
	viper.SetDefault("keyboard.productIds", []int{0x0550, 0x0551})

	viper.SetDefault("setup.script", "/usr/share/g2go/setup-acpi.sh")
	viper.SetDefault("setup.udevRules", "/etc/udev/rules.d/99-dell-g-series.rules")
	viper.SetDefault("setup.polkitRules", "/etc/polkit-1/rules.d/50-dell-acpi-nopasswd.rules")
	viper.SetDefault("setup.timeout", 2*time.Minute)

	viper.SetDefault("hotkey.enabled", true)
	viper.SetDefault("hotkey.keyCode", KeyF9)
	viper.SetDefault("hotkey.inputPath", "/dev/input")

	viper.SetDefault("notifications.enabled", true)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("profiling.enabled", false)
	viper.SetDefault("profiling.host", "localhost")
	viper.SetDefault("profiling.port", 6060)
}

// DetectAndReadConfigFile reads the config file if one exists and returns its path.
// A missing config file is not an error, defaults are used instead.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			ui.Debug("No configuration file found, using defaults")
			return ""
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(&CurrentConfig)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

// WatchConfig reloads the configuration whenever the config file changes.
// onChange receives the freshly decoded configuration.
func WatchConfig(onChange func(config Configuration)) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		ui.Info("Config file changed: %s", e.Name)
		var updated Configuration
		if err := viper.Unmarshal(&updated); err != nil {
			ui.Error("Unable to decode changed config, keeping previous values: %v", err)
			return
		}
		if err := validateConfig(&updated, e.Name); err != nil {
			ui.Error("Changed config is invalid, keeping previous values: %v", err)
			return
		}
		onChange(updated)
	})
	viper.WatchConfig()
}
