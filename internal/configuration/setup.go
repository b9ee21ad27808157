package configuration

import "time"

type SetupConfig struct {
	// Script is run through pkexec to install the udev and polkit rules.
	Script      string        `json:"script"`
	UdevRules   string        `json:"udevRules"`
	PolkitRules string        `json:"polkitRules"`
	Timeout     time.Duration `json:"timeout"`
}
