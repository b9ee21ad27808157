package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/util"
)

const setupLauncher = "pkexec"

// permissionRules is the set of system files installed by the setup script.
type permissionRules struct {
	udev   string
	polkit string
}

func newPermissionRules(config configuration.SetupConfig) permissionRules {
	return permissionRules{
		udev:   config.UdevRules,
		polkit: config.PolkitRules,
	}
}

// check returns PermissionsConfigured or the missing rule sets.
func (r permissionRules) check(exists func(path string) bool) string {
	var missing []string
	if !exists(r.udev) {
		missing = append(missing, "udev")
	}
	if !exists(r.polkit) {
		missing = append(missing, "polkit")
	}
	if len(missing) == 0 {
		return PermissionsConfigured
	}
	return PermissionsMissingPrefix + strings.Join(missing, ",")
}

// setupScript runs the privileged setup script through polkit.
type setupScript struct {
	path    string
	timeout time.Duration
	exists  func(path string) bool
	run     CommandRunner
}

func newSetupScript(config configuration.SetupConfig) setupScript {
	return setupScript{
		path:    config.Script,
		timeout: config.Timeout,
		exists:  util.FileExists,
		run:     util.CmdExecution,
	}
}

func (s setupScript) execute(ctx context.Context) (string, error) {
	if !s.exists(s.path) {
		return "", newCommandError("run_setup_script", "Setup script not found at %s", s.path)
	}
	if _, err := s.run(ctx, setupLauncher, []string{"bash", s.path}, s.timeout); err != nil {
		return "", newCommandError("run_setup_script", "Setup failed: %v", err)
	}
	return "Setup completed, restart the system to apply the changes", nil
}
