package ui

import (
	"os"
	"os/exec"
	"strings"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogInfo  = "dialog-information"
	IconDialogWarn  = "dialog-warning"

	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"

	notificationAppName = "g2go"
)

func NotifyInfo(title, text string) {
	NotifySend(UrgencyLow, title, text, IconDialogInfo)
}

func NotifyWarn(title, text string) {
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// NotifySend delivers a desktop notification to the user owning the current display session.
func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Cannot send notification, missing env variable 'DISPLAY'")
		return
	}

	if os.Geteuid() != 0 {
		// running inside the user session already
		err := exec.Command("notify-send", "-a", notificationAppName, "-u", urgency, "-i", icon, title, text).Run()
		if err != nil {
			Warning("Error sending notification: %v", err)
		}
		return
	}

	user, err := findDisplayUser(display)
	if err != nil {
		Warning("Cannot send notification: %v", err)
		return
	}

	output, err := exec.Command("id", "-u", user).Output()
	userIdString := strings.TrimSpace(string(output))
	if err != nil || len(userIdString) <= 0 {
		Warning("Cannot send notification, unable to detect user id of %s", user)
		return
	}

	cmd := exec.Command("sudo", "-u", user,
		"DISPLAY="+display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/"+userIdString+"/bus",
		"notify-send",
		"-a", notificationAppName,
		"-u", urgency,
		"-i", icon,
		title, text,
	)
	if err = cmd.Run(); err != nil {
		Error("Error sending notification: %v", err)
	}
}

func findDisplayUser(display string) (string, error) {
	output, err := exec.Command("who").Output()
	if err != nil {
		return "", err
	}
	return parseDisplayUser(string(output), display)
}

// parseDisplayUser extracts the user name from `who` output for the given display.
func parseDisplayUser(whoOutput string, display string) (string, error) {
	for _, line := range strings.Split(whoOutput, "\n") {
		if !strings.Contains(line, display) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return strings.TrimSpace(fields[0]), nil
		}
	}
	return "", errNoDisplayUser
}
