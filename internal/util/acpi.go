package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

const DefaultAcpiCallPath = "/proc/acpi/call"

// AcpiCallFunc executes an ACPI method and returns its integer result.
type AcpiCallFunc func(method, args string) (int64, error)

// the acpi_call control file holds the result of the last call only
var acpiCallMutex sync.Mutex

// ExecuteAcpiCall writes method+args to /proc/acpi/call and returns the parsed integer result.
func ExecuteAcpiCall(method, args string) (int64, error) {
	return executeAcpiCallAt(DefaultAcpiCallPath, DefaultAcpiCallPath, method, args)
}

// AcpiCallAt returns an AcpiCallFunc using the given acpi_call control file.
func AcpiCallAt(path string) AcpiCallFunc {
	return func(method, args string) (int64, error) {
		return executeAcpiCallAt(path, path, method, args)
	}
}

// executeAcpiCallAt writes the call to writePath and reads the result from readPath.
// In production both paths are the same (/proc/acpi/call). They are split for testing.
func executeAcpiCallAt(writePath, readPath, method, args string) (int64, error) {
	call := method
	if args != "" {
		call = method + " " + args
	}

	acpiCallMutex.Lock()
	defer acpiCallMutex.Unlock()

	if err := os.WriteFile(writePath, []byte(call), 0); err != nil {
		return 0, fmt.Errorf("acpi_call: write failed: %w", err)
	}

	data, err := os.ReadFile(readPath)
	if err != nil {
		return 0, fmt.Errorf("acpi_call: read failed: %w", err)
	}

	return parseAcpiResult(string(data))
}

func parseAcpiResult(data string) (int64, error) {
	result := strings.TrimRight(strings.TrimSpace(data), "\x00")
	result = strings.TrimSpace(result)

	if strings.HasPrefix(result, "Error") || result == "not called" {
		return 0, fmt.Errorf("acpi_call: %s", result)
	}

	if strings.HasPrefix(strings.ToLower(result), "0x") {
		val, err := strconv.ParseUint(result[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("acpi_call: parse hex %q: %w", result, err)
		}
		return int64(val), nil
	}

	val, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("acpi_call: parse %q: %w", result, err)
	}
	return val, nil
}
