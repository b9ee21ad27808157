package probe

import (
	"fmt"
	"strings"
)

// InitializationError means the device is not reachable. It triggers the setup flow.
type InitializationError struct {
	Cause error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("device initialization failed: %v", e.Cause)
}

func (e *InitializationError) Unwrap() error {
	return e.Cause
}

// PermissionError lists the OS level grants that are missing.
type PermissionError struct {
	Missing []string
}

func (e *PermissionError) Error() string {
	if len(e.Missing) == 0 {
		return "missing permissions"
	}
	return fmt.Sprintf("missing permissions: %s", strings.Join(e.Missing, ", "))
}

type SetupError struct {
	Cause error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed: %v", e.Cause)
}

func (e *SetupError) Unwrap() error {
	return e.Cause
}
