package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdExecution_Output(t *testing.T) {
	// WHEN
	out, err := CmdExecution(context.Background(), "echo", []string{"hello"}, time.Second)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestCmdExecution_Timeout(t *testing.T) {
	// WHEN
	_, err := CmdExecution(context.Background(), "sleep", []string{"5"}, 50*time.Millisecond)

	// THEN
	assert.ErrorContains(t, err, "timed out")
}

func TestCmdExecution_Stderr(t *testing.T) {
	// WHEN
	_, err := CmdExecution(context.Background(), "sh", []string{"-c", "echo denied >&2; exit 1"}, time.Second)

	// THEN
	assert.EqualError(t, err, "denied")
}

func TestSafeCmdExecution_MissingExecutable(t *testing.T) {
	// WHEN
	_, err := SafeCmdExecution(context.Background(), "/nonexistent/led-ctl", nil, time.Second)

	// THEN
	assert.ErrorContains(t, err, "Cannot execute /nonexistent/led-ctl")
}
