package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAcpiPaths creates a write sink and a pre-populated read file for testing.
// writePath is a dummy sink; readPath contains the fake ACPI response.
func fakeAcpiPaths(t *testing.T, response string) (writePath, readPath string) {
	t.Helper()
	tmp := t.TempDir()
	writePath = filepath.Join(tmp, "write")
	readPath = filepath.Join(tmp, "read")
	require.NoError(t, os.WriteFile(writePath, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(readPath, []byte(response), 0o644))
	return writePath, readPath
}

func TestExecuteAcpiCallAt_HexResult(t *testing.T) {
	w, r := fakeAcpiPaths(t, "0x12c0\x00")

	val, err := executeAcpiCallAt(w, r, `\_SB.AMWW.WMAX`, "0 0x1a {0x02, 0x02, 0x00, 0x00}")
	require.NoError(t, err)
	assert.Equal(t, int64(0x12c0), val)
}

func TestExecuteAcpiCallAt_WritesMethodAndArgs(t *testing.T) {
	w, r := fakeAcpiPaths(t, "0x0")

	_, err := executeAcpiCallAt(w, r, `\_SB.AMWW.WMAX`, "0 0x15 {0x01, 0xa0, 0x00, 0x00}")
	require.NoError(t, err)

	written, err := os.ReadFile(w)
	require.NoError(t, err)
	assert.Equal(t, `\_SB.AMWW.WMAX 0 0x15 {0x01, 0xa0, 0x00, 0x00}`, string(written))
}

func TestExecuteAcpiCallAt_AllBitsSet(t *testing.T) {
	w, r := fakeAcpiPaths(t, "0xffffffff")

	val, err := executeAcpiCallAt(w, r, `\_SB.AMWW.WMAX`, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0xffffffff), val)
}

func TestExecuteAcpiCallAt_DecimalResult(t *testing.T) {
	w, r := fakeAcpiPaths(t, "38000\n")

	val, err := executeAcpiCallAt(w, r, `\_SB.METH`, "")
	require.NoError(t, err)
	assert.Equal(t, int64(38000), val)
}

func TestExecuteAcpiCallAt_MissingFile(t *testing.T) {
	_, err := executeAcpiCallAt("/nonexistent/path/call", "/nonexistent/path/call", `\_SB.METH`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write failed")
}

func TestExecuteAcpiCallAt_ErrorResponse(t *testing.T) {
	w, r := fakeAcpiPaths(t, "Error: AE_NOT_FOUND\x00")

	_, err := executeAcpiCallAt(w, r, `\_SB.AMW3.WMAX`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AE_NOT_FOUND")
}

func TestExecuteAcpiCallAt_MalformedOutput(t *testing.T) {
	w, r := fakeAcpiPaths(t, "not_a_number")

	_, err := executeAcpiCallAt(w, r, `\_SB.METH`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestExecuteAcpiCallAt_MalformedHex(t *testing.T) {
	w, r := fakeAcpiPaths(t, "0xGGGG")

	_, err := executeAcpiCallAt(w, r, `\_SB.METH`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse hex")
}

func TestExecuteAcpiCallAt_NullPaddedHex(t *testing.T) {
	w, r := fakeAcpiPaths(t, "0x1E\x00\x00\x00")

	val, err := executeAcpiCallAt(w, r, `\_SB.METH`, "")
	require.NoError(t, err)
	assert.Equal(t, int64(30), val)
}

func TestAcpiCallAt(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "call")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	call := AcpiCallAt(path)

	// WHEN
	_, err := call(`\_SB.METH`, "0x1")

	// THEN
	// the fake control file echoes the call back, which is not a number
	assert.Error(t, err)
	written, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, `\_SB.METH 0x1`, string(written))
}
