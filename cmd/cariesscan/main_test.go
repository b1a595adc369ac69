package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTableCommand(t *testing.T) {
	out, err := execute(t, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "PATTERN")
	assert.Regexp(t, `Arch\s+66\.7\s+87\.5`, out)
	assert.Regexp(t, `Tented Arch\s+49\.0\s+51\.6`, out)
}

func TestDiagnoseCommand_RequiresGender(t *testing.T) {
	t.Setenv("CARIES_LOG_LEVEL", "error")
	_, err := execute(t, "diagnose", "--image", "scan.png", "--gender", "Select")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select a gender")
}

func TestDiagnoseCommand_MissingImage(t *testing.T) {
	t.Setenv("CARIES_LOG_LEVEL", "error")
	missing := filepath.Join(t.TempDir(), "fingerprint_raw.bmp")
	_, err := execute(t, "diagnose", "--image", missing, "--gender", "female")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reconnect the scanner")
}
