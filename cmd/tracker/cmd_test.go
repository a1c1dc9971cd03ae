package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCommands_Version(t *testing.T) {
	var out bytes.Buffer
	cmd := SetupCommands(strings.NewReader(""), &out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}

func TestSetupCommands_Session(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "charts")
	var out bytes.Buffer
	cmd := SetupCommands(strings.NewReader("3000\n1\n6\n80\n180\nq\n"), &out)
	cmd.SetArgs([]string{"session", "--out", outDir, "--policy", "rolling", "--chart-width", "200", "--chart-height", "150"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Steps: 3000\nWater: 1.0 L\nSleep: 6.0 hrs\nBMI: 24.69")
	_, err := os.Stat(filepath.Join(outDir, "sleep-trend.png"))
	assert.NoError(t, err)
}

func TestSetupCommands_SessionUnknownPolicy(t *testing.T) {
	var out bytes.Buffer
	cmd := SetupCommands(strings.NewReader(""), &out)
	cmd.SetArgs([]string{"session", "--policy", "fifo"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown history policy")
}
