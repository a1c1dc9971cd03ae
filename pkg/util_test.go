package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBytesToString(t *testing.T) {
	want := "test"
	stringBytes := []byte(want)
	got := BytesToString(stringBytes)
	assert.Equal(t, want, got)
}

func TestPathExists(t *testing.T) {
	exists, err := PathExists("/invalid/path/some-dir", true)
	assert.NoError(t, err)
	assert.False(t, exists)
	exists, err = PathExists("/invalid/path/some-file", false)
	assert.NoError(t, err)
	assert.False(t, exists)

	tempDir := t.TempDir()
	exists, err = PathExists(tempDir, true)
	assert.NoError(t, err)
	assert.True(t, exists)
	exists, err = PathExists(tempDir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
	assert.False(t, exists)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts", "out")
	require.NoError(t, EnsureDir(dir))
	exists, err := PathExists(dir, true)
	require.NoError(t, err)
	assert.True(t, exists)

	// second call is a no-op
	require.NoError(t, EnsureDir(dir))

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	assert.Error(t, EnsureDir(file))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0", FormatFloat(0))
	assert.Equal(t, "2.5", FormatFloat(2.5))
	assert.Equal(t, "10000", FormatFloat(10000))
	assert.Equal(t, "22.86", FormatFloat(22.86))
	assert.Equal(t, "-5", FormatFloat(-5))
}

func TestFormatReal(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "zero", value: 0, expected: "0.0"},
		{name: "whole", value: 2, expected: "2.0"},
		{name: "large whole", value: 10000, expected: "10000.0"},
		{name: "negative whole", value: -5, expected: "-5.0"},
		{name: "fraction", value: 2.5, expected: "2.5"},
		{name: "two decimals", value: 22.86, expected: "22.86"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatReal(tc.value))
		})
	}
}
