package logging

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	testCases := []struct {
		in       string
		expected logrus.Level
	}{
		{in: "debug", expected: logrus.DebugLevel},
		{in: "ERROR", expected: logrus.ErrorLevel},
		{in: "fatal", expected: logrus.FatalLevel},
		{in: "Info", expected: logrus.InfoLevel},
		{in: "trace", expected: logrus.TraceLevel},
		{in: "warn", expected: logrus.WarnLevel},
		{in: "whatever", expected: logrus.TraceLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetLevel(tc.in))
		})
	}
}

func TestSetup_LogFileGetsSuffix(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)

	logsPath := filepath.Join(t.TempDir(), "tracker")
	Setup(LoggerSetupParams{
		LogFileName: logsPath,
		LogLevel:    "info",
	})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	logrus.Info("written to the rotated file")
	assert.FileExists(t, logsPath+".log")
}

func TestSentryHook(t *testing.T) {
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	entry := logrus.NewEntry(logrus.StandardLogger()).WithError(errors.New("boom"))
	entry.Level = logrus.ErrorLevel
	entry.Message = "submit failed"
	require.NoError(t, hook.Fire(entry))
}
