package internal

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	originalLevel := logLevel
	SetLogOutput(&buf)
	t.Cleanup(func() {
		logLevel = originalLevel
		SetLogOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	captureLogs(t)

	SetVerbose(true)
	if logLevel != LogLevelDebug {
		t.Errorf("SetVerbose(true) logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetVerbose(false)
	if logLevel != LogLevelInfo {
		t.Errorf("SetVerbose(false) logLevel = %v, want LogLevelInfo", logLevel)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel(LogLevelWarn)

	LogError("disk %s", "full")
	LogWarn("cache stale")
	LogInfo("loaded %d events", 3)
	LogDebug("card built")

	out := buf.String()
	for _, want := range []string{"[ERROR] disk full", "[WARN] cache stale"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"[INFO]", "[DEBUG]"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("log output should not contain %q:\n%s", unwanted, out)
		}
	}
}

func TestLogDebugWhenVerbose(t *testing.T) {
	buf := captureLogs(t)
	SetVerbose(true)

	LogDebug("alias %q resolved", "client_os")
	if !strings.Contains(buf.String(), `[DEBUG] alias "client_os" resolved`) {
		t.Errorf("debug message not logged: %s", buf.String())
	}
}
