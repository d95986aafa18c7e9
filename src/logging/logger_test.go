package logging

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(&bytes.Buffer{})
		SetLogLevel("info")
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := capture(t)
	SetLogLevel("info")

	msg := "flag overlay done placed=12 skipped=1 (92.3% of rows)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(92.3% of rows)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!f(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLogLevel("warn")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("level = %v want warn", GetLogLevel())
	}
	Infof("hidden %d", 1)
	Debugf("hidden too")
	Warnf("flag not found: %s", "xx")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info/debug should be filtered at warn: %s", out)
	}
	if !strings.Contains(out, "flag not found: xx") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestSetLogLevel_UnknownIgnored(t *testing.T) {
	capture(t)
	SetLogLevel("error")
	SetLogLevel("loud")
	if GetLogLevel() != LevelError {
		t.Fatalf("unknown level changed the setting: %v", GetLogLevel())
	}
}
