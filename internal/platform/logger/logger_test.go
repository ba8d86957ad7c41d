package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetup_LevelFiltersOutput(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	var buf bytes.Buffer
	if err := Setup("warn", &buf); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	Infof("hidden %d", 1)
	Warnf("shown %s", "warn")
	Errorf("err %v", "E")

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Fatalf("info line should be filtered at warn level; got: %s", out)
	}
	if !strings.Contains(out, "shown warn") || !strings.Contains(out, "err E") {
		t.Fatalf("missing warn/error output; got: %s", out)
	}
}

func TestSetup_DebugLevel(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	var buf bytes.Buffer
	if err := Setup("debug", &buf); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	Debugf("token %s ignored", "abc")
	if !strings.Contains(buf.String(), "token abc ignored") {
		t.Fatalf("missing debug output; got: %s", buf.String())
	}
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	if err := Setup("loud", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
