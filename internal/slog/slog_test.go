// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package slog

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStdLoggerPrefixesSeverity(t *testing.T) {
	var buf bytes.Buffer
	l := stdLogger{l: log.New(&buf, "", 0)}

	l.Info("got %d packets", 3)
	l.Warn("dropped %s", "packet")
	l.Error("bounds violation at %d", 42)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "info: got 3 packets") {
		t.Errorf("Info line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "warn: dropped packet") {
		t.Errorf("Warn line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "error: bounds violation at 42") {
		t.Errorf("Error line = %q", lines[2])
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	// Discard must never panic regardless of arguments, and produces no
	// observable output; there is nothing to assert beyond "does not crash".
	d := Discard()
	d.Info("x")
	d.Warn("y %d", 1)
	d.Error("z")
}
