package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_terminalOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Terminal: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()

	logger.Warn("link has no partner", "kind", "unconnected_link", "subject", "l0000001")

	out := buf.String()
	if !strings.Contains(out, "link has no partner") {
		t.Fatalf("terminal output missing the log message: %q", out)
	}
	if !strings.Contains(out, "subject=l0000001") {
		t.Fatalf("terminal output missing structured attrs: %q", out)
	}
}

func TestNew_defaultsTerminalToStderrWithoutPanicking(t *testing.T) {
	logger, closeFn, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()
	if logger == nil {
		t.Fatal("New must return a non-nil logger even with no Terminal configured")
	}
}

func TestNew_alsoFansOutToJSONFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "run.log.json")

	logger, closeFn, err := New(Options{Terminal: &buf, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Warn("component fault", WarningAttrs("component_fault", "c0000001", "nil pointer")...)

	if err := closeFn(); err != nil {
		t.Fatalf("closeFn: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fanned-out file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one JSON line, got %d: %q", len(lines), raw)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal JSON handler output: %v", err)
	}
	if entry["kind"] != "component_fault" {
		t.Errorf("kind = %v, want component_fault", entry["kind"])
	}
	if entry["subject"] != "c0000001" {
		t.Errorf("subject = %v, want c0000001", entry["subject"])
	}
	if entry["detail"] != "nil pointer" {
		t.Errorf("detail = %v, want 'nil pointer'", entry["detail"])
	}
}

func TestNew_invalidFilePathFails(t *testing.T) {
	_, _, err := New(Options{FilePath: filepath.Join(t.TempDir(), "nosuchdir", "run.log")})
	if err == nil {
		t.Fatal("expected New to fail when FilePath's parent directory does not exist")
	}
}

func TestWarningAttrs(t *testing.T) {
	attrs := WarningAttrs("oscillation", "v0000001", "exceeded iteration budget")
	if len(attrs) != 3 {
		t.Fatalf("len(WarningAttrs(...)) = %d, want 3", len(attrs))
	}
}
