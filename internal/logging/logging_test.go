package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreInitLoggerUsesConfiguredHandler(t *testing.T) {
	logger := L("hotkeys")

	var buf bytes.Buffer
	Init("text", "info", &buf)

	logger.Info("registered", "binding", "ctrl+shift+space")

	out := buf.String()
	if !strings.Contains(out, "msg=registered") {
		t.Fatalf("expected plain registered message, got: %s", out)
	}
	if !strings.Contains(out, "component=hotkeys") {
		t.Fatalf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "binding=ctrl+shift+space") {
		t.Fatalf("expected binding field, got: %s", out)
	}
}

func TestPreInitLoggerRespectsConfiguredLevel(t *testing.T) {
	logger := L("windex")

	var buf bytes.Buffer
	Init("text", "warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info log should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn log should be emitted: %s", out)
	}
}

func TestInitJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("json", "info", &buf)

	L("vdesk").Info("switched", KeyDesktop, "{00000000-0000-0000-0000-000000000000}")

	out := buf.String()
	if !strings.Contains(out, `"msg":"switched"`) {
		t.Fatalf("expected JSON output, got: %s", out)
	}
}

func TestWithWindowAttachesHandleField(t *testing.T) {
	var buf bytes.Buffer
	Init("text", "info", &buf)

	WithWindow(L("tracker"), 0x1234).Info("captured")

	if !strings.Contains(buf.String(), "hwnd=4660") {
		t.Fatalf("expected hwnd field, got: %s", buf.String())
	}
}

func TestRotatingWriterRotatesAtMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winhop.log")

	rw, err := NewRotatingWriter(path, 1, 2)
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}
	defer rw.Close()

	// Force rotation by writing past 1MB.
	chunk := bytes.Repeat([]byte("x"), 512*1024)
	for i := 0; i < 3; i++ {
		if _, err := rw.Write(chunk); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected backup file after rotation: %v", err)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("bogus"); got.String() != "INFO" {
		t.Fatalf("parseLevel(bogus) = %s, want INFO", got)
	}
	if got := parseLevel("DEBUG"); got.String() != "DEBUG" {
		t.Fatalf("parseLevel(DEBUG) = %s, want DEBUG", got)
	}
}
