package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phpswitcher/internal/paths"
)

func TestNewWritesToLogsDir(t *testing.T) {
	layout := paths.New(t.TempDir())
	logger, closer, err := New(layout, false, nil)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("switch", "pattern", "8.2")
	logger.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := os.ReadDir(layout.LogsDir)
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".log") {
		t.Fatalf("expected one log file, got %v", entries)
	}
	data, err := os.ReadFile(filepath.Join(layout.LogsDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "pattern=8.2") {
		t.Fatalf("expected structured field in log, got %q", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("debug entry written without verbose: %q", data)
	}
}

func TestNewVerboseMirrorsToStderr(t *testing.T) {
	layout := paths.New(t.TempDir())
	var stderr bytes.Buffer
	logger, closer, err := New(layout, true, &stderr)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer closer.Close()

	logger.Debug("probe", "path", "/usr/bin/php")
	if !strings.Contains(stderr.String(), "path=/usr/bin/php") {
		t.Fatalf("expected debug entry on stderr, got %q", stderr.String())
	}
}
