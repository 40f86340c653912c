package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelParsing(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := (Config{Level: in}).level(); got != want {
			t.Errorf("level(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestColorTextHandlerTagsLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(NewColorTextHandler(&buf, nil))
	lg.Warn("socket missing")
	out := buf.String()
	if !strings.Contains(out, "\033[33m") {
		t.Fatalf("warn output missing yellow tag: %q", out)
	}
	if !strings.Contains(out, "socket missing") {
		t.Fatalf("message lost: %q", out)
	}
}

func TestNewWithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "manager.log")
	lg := Config{File: file, Level: "debug"}.New()
	lg.Info("hello")
	// lumberjack creates the file lazily on first write; the Info above
	// must have done so.
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}
