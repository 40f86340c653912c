package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the manager's own log file.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Config describes the manager's structured log output. This is the
// manager's own diagnostic log; the simulator process log is a plain
// append-only file owned by the launcher and is never rotated here.
type Config struct {
	Level      string `mapstructure:"level"` // debug|info|warn|error (default info)
	File       string `mapstructure:"file"`  // optional rotating file, in addition to stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// New builds a slog.Logger per the config: colorized text on stderr, plus
// a lumberjack-rotated file when File is set.
func (c Config) New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}
	if c.File == "" {
		return slog.New(NewColorTextHandler(os.Stderr, opts))
	}
	_ = os.MkdirAll(filepath.Dir(c.File), 0o750)
	fileW := &lj.Logger{
		Filename:   c.File,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
	return slog.New(NewColorTextHandler(io.MultiWriter(os.Stderr, fileW), opts))
}

func (c Config) level() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
