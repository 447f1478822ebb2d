package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the process-wide logger. It is usable before Init is called.
	Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "pinguin"})
)

type Config struct {
	Level  string
	Output io.Writer
}

// Init replaces the global logger. An unknown level falls back to info.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level == log.DebugLevel,
		Level:           level,
		Prefix:          "pinguin",
	})
	if err != nil && cfg.Level != "" {
		Logger.Warn("unknown log level, using info", "level", cfg.Level)
	}
}

// With returns a sub-logger tagged with the given component name.
func With(component string) *log.Logger {
	return Logger.With("component", component)
}

func Debug(msg string, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs and exits the process.
func Fatal(msg string, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}
