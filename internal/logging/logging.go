package logging

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the root logger.
type Options struct {
	Level string // TRACE, DEBUG, INFO, WARN, ERROR
	File  string // optional rotated log file, in addition to stderr
	JSON  bool
}

// New builds the application's root logger and installs it as the hclog default.
func New(opts Options) hclog.Logger {
	var out io.Writer = os.Stderr
	if opts.File != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "nutiai",
		Level:      ParseLevel(opts.Level),
		Output:     out,
		JSONFormat: opts.JSON,
	})
	hclog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string to an hclog level, defaulting to Info.
func ParseLevel(level string) hclog.Level {
	l := hclog.LevelFromString(strings.ToLower(strings.TrimSpace(level)))
	if l == hclog.NoLevel {
		return hclog.Info
	}
	return l
}

// StdLogger adapts an hclog logger for libraries that want a *log.Logger.
func StdLogger(logger hclog.Logger) *log.Logger {
	return logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})
}
