// internal/log/log.go
// Package log wraps zerolog with the defaults used by the driver and the CLI.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger zerolog.Logger
	inited bool
)

// Init sets up the process logger.
// Valid levels: "debug", "info", "warn", "error". Anything else means info.
// JSON output when GO_ENV=production, console output otherwise.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = os.Stderr
	if os.Getenv("GO_ENV") != "production" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}
	}

	logger = zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	inited = true
}

// ParseLevel maps a config level string to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// L returns the process logger, initializing it at info level on first use.
func L() zerolog.Logger {
	mu.Lock()
	if !inited {
		mu.Unlock()
		Init("info")
		mu.Lock()
	}
	defer mu.Unlock()
	return logger
}

// With returns a child logger tagged with a component name.
func With(component string) zerolog.Logger {
	return L().With().Str("component", component).Logger()
}
