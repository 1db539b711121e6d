package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	current  atomic.Pointer[zerolog.Logger]
	fallback sync.Once
)

// Options configures the global logger.
type Options struct {
	Level  string    // debug|info|warn|error (default: info)
	Pretty bool      // human-readable console output instead of JSON
	Out    io.Writer // defaults to os.Stdout
}

// Init configures the global JSON logger.
func Init(opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := opts.Out
	if w == nil {
		w = os.Stdout
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(opts.Level))
	current.Store(&l)
}

// L returns the global logger. Call Init() once on startup.
// Safe for concurrent use; without Init it falls back to JSON at info level.
func L() *zerolog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	fallback.Do(func() {
		if current.Load() == nil {
			Init(Options{})
		}
	})
	return current.Load()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
