// ABOUTME: Diagnostic logger setup built on charmbracelet/log.
// ABOUTME: Writes to stderr so stdout stays free for command and MCP output.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	global   *log.Logger
	globalMu sync.RWMutex
)

// Options controls logger construction.
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// New builds a logger from options. An empty level means "warn".
func New(opts Options) (*log.Logger, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix:          "liftlog",
		Level:           level,
		ReportTimestamp: true,
	})
	if opts.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger, nil
}

// Init builds a logger and installs it as the process-wide default.
func Init(opts Options) (*log.Logger, error) {
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	globalMu.Lock()
	global = logger
	globalMu.Unlock()
	return logger, nil
}

// Get returns the process-wide logger, or a warn-level stderr logger if Init was never called.
func Get() *log.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return log.NewWithOptions(os.Stderr, log.Options{Prefix: "liftlog", Level: log.WarnLevel})
	}
	return global
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
