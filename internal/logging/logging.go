// Package logging builds the structured loggers shared by the fleet and its
// devices.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/charmbracelet/log"
)

type Options struct {
	Level      string
	Timestamps bool
}

func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: opts.Timestamps,
		TimeFormat:      time.TimeOnly,
		Prefix:          "droidfleet",
	}), nil
}

// Discard returns a logger that drops everything; tests and library callers
// without a logger use it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func WithComponent(l *log.Logger, component string) *log.Logger {
	return OrDiscard(l).With("component", component)
}

// ForDevice tags every record with the device serial.
func ForDevice(l *log.Logger, serial domain.Serial) *log.Logger {
	logger := OrDiscard(l).WithPrefix("AndroidDevice|" + string(serial))
	return logger.With("serial", string(serial))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}

	return l
}
