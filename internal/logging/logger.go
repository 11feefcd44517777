// Package logging builds the shared structured logger, configured
// through the UNSBF_LOG_LEVEL environment variable.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLoggerWithWriter creates a logger writing to w. Level comes from
// UNSBF_LOG_LEVEL (debug, info, warn, error; default info).
func NewLoggerWithWriter(w io.Writer) *log.Logger {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	switch os.Getenv("UNSBF_LOG_LEVEL") {
	case "debug":
		lg.SetLevel(log.DebugLevel)
	case "warn":
		lg.SetLevel(log.WarnLevel)
	case "error":
		lg.SetLevel(log.ErrorLevel)
	default:
		lg.SetLevel(log.InfoLevel)
	}

	return lg
}

// NewLogger creates the default stderr logger.
func NewLogger() *log.Logger {
	return NewLoggerWithWriter(os.Stderr)
}
