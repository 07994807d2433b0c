// SPDX-License-Identifier: MPL-2.0

package console

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LoggerPrefix is the prefix printed in front of every log line.
const LoggerPrefix = "reptor"

// NewLogger builds the process logger at info level. A nil writer means
// os.Stderr.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: LoggerPrefix,
		Level:  log.InfoLevel,
	})
}

// Install makes logger the package-level charmbracelet/log default and the
// log/slog default, so packages without an injected logger share its level.
func Install(logger *log.Logger) {
	log.SetDefault(logger)
	slog.SetDefault(slog.New(logger))
}

// SetVerbose raises logger to debug level, or restores info level.
func SetVerbose(logger *log.Logger, verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.InfoLevel)
}

// ApplyLevel sets the level from a configuration string such as "debug" or
// "warn". Unknown or empty values leave the level untouched and return false.
func ApplyLevel(logger *log.Logger, level string) bool {
	level = strings.TrimSpace(level)
	if level == "" {
		return false
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return false
	}
	logger.SetLevel(parsed)
	return true
}
