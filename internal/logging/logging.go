// Package logging hands out pion leveled loggers scoped per component.
package logging

import (
	"github.com/pion/logging"
)

var loggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a logger from the package-wide default factory.
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}

// NewLoggerFrom returns a logger from f, or from the default factory when f is nil.
func NewLoggerFrom(f logging.LoggerFactory, scope string) logging.LeveledLogger {
	if f == nil {
		return NewLogger(scope)
	}
	return f.NewLogger(scope)
}
