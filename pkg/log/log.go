// Package log provides the leveled logging entry points used throughout
// tracetap. The call surface mirrors fileflip's original pkg/log so callers
// read the same way; underneath, it is a thin wrapper around logrus so that
// per-event fields (pid, syscall, signal) attach structurally instead of
// being printf'd inline.
package log

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pendulm/tracetap/pkg/env"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("TRACETAP_DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}
}

// IsDebug reports whether debug-level logging is enabled, so callers can
// skip building an expensive debug argument when it would be discarded.
func IsDebug() bool {
	return logger.IsLevelEnabled(logrus.DebugLevel)
}

// Debug logs a formatted debug message.
func Debug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

// Fields logs a formatted debug message with structured fields attached.
func Fields(fields logrus.Fields, format string, v ...interface{}) {
	logger.WithFields(fields).Debugf(format, v...)
}

// Error logs a formatted error message.
func Error(format string, v ...interface{}) {
	logger.Errorf(format, v...)
}

// DieWithCode logs a formatted error message and exits with the given code.
func DieWithCode(code int, format string, v ...interface{}) {
	logger.Errorf(format, v...)
	os.Exit(code)
}

// Die logs a formatted error message and exits with env.ExitErr.
func Die(format string, v ...interface{}) {
	DieWithCode(env.ExitErr, format, v...)
}
