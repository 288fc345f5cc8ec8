// Package logger wraps op/go-logging with package-level helpers so callers
// do not have to carry a logger instance around.
package logger

import (
	"os"

	"github.com/op/go-logging"
)

var logger *logging.Logger

// InitLogger sets up the console backend at the given level. Safe to call
// more than once; the last call wins.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger("notes-api")
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:2006/01/02 15:04:05} %{level} - %{message}`)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveled.SetLevel(level, "notes-api")
	newLogger.SetBackend(leveled)
	logger = newLogger
}

func ensure() {
	if logger == nil {
		InitLogger(logging.INFO)
	}
}

func Debug(args ...any) {
	ensure()
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	ensure()
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	ensure()
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	ensure()
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	ensure()
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	ensure()
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	ensure()
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	ensure()
	logger.Errorf(format, args...)
}
