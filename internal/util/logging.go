package util

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger for the given level name.
// Accepted levels (case insensitive): trace, debug, info, warn, error.
// "off", "none" and "" discard all output.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false, FullTimestamp: true})

	switch strings.ToLower(level) {
	case "", "off", "none":
		logger.SetOutput(io.Discard)
		return logger
	case "trace":
		logger.SetLevel(logrus.TraceLevel)
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.SetOutput(out)
	return logger
}
