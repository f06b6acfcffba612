package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/smmtool/smm/internal/config"
)

// NewLogger creates a JSON logger writing to w at the LOG_LEVEL level.
func NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(config.LogLevel())
	logger.SetOutput(w)
	return logger
}

// NewFileLogger opens (appending) path and logs to it. The TUI owns the
// terminal, so the interactive client never logs to stdout or stderr.
func NewFileLogger(path string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging.NewFileLogger: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.NewFileLogger: %w", err)
	}
	return NewLogger(f), f, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	return NewLogger(io.Discard)
}

// Component returns an entry tagged with the component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	if logger == nil {
		logger = Discard()
	}
	return logger.WithField("component", name)
}
