package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger. It is usable before
// InitLogger runs, with logrus defaults.
var Logger = logrus.New()

// InitLogger configures Logger with the given level (debug, info, warn,
// error) and format ("text" or "json").
func InitLogger(level, format string) error {
	return configureLogger(Logger, os.Stdout, level, format)
}

func configureLogger(l *logrus.Logger, out io.Writer, level, format string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	l.SetOutput(out)
	l.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", format)
	}
	return nil
}
