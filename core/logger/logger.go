package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	levelEnv  = "MBEAN_LOGGING_LEVEL"
	formatEnv = "MBEAN_LOGGING_FORMAT"

	defaultLevel = logrus.WarnLevel
)

var (
	lg   *logrus.Logger
	once sync.Once
)

// Logger returns the process logger of the management server
func Logger() *logrus.Logger {
	once.Do(func() {
		lg = New(os.Getenv(levelEnv), os.Getenv(formatEnv))
	})
	return lg
}

// New creates a logger writing to stderr. An empty or unknown level falls
// back to warning, format "json" selects the JSON formatter, anything else text.
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = defaultLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000 MST",
		})
	}
	return l
}
