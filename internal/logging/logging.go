package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logrus logger writing to w (os.Stderr when nil).  Format is
// "json" or "text"; an unknown level falls back to info.
func New(level, format string, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}
	log := logrus.New()
	log.SetOutput(w)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}
	return log
}

// Component returns an entry tagged with a "component" field.
func Component(log logrus.FieldLogger, name string) *logrus.Entry {
	return log.WithField("component", name)
}
