package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields map[string]interface{}

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{logrus.FieldKeyTime: "ts"},
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Configure sets the minimum level and the output format ("json" or "text").
// Unknown levels fall back to info; unknown formats fall back to json.
func Configure(level, format string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{logrus.FieldKeyTime: "ts"},
	})
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func entry(fields Fields) *logrus.Entry {
	if fields == nil {
		return logrus.NewEntry(log)
	}
	return log.WithFields(logrus.Fields(fields))
}

// Debug logs a debug message with optional fields.
func Debug(msg string, fields Fields) {
	entry(fields).Debug(msg)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	entry(fields).Info(msg)
}

// Warn logs a degraded-but-recovered condition.
func Warn(msg string, fields Fields) {
	entry(fields).Warn(msg)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	e := entry(fields)
	if err != nil {
		e = e.WithField("error", err.Error())
	}
	e.Error(msg)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	e := entry(fields)
	if err != nil {
		e = e.WithField("error", err.Error())
	}
	e.Error(msg)
	os.Exit(1)
}
