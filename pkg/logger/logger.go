package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Interface interface {
	Debug(message interface{}, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message interface{}, args ...interface{})
	Fatal(message interface{}, args ...interface{})
}

type Logger struct {
	logger *logrus.Logger
}

var _ Interface = (*Logger)(nil)

func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

func NewWithWriter(level string, w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(parseLevel(level))
	l.Formatter = &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		TimestampFormat:        "2006/01/02 15:04:05",
		FullTimestamp:          true,
	}

	return &Logger{logger: l}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.msg(logrus.DebugLevel, message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.log(logrus.InfoLevel, nil, message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.log(logrus.WarnLevel, nil, message, args...)
}

func (l *Logger) Error(message interface{}, args ...interface{}) {
	l.msg(logrus.ErrorLevel, message, args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.msg(logrus.FatalLevel, message, args...)

	os.Exit(1)
}

// msg accepts either a format string or an error. An error followed by a string
// is logged with that string as the message and the error attached as a field.
func (l *Logger) msg(level logrus.Level, message interface{}, args ...interface{}) {
	switch msg := message.(type) {
	case error:
		if len(args) > 0 {
			if format, ok := args[0].(string); ok {
				l.log(level, msg, format, args[1:]...)

				return
			}
		}
		l.log(level, nil, msg.Error(), args...)
	case string:
		l.log(level, nil, msg, args...)
	default:
		l.log(level, nil, fmt.Sprintf("%s message %v has unknown type %T", level, message, msg), args...)
	}
}

func (l *Logger) log(level logrus.Level, err error, message string, args ...interface{}) {
	entry := logrus.NewEntry(l.logger)
	if err != nil {
		entry = entry.WithError(err)
	}

	if len(args) == 0 {
		entry.Log(level, message)

		return
	}

	entry.Logf(level, message, args...)
}
