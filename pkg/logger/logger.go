package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Interface interface {
	Debug(message interface{}, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message interface{}, args ...interface{})
	Fatal(message interface{}, args ...interface{})
}

type Logger struct {
	logger *zerolog.Logger
}

var _ Interface = (*Logger)(nil)

func New(level string) *Logger {
	var l zerolog.Level

	switch strings.ToLower(level) {
	case "debug":
		l = zerolog.DebugLevel
	case "info":
		l = zerolog.InfoLevel
	case "warn":
		l = zerolog.WarnLevel
	case "error":
		l = zerolog.ErrorLevel
	case "disabled":
		l = zerolog.Disabled
	default:
		l = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(l).With().Timestamp().Logger()

	return &Logger{
		logger: &logger,
	}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.msg(l.logger.Debug(), message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.msg(l.logger.Info(), message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.msg(l.logger.Warn(), message, args...)
}

// Error accepts either a format string or an error. For an error the first
// argument, when it is a string, is the call-site context.
func (l *Logger) Error(message interface{}, args ...interface{}) {
	l.msg(l.logger.Error(), message, args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.msg(l.logger.Error(), message, args...)

	os.Exit(1)
}

func (l *Logger) msg(e *zerolog.Event, message interface{}, args ...interface{}) {
	switch m := message.(type) {
	case error:
		e = e.Err(m)
		if len(args) > 0 {
			if format, ok := args[0].(string); ok {
				e.Msgf(format, args[1:]...)
				return
			}
		}
		e.Send()
	case string:
		if len(args) == 0 {
			e.Msg(m)
			return
		}
		e.Msgf(m, args...)
	default:
		e.Msg(fmt.Sprintf("message %v has unknown type %T", message, message))
	}
}
