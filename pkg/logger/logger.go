package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	base    zerolog.Logger
	ready   bool
	logFile *os.File
)

const (
	INFO = iota
	DEBUG
)

// InitLogger initializes the logger with a file output and console output
func InitLogger(filename string, level int) error {
	var err error
	logFile, err = os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	SetOutput(zerolog.MultiLevelWriter(newConsoleWriter(os.Stdout, os.Stderr), logFile))
	base = base.Level(levelFor(level))
	return nil
}

func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
		ready = false
	}
}

// Init sets up console-only logging. Called lazily by the helpers below.
func Init() {
	SetOutput(newConsoleWriter(os.Stdout, os.Stderr))
}

// consoleWriter prints human-readable lines, error and above to errOut.
type consoleWriter struct {
	out zerolog.ConsoleWriter
	err zerolog.ConsoleWriter
}

func newConsoleWriter(out, errOut io.Writer) *consoleWriter {
	return &consoleWriter{
		out: zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339},
		err: zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.RFC3339},
	}
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

func (w *consoleWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel && level < zerolog.NoLevel {
		return w.err.Write(p)
	}
	return w.out.Write(p)
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	base = zerolog.New(w).With().Timestamp().Logger()
	ready = true
}

// With returns a child logger carrying a structured field.
func With(key string, value interface{}) zerolog.Logger {
	if !ready {
		Init()
	}
	return base.With().Interface(key, value).Logger()
}

func levelFor(level int) zerolog.Level {
	if level == DEBUG {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func Info(format string, v ...interface{}) {
	if !ready {
		Init()
	}
	base.Info().Msg(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...interface{}) {
	Info(format, v...)
}

func Error(format string, v ...interface{}) {
	if !ready {
		Init()
	}
	base.Error().Msg(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	Error(format, v...)
}

func Warn(format string, v ...interface{}) {
	if !ready {
		Init()
	}
	base.Warn().Msg(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	Warn(format, v...)
}

func Debugf(format string, v ...interface{}) {
	if !ready {
		Init()
	}
	base.Debug().Msg(fmt.Sprintf(format, v...))
}
