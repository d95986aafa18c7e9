package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var slogLevels = map[LogLevel]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

const timeFormat = "2006-01-02 15:04:05.000000"

var currentLevel = new(slog.LevelVar)

var baseLogger = newLogger(os.Stderr)

func newLogger(w io.Writer) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      currentLevel,
		TimeFormat: timeFormat,
		NoColor:    noColor,
	}))
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) { baseLogger = newLogger(w) }

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	currentLevel.Set(slogLevels[l])
}

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel {
	cur := currentLevel.Level()
	for l, sl := range slogLevels {
		if sl == cur {
			return l
		}
	}
	return LevelInfo
}

func logf(l LogLevel, format string, args ...interface{}) {
	level := slogLevels[l]
	if !baseLogger.Enabled(context.Background(), level) {
		return
	}
	// Only format when there are args; otherwise treat the input as a plain message so
	// literal % characters in pre-formatted strings survive.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	baseLogger.Log(context.Background(), level, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the duration of a phase at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
