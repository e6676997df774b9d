package process

import (
	"fmt"
	"strings"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Level is the severity of a diagnostic message
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel parses a level name as used in configuration files
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Diagnostics receives the messages emitted while walking a snapshot
type Diagnostics interface {
	Logf(level Level, format string, args ...interface{})
}

type discard struct{}

func (discard) Logf(Level, string, ...interface{}) {}

// Discard drops every message
var Discard Diagnostics = discard{}

type gologgerSink struct {
	log *logger.Logger
	min Level
}

// NewLogger returns a Diagnostics backed by a gologger Logger named name.
// Messages below min are dropped.
func NewLogger(name string, min Level) Diagnostics {
	return newGologgerSink(loggerPrefix(name, true), min)
}

// NewPlainLogger is NewLogger without ANSI colors in the name prefix
func NewPlainLogger(name string, min Level) Diagnostics {
	return newGologgerSink(loggerPrefix(name, false), min)
}

func newGologgerSink(prefix string, min Level) *gologgerSink {
	return &gologgerSink{log: logger.NewLogger(prefix), min: min}
}

func loggerPrefix(name string, color bool) string {
	if !color {
		return name
	}
	return coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, name)
}

func (s *gologgerSink) Logf(level Level, format string, args ...interface{}) {
	if level < s.min {
		return
	}

	msg := fmt.Sprintf(format, args...)
	switch level {
	case LevelTrace, LevelDebug:
		s.log.Debugln(msg)
	case LevelInfo:
		s.log.Infoln(msg)
	default:
		// gologger has no separate error channel
		s.log.Warn(level.String(), ": ", msg)
	}
}
