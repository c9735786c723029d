package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

var ErrUnknownLevel = errors.New("unknown severity level")

// Level is a console severity, ordered from most to least important.
type Level int8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelVerbose
	LevelDebug
)

var levelNames = map[Level]string{
	LevelError:   "error",
	LevelWarn:    "warn",
	LevelInfo:    "info",
	LevelVerbose: "verbose",
	LevelDebug:   "debug",
}

var levelColors = map[Level]color.Attribute{
	LevelError:   color.FgRed,
	LevelWarn:    color.FgYellow,
	LevelInfo:    color.FgGreen,
	LevelVerbose: color.FgCyan,
	LevelDebug:   color.FgBlue,
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

// ParseLevel resolves a level name, case-insensitively.
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return LevelDebug, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// zerolog has no verbose level, so everything below info shifts down one.
func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelVerbose:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// levelOf maps a level name written by zerolog back to a console level.
func levelOf(name any) Level {
	s, _ := name.(string)
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return LevelDebug
	}
	switch {
	case lvl >= zerolog.ErrorLevel:
		return LevelError
	case lvl == zerolog.WarnLevel:
		return LevelWarn
	case lvl == zerolog.InfoLevel:
		return LevelInfo
	case lvl == zerolog.DebugLevel:
		return LevelVerbose
	default:
		return LevelDebug
	}
}

func (l Level) color() *color.Color {
	attr, ok := levelColors[l]
	if !ok {
		attr = color.Reset
	}
	return color.New(attr)
}
