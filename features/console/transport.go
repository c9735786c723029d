package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const levelColumn = 8

var ErrUnknownColor = errors.New("unknown color")

var colorNames = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"gray":    color.FgHiBlack,
	"grey":    color.FgHiBlack,
}

// ParseColor maps an ANSI color name to a printable color.
func ParseColor(name string) (*color.Color, error) {
	attr, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	return color.New(attr), nil
}

// Logger is the contract handlers print through.
type Logger interface {
	Log(level Level, msg string)
}

// Format builds one console line: "<name>/<level><padding><msg>", with the
// scraper name and level colored.
func Format(level Level, name string, nameColor *color.Color, msg string) string {
	return format(level, name, nameColor, msg, true)
}

func format(level Level, name string, nameColor *color.Color, msg string, colored bool) string {
	return prefix(level, name, nameColor, colored) + " " + msg
}

// prefix renders "<name>/<level>" padded so messages start at the same
// column. The console writer adds the last separating space.
func prefix(level Level, name string, nameColor *color.Color, colored bool) string {
	lvl := level.String()
	pad := strings.Repeat(" ", max(0, levelColumn-1-len(lvl)))
	if colored {
		name = nameColor.Sprint(name)
		lvl = level.color().Sprint(lvl)
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteString("/")
	b.WriteString(lvl)
	b.WriteString(pad)
	return b.String()
}

// Transport writes formatted lines for one scraper through its own zerolog
// logger. Messages below the minimum level are dropped by zerolog.
type Transport struct {
	logger  zerolog.Logger
	out     io.Writer
	min     Level
	name    string
	color   *color.Color
	noColor bool
}

type Option func(*Transport)

func WithLevel(level Level) Option {
	return func(t *Transport) {
		t.min = level
	}
}

func WithName(name string) Option {
	return func(t *Transport) {
		t.name = name
	}
}

func WithColor(c *color.Color) Option {
	return func(t *Transport) {
		t.color = c
	}
}

func WithWriter(w io.Writer) Option {
	return func(t *Transport) {
		t.out = w
	}
}

func WithNoColor(state bool) Option {
	return func(t *Transport) {
		t.noColor = state
	}
}

// NewTransport defaults to stdout, level debug and a magenta scraper name.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		out:   os.Stdout,
		min:   LevelDebug,
		name:  "scraper",
		color: color.New(color.FgMagenta),
	}
	for _, opt := range opts {
		opt(t)
	}
	if !t.noColor && !isTerminal(t.out) {
		t.noColor = true
	}

	output := zerolog.ConsoleWriter{
		Out:        t.out,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i any) string {
			return prefix(levelOf(i), t.name, t.color, !t.noColor)
		},
		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
	t.logger = zerolog.New(zerolog.SyncWriter(output)).Level(t.min.zerolog())

	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *Transport) Level() Level {
	return t.min
}

// Log prints msg when level passes the minimum. Write errors are ignored.
func (t *Transport) Log(level Level, msg string) {
	t.logger.WithLevel(level.zerolog()).Msg(msg)
}

func (t *Transport) Logf(level Level, msg string, args ...any) {
	t.Log(level, fmt.Sprintf(msg, args...))
}
