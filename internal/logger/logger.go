package logger

import (
	"io"
	stdlog "log"
	"os"

	"scrapewatch/internal/config"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type logWrapper struct {
	zerolog.Logger
}

func (l logWrapper) Write(p []byte) (n int, err error) {
	n = len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	l.Info().Msg(string(p))
	return
}

// InitializeLogger sets up the diagnostic logger on stderr. Stdout belongs
// to the console plugin.
func InitializeLogger() {
	InitializeLoggerTo(os.Stderr)
}

func InitializeLoggerTo(out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Console transports filter on their own level; the global one stays open.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	level := zerolog.InfoLevel
	if config.IsDevMode() {
		level = zerolog.DebugLevel
	}
	if cfg := config.GetLoaded(); cfg != nil {
		level = cfg.APP.LogLevel
	}

	var zerologger zerolog.Logger
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFormatUnix}
		zerologger = zerolog.New(output)
	} else {
		zerologger = zerolog.New(out)
	}

	zerologger = zerologger.Level(level).With().Timestamp().Caller().Logger()

	log.Logger = zerologger

	stdlog.SetFlags(0)
	stdlog.SetOutput(logWrapper{zerologger})
}
