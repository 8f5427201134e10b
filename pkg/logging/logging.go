package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger writing to w at the named level
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger(), nil
}

// Adapter lets a zerolog logger receive core.Logger diagnostics at info level
type Adapter struct {
	Logger zerolog.Logger
}

// Printf implements core.Logger
func (a Adapter) Printf(format string, args ...interface{}) {
	a.Logger.Info().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}
