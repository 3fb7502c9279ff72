// Package logger builds the zerolog logger shared by the server and the CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to stderr at the given level. Format "json"
// emits one JSON object per line; anything else uses the console writer.
func New(level, format string) zerolog.Logger {
	return build(os.Stderr, level, format)
}

func build(out io.Writer, level, format string) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', defaulting to 'info'\n", level)
	}

	w := out
	if !strings.EqualFold(format, FormatJSON) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(w).Level(logLevel).With().Timestamp().Caller().Int("pid", os.Getpid())
	if info, ok := debug.ReadBuildInfo(); ok {
		ctx = ctx.Str("go_version", info.GoVersion)
		if rev := revision(info); rev != "" {
			ctx = ctx.Str("git_revision", rev)
		}
	}

	l := ctx.Logger()
	zerolog.DefaultContextLogger = &l
	return l
}

func revision(info *debug.BuildInfo) string {
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
