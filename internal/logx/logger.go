// Package logx builds the process logger and formats access log lines.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/chen-qa/dynamic-choice/pkg/config"
)

// ColorEnabled reports whether stdout is a terminal and NO_COLOR is unset.
func ColorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New returns a logger writing to w in the configured format and level.
// A nil w means stdout.
func New(cfg config.LoggingConfig, w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stdout
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	var l zerolog.Logger
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    w != os.Stdout || !ColorEnabled(),
			TimeFormat: "15:04:05",
		})
	case "json":
		l = zerolog.New(w)
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return l.Level(level).With().Timestamp().Logger(), nil
}

// ParseLevel accepts zerolog level names plus "warning". Blank is info.
func ParseLevel(s string) (zerolog.Level, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(v)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
