// Package logging adapts zerolog to the catalog.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements catalog.Logger on top of a zerolog.Logger.
// Arguments are alternating keys and values, as with log/slog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// New builds a zerolog logger for level. Development output is human-readable on stderr.
func New(level string, development bool) *ZerologAdapter {
	var out io.Writer = os.Stderr
	if development {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return NewZerologAdapter(zerolog.New(out).Level(lvl).With().Timestamp().Logger())
}

// Zerolog returns the wrapped logger.
func (a *ZerologAdapter) Zerolog() zerolog.Logger {
	return a.logger
}

func (a *ZerologAdapter) Debug(msg string, args ...any) {
	withFields(a.logger.Debug(), args).Msg(msg)
}

func (a *ZerologAdapter) Info(msg string, args ...any) {
	withFields(a.logger.Info(), args).Msg(msg)
}

func (a *ZerologAdapter) Warn(msg string, args ...any) {
	withFields(a.logger.Warn(), args).Msg(msg)
}

func (a *ZerologAdapter) Error(msg string, args ...any) {
	withFields(a.logger.Error(), args).Msg(msg)
}

// withFields adds key/value pairs to event. A trailing key without value is logged under "!BADKEY".
func withFields(event *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			event = event.Interface("!BADKEY", args[i])
			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		event = event.Interface(key, args[i+1])
	}

	return event
}
