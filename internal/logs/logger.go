// Package logs builds the structured logger shared by every command.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

var level = new(slog.LevelVar)

// SetLevel sets the level of the terminal handler from a name such as
// "debug" or "warn".
func SetLevel(name string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	level.Set(l)
	return nil
}

// Level returns the current terminal level.
func Level() slog.Level {
	return level.Level()
}

// Options selects the handlers fanned out by New.
type Options struct {
	// Terminal receives human-readable records at the configured level.
	Terminal io.Writer
	// File receives every record at debug level as JSON.
	File io.Writer
	// Journal adds the systemd journal handler when it can be opened.
	Journal bool
}

// New returns a logger writing to every configured handler.
func New(opts Options) *slog.Logger {
	var handlers []slog.Handler

	var terminalHandler slog.Handler
	if opts.Terminal != nil {
		terminalHandler = slog.NewTextHandler(opts.Terminal, &slog.HandlerOptions{
			Level: level,
		})
		handlers = append(handlers, terminalHandler)
	}

	if opts.File != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.File, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	if opts.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminalHandler != nil {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
				record.Add("error", err)
				_ = terminalHandler.Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// toJournalKey maps a key to the journal field alphabet.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}
