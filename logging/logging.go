// Package logging builds the kernel's *slog.Logger: a fan-out of handlers
// via github.com/samber/slog-multi, the same shape reusee-tai's
// logs/logger.go builds for its own process (terminal handler plus
// additional sinks fanned out with slogmulti.Fanout), minus its
// systemd-journal handler — this is an embeddable simulation library, not a
// systemd service, so there is no journal to attach to.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Level is shared across every handler a Logger fans out to, so changing it
// at runtime (e.g. from a CLI flag) affects every sink at once.
var Level = new(slog.LevelVar)

// Options configures New. FilePath is optional; when empty, only the
// terminal handler is installed.
type Options struct {
	// Terminal is where human-readable text output goes; defaults to
	// os.Stderr when nil.
	Terminal io.Writer
	// FilePath, if non-empty, receives structured JSON records in addition
	// to the terminal output.
	FilePath string
}

// New builds a logger fanning out to a text handler for interactive use
// and, if configured, a JSON file handler. The Engine itself does not log:
// callers log its Warnings() (component faults, unconnected-link and
// isolated-tab warnings) at slog.LevelWarn with WarningAttrs, which carries
// the offending entity id as a structured attribute, as cmd/relaysim does.
func New(opts Options) (*slog.Logger, func() error, error) {
	terminal := opts.Terminal
	if terminal == nil {
		terminal = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(terminal, &slog.HandlerOptions{Level: Level}),
	}

	closeFile := func() error { return nil }
	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: Level}))
		closeFile = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFile, nil
}

// WarningAttrs builds the structured attributes a WarningCondition is
// logged with: kind, subject (the offending entity id) and detail.
func WarningAttrs(kind, subject, detail string) []any {
	return []any{
		slog.String("kind", kind),
		slog.String("subject", subject),
		slog.String("detail", detail),
	}
}
