// Package logging sets up the structured logger the CLI entrypoint
// and sweep package use (spec.md §7's error/debug reporting). Grounded
// on phileasgo/pkg/logging's Init/setupHandler/multiHandler, trimmed
// of the app's separate server/request/event logs and LLM/TTS history
// rotation down to a single logger suited to a one-shot CLI run: console
// output plus an optional file, both behind the same fan-out handler.
// Each run is tagged with a uuid run_id attribute, the same
// uuid.New().String() idiom phileasgo/pkg/tts/edgetts uses for its
// per-request IDs.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Init builds the sweep CLI's logger: a console handler at INFO (or
// DEBUG when debug is true), plus, when path is non-empty, a file
// handler at the same level, plus an INFO-level capture handler so the
// caller can read back the last line via GlobalLogCapture, all behind
// one fan-out handler. Any
// existing file at path is rotated to path+".old" first. Returns a
// cleanup function that closes the log file (a no-op if path is
// empty).
func Init(path string, debug bool) (*slog.Logger, func(), error) {
	if path != "" {
		rotatePaths(path)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	}

	cleanup := func() {}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: creating directory for %s: %w", path, err)
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: opening %s: %w", path, err)
		}
		handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{Level: level, AddSource: debug}))
		cleanup = func() { file.Close() }
	}

	handlers = append(handlers, slog.NewTextHandler(GlobalLogCapture, &slog.HandlerOptions{Level: slog.LevelInfo}))

	runID := strings.ReplaceAll(uuid.New().String(), "-", "")
	logger := slog.New(&multiHandler{handlers: handlers}).With("run_id", runID)
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// nolint:gocritic // r must be passed by value to implement slog.Handler
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// rotatePaths rotates the given log files if they exist by renaming
// them to .old, so a run's log starts fresh without discarding the
// previous one.
func rotatePaths(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			oldPath := p + ".old"
			_ = os.Remove(oldPath)
			_ = os.Rename(p, oldPath)
		}
	}
}
