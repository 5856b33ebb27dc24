package glrender

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/backend/wgpu"
	"github.com/gogpu/glrender/effect"
	"github.com/gogpu/glrender/iostream"
	"github.com/gogpu/glrender/offscreen"
	"github.com/gogpu/glrender/paths"
	"github.com/gogpu/glrender/render"
	"github.com/gogpu/glrender/resource"
	"github.com/gogpu/glrender/shader"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// subLoggers are the SetLogger functions of every sub-package.
var subLoggers = []func(*slog.Logger){
	backend.SetLogger,
	wgpu.SetLogger,
	render.SetLogger,
	resource.SetLogger,
	shader.SetLogger,
	effect.SetLogger,
	offscreen.SetLogger,
	paths.SetLogger,
	iostream.SetLogger,
}

// SetLogger configures the logger for glrender and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by glrender:
//   - [slog.LevelDebug]: state elision, cache hits, allocations
//   - [slog.LevelInfo]: backend creation with context type and adapter
//   - [slog.LevelWarn]: missing resources and fallbacks
//   - [slog.LevelError]: unsupported operations, native errors, failed assertions
//
// Example:
//
//	glrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	for _, set := range subLoggers {
		set(l)
	}
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
