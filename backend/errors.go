package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors. Render operations never return them; they classify
// records logged by the backend and errors returned from setup code.
var (
	// ErrUnsupported marks an operation the context tier cannot perform.
	ErrUnsupported = errors.New("backend: unsupported operation")

	// ErrNativeAPI marks an error code reported by the native API.
	ErrNativeAPI = errors.New("backend: native API error")

	// ErrStaleHandle marks a null, released or foreign handle.
	ErrStaleHandle = errors.New("backend: stale handle")

	// ErrTypeMismatch marks a value bound to a uniform of another type.
	ErrTypeMismatch = errors.New("backend: type mismatch")
)

// unsupported logs an operation the tier cannot perform. Callers return
// their null sentinel right after and make no native call.
func (b *Backend) unsupported(op string) {
	slogger().Error("unsupported method",
		"op", op,
		"context", b.ctxType.String(),
		"err", ErrUnsupported)
}

// require checks a capability and logs the operation as unsupported when
// it is missing.
func (b *Backend) require(c Cap, op string) bool {
	if b.Cap(c) {
		return true
	}
	b.unsupported(op)
	return false
}

// checkError drains the native error queue and logs the first error.
// It returns false when an error was pending.
func (b *Backend) checkError(op string) bool {
	code := b.gl.GetError()
	if code == 0 {
		return true
	}
	slogger().Error("native error",
		"op", op,
		"error", glErrorString(code),
		"err", fmt.Errorf("%w: %s", ErrNativeAPI, glErrorString(code)))
	// Drain the rest of the queue; GL may hold one flag per error kind.
	for range 8 {
		if b.gl.GetError() == 0 {
			break
		}
	}
	return false
}

// clearErrors discards pending native errors before an operation whose
// result is checked.
func (b *Backend) clearErrors() {
	for range 8 {
		if b.gl.GetError() == 0 {
			return
		}
	}
}

// stale reports a handle that does not resolve. With debug handles it
// panics, matching a debug-build assertion.
func (b *Backend) stale(op string, h handle) {
	slogger().Error("invalid handle", "op", op, "handle", h.String(), "err", ErrStaleHandle)
	if b.opts.debugHandles {
		panic(fmt.Sprintf("backend: %s: %v: %s", op, ErrStaleHandle, h))
	}
}

// assert logs a failed programming-error check and panics when debug
// assertions are enabled.
func (b *Backend) assert(ok bool, msg string, args ...any) bool {
	if ok {
		return true
	}
	slogger().Error(msg, args...)
	if b.opts.debugAsserts {
		panic("backend: " + msg)
	}
	return false
}

// logCreated writes a debug record for a new object.
func logCreated(kind string, h handle, attrs ...any) {
	l := slogger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("created "+kind, append([]any{"handle", h.String()}, attrs...)...)
}
