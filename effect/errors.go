package effect

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound classifies commands naming a buffer, image,
	// data buffer or parameter the context does not have.
	ErrResourceNotFound = errors.New("effect: resource not found")

	// ErrTypeMismatch classifies values bound to a parameter of another
	// type.
	ErrTypeMismatch = errors.New("effect: type mismatch")

	// ErrInvariant classifies caller programming errors such as reusing a
	// data buffer name with another size.
	ErrInvariant = errors.New("effect: invariant violation")

	// ErrUnknownClass is returned when a library has no class of a name.
	ErrUnknownClass = errors.New("effect: unknown effect class")

	// ErrInvalidFile is returned for malformed effect files.
	ErrInvalidFile = errors.New("effect: invalid effect file")
)

func (s *System) notFound(eff *Effect, kind, name string) {
	slogger().Warn("effect resource not found",
		"effect", eff.ClassName(), "kind", kind, "name", name, "err", ErrResourceNotFound)
}

// assert logs a failed check and panics when debug assertions are on.
func (s *System) assert(ok bool, err error, msg string, args ...any) bool {
	if ok {
		return true
	}
	slogger().Error(msg, append(args, "err", err)...)
	if s.cfg.DebugAsserts {
		panic(fmt.Sprintf("effect: %s: %v", msg, err))
	}
	return false
}
