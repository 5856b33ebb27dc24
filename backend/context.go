package backend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// API is the graphics API family of a surface.
type API uint8

const (
	// NoAPI is a surface without a native context.
	NoAPI API = iota
	// OpenGL is desktop OpenGL.
	OpenGL
	// OpenGLES is OpenGL ES.
	OpenGLES
)

// String returns the API name.
func (a API) String() string {
	switch a {
	case OpenGL:
		return "OpenGL"
	case OpenGLES:
		return "OpenGL ES"
	default:
		return "none"
	}
}

// SurfaceFormat describes the negotiated native context.
type SurfaceFormat struct {
	API         API
	Major       int
	Minor       int
	CoreProfile bool
}

// String returns a readable description like "OpenGL ES 3.1".
func (f SurfaceFormat) String() string {
	if f.API == NoAPI {
		return "none"
	}
	s := fmt.Sprintf("%s %d.%d", f.API, f.Major, f.Minor)
	if f.CoreProfile {
		s += " core"
	}
	return s
}

// ErrInvalidVersion is returned by ParseVersion for strings that do not
// describe a supported OpenGL or OpenGL ES version.
var ErrInvalidVersion = errors.New("backend: invalid GL version string")

// ParseVersion parses a GL_VERSION string such as "4.6.0 NVIDIA 535.54"
// or "OpenGL ES 3.2 Mesa 23.1".
func ParseVersion(ver string) (SurfaceFormat, error) {
	var f SurfaceFormat
	s := strings.TrimSpace(ver)
	switch {
	case strings.HasPrefix(s, "OpenGL ES-"):
		// ES 1.x profiles ("OpenGL ES-CM 1.1") are fixed function.
		return f, fmt.Errorf("%w: %q", ErrInvalidVersion, ver)
	case strings.HasPrefix(s, "OpenGL ES "):
		f.API = OpenGLES
		s = strings.TrimPrefix(s, "OpenGL ES ")
	default:
		f.API = OpenGL
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return SurfaceFormat{}, fmt.Errorf("%w: %q", ErrInvalidVersion, ver)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return SurfaceFormat{}, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, ver, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return SurfaceFormat{}, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, ver, err)
	}
	if major < 2 {
		return SurfaceFormat{}, fmt.Errorf("%w: %q: version below 2.0", ErrInvalidVersion, ver)
	}
	f.Major, f.Minor = major, minor
	return f, nil
}

// ContextType is the capability tier of a backend.
type ContextType uint8

const (
	// NullContext has no native context and supports nothing.
	NullContext ContextType = iota
	// GLES2 is OpenGL ES 2.x.
	GLES2
	// GLES3 is OpenGL ES 3.0.
	GLES3
	// GLES3PLUS is OpenGL ES 3.1 and later.
	GLES3PLUS
	// GL2 is desktop OpenGL 2.x.
	GL2
	// GL3 is desktop OpenGL 3.x.
	GL3
	// GL4 is desktop OpenGL 4.x.
	GL4
)

var contextTypeNames = [...]string{
	NullContext: "NullContext",
	GLES2:       "GLES2",
	GLES3:       "GLES3",
	GLES3PLUS:   "GLES3PLUS",
	GL2:         "GL2",
	GL3:         "GL3",
	GL4:         "GL4",
}

// String returns the tier name.
func (t ContextType) String() string {
	if int(t) < len(contextTypeNames) {
		return contextTypeNames[t]
	}
	return fmt.Sprintf("ContextType(%d)", uint8(t))
}

// IsES reports whether t is an OpenGL ES tier.
func (t ContextType) IsES() bool {
	return t == GLES2 || t == GLES3 || t == GLES3PLUS
}

// IsLegacy reports whether t is one of the 2.x tiers.
func (t ContextType) IsLegacy() bool {
	return t == GL2 || t == GLES2
}

// ContextTypeOf derives the tier from a surface format. It makes no
// native calls.
func ContextTypeOf(f SurfaceFormat) ContextType {
	switch f.API {
	case OpenGLES:
		switch {
		case f.Major <= 2:
			return GLES2
		case f.Major == 3 && f.Minor == 0:
			return GLES3
		default:
			return GLES3PLUS
		}
	case OpenGL:
		switch {
		case f.Major <= 2:
			return GL2
		case f.Major == 3:
			return GL3
		default:
			return GL4
		}
	default:
		return NullContext
	}
}

// atLeast reports whether the format is of the given family and at least
// the given version.
func (f SurfaceFormat) atLeast(api API, major, minor int) bool {
	if f.API != api {
		return false
	}
	return f.Major > major || (f.Major == major && f.Minor >= minor)
}
