package shader

import "errors"

var (
	// ErrUnknownShader is returned for a path with no registered source.
	ErrUnknownShader = errors.New("shader: unknown shader path")

	// ErrTranslate is returned when a WGSL source cannot be translated.
	ErrTranslate = errors.New("shader: translation failed")

	// ErrCompile is returned when a stage fails to compile.
	ErrCompile = errors.New("shader: compile failed")

	// ErrLink is returned when a program fails to link.
	ErrLink = errors.New("shader: link failed")

	// ErrUnsupportedStage is returned for a stage the context or the
	// source language cannot provide.
	ErrUnsupportedStage = errors.New("shader: unsupported stage")
)
