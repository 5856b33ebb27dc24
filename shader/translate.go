package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/glrender/backend"
)

// glslVersion returns the naga output version for a context. naga emits
// GLSL 3.30 / ES 3.00 and newer only.
func glslVersion(f backend.SurfaceFormat, t backend.ContextType) (glsl.Version, bool) {
	switch t {
	case backend.GLES3:
		return glsl.VersionES300, true
	case backend.GLES3PLUS:
		if f.Minor >= 2 {
			return glsl.VersionES320, true
		}
		return glsl.VersionES310, true
	case backend.GL3:
		if f.Minor >= 3 {
			return glsl.Version330, true
		}
	case backend.GL4:
		return glsl.Version{Major: 4, Minor: uint8(min(f.Minor, 6) * 10)}, true
	}
	return glsl.Version{}, false
}

func irStage(s backend.ShaderStage) (ir.ShaderStage, bool) {
	switch s {
	case backend.StageVertex:
		return ir.StageVertex, true
	case backend.StageFragment:
		return ir.StageFragment, true
	case backend.StageCompute:
		return ir.StageCompute, true
	}
	return 0, false
}

// translation is a WGSL module lowered once and written per stage.
type translation struct {
	module  *ir.Module
	version glsl.Version
	consts  ir.PipelineConstants
}

func newTranslation(b *backend.Backend, src string, defs []Define, features []Feature) (*translation, error) {
	version, ok := glslVersion(b.SurfaceFormat(), b.ContextType())
	if !ok {
		return nil, fmt.Errorf("%w: no GLSL target for %s", ErrTranslate, b.ContextType())
	}
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrTranslate, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("%w: lower: %w", ErrTranslate, err)
	}
	return &translation{
		module:  module,
		version: version,
		consts:  pipelineConstants(defs, features),
	}, nil
}

// stage writes the GLSL of the first entry point of stage s.
func (t *translation) stage(s backend.ShaderStage) (string, error) {
	want, ok := irStage(s)
	if !ok {
		return "", fmt.Errorf("%w: %s stage in WGSL", ErrUnsupportedStage, s)
	}
	entry := ""
	for _, ep := range t.module.EntryPoints {
		if ep.Stage == want {
			entry = ep.Name
			break
		}
	}
	if entry == "" {
		return "", fmt.Errorf("%w: no %s entry point", ErrTranslate, s)
	}
	flags := glsl.WriterFlagNone
	if s == backend.StageVertex {
		flags |= glsl.WriterFlagAdjustCoordinateSpace
	}
	code, _, err := glsl.Compile(t.module, glsl.Options{
		LangVersion:        t.version,
		EntryPoint:         entry,
		ForceHighPrecision: true,
		WriterFlags:        flags,
		PipelineConstants:  t.consts,
	})
	if err != nil {
		return "", fmt.Errorf("%w: entry point %q: %w", ErrTranslate, entry, err)
	}
	return code, nil
}
