//go:build linux && !(js && wasm)

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal/gles/egl"
	"github.com/gogpu/wgpu/hal/gles/gl"

	"github.com/gogpu/glrender/backend"
)

func init() {
	backend.Register(backend.LoaderWGPU, Load)
}

// contextConfigs are tried in order until one creates a context.
var contextConfigs = []egl.ContextConfig{
	{GLVersionMajor: 3, GLVersionMinor: 2, GLES: true, Surfaceless: true},
	{GLVersionMajor: 3, GLVersionMinor: 1, GLES: true, Surfaceless: true},
	{GLVersionMajor: 3, GLVersionMinor: 0, GLES: true, Surfaceless: true},
	{GLVersionMajor: 3, GLVersionMinor: 3, CoreProfile: true, Surfaceless: true},
}

// Load creates a headless EGL context, makes it current on the calling
// thread and loads its functions. The returned set implements Destroy.
func Load() (backend.GL, backend.SurfaceFormat, error) {
	if err := egl.Init(); err != nil {
		return nil, backend.SurfaceFormat{}, fmt.Errorf("%w: egl: %w", backend.ErrLoaderNotAvailable, err)
	}

	var errs []error
	for _, cfg := range contextConfigs {
		funcs, format, err := loadConfig(cfg)
		if err == nil {
			return funcs, format, nil
		}
		slogger().Debug("wgpu: context config rejected",
			"gles", cfg.GLES, "major", cfg.GLVersionMajor, "minor", cfg.GLVersionMinor, "err", err)
		errs = append(errs, err)
	}
	return nil, backend.SurfaceFormat{}, fmt.Errorf("%w: %w", backend.ErrLoaderNotAvailable, errors.Join(errs...))
}

func loadConfig(cfg egl.ContextConfig) (backend.GL, backend.SurfaceFormat, error) {
	ctx, err := egl.NewContext(cfg)
	if err != nil {
		return nil, backend.SurfaceFormat{}, err
	}
	if err := ctx.MakeCurrent(); err != nil {
		ctx.Destroy()
		return nil, backend.SurfaceFormat{}, err
	}

	glCtx := &gl.Context{}
	if err := glCtx.Load(egl.GetGLProcAddress); err != nil {
		ctx.Destroy()
		return nil, backend.SurfaceFormat{}, fmt.Errorf("load core functions: %w", err)
	}

	version := glCtx.GetString(gl.VERSION)
	format, err := backend.ParseVersion(version)
	if err != nil {
		ctx.Destroy()
		return nil, backend.SurfaceFormat{}, err
	}
	format.CoreProfile = format.API == backend.OpenGL && cfg.CoreProfile

	f := &Functions{Context: glCtx, egl: ctx}
	missing, err := f.p.load(egl.GetGLProcAddress)
	if err != nil {
		ctx.Destroy()
		return nil, backend.SurfaceFormat{}, err
	}

	slogger().Info("wgpu: context loaded",
		"version", version,
		"renderer", glCtx.GetString(gl.RENDERER),
		"missing", len(missing))
	if len(missing) > 0 {
		slogger().Debug("wgpu: unresolved entry points", "names", missing)
	}

	if !f.p.has(procUniform4fv) || !f.p.has(procUniformMatrix4fv) {
		return &coreFunctions{Context: glCtx, egl: ctx}, format, nil
	}
	return f, format, nil
}

// Destroy releases the EGL context.
func (f *Functions) Destroy() { f.egl.Destroy() }

// Destroy releases the EGL context.
func (f *coreFunctions) Destroy() { f.egl.Destroy() }
