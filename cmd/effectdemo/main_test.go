package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/effect"
	"github.com/gogpu/glrender/iostream"
	"github.com/gogpu/glrender/resource"
	"github.com/gogpu/glrender/shader"
)

func TestBundledEffectRuns(t *testing.T) {
	format := backend.SurfaceFormat{API: backend.OpenGLES, Major: 3, Minor: 1}
	funcs := backend.NewNullFunctions(format)
	b := backend.New(funcs, format)

	rm := resource.NewManager(b, resource.Config{})
	shaders := shader.NewManager(b, shader.Config{})
	lib := effect.NewLibrary()
	loader := effect.Loader{Library: lib, Shaders: shaders, Streams: iostream.NewFactory()}
	require.NoError(t, loader.LoadFile("effects/bloom.toml"))
	require.Equal(t, []string{"bloom"}, lib.Classes())

	eff, err := lib.Create("bloom")
	require.NoError(t, err)
	sys := effect.NewSystem(rm, shaders, effect.Config{})

	input := rm.AllocateTexture2D(64, 64, backend.FormatRGBA8, 1, false)
	out, ok := sys.RenderEffect(eff, effect.RenderArgs{Input: input})
	require.True(t, ok)
	assert.Equal(t, 2, funcs.Calls("DrawElements"), "one draw per Render command")
	rm.ReleaseTexture(out)
	rm.ReleaseTexture(input)

	sys.Release()
	rm.Release()
	assert.Zero(t, funcs.Live("framebuffer"))
}
