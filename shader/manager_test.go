package shader

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/iostream"
)

// Native uniform type codes reported by the null functions.
const (
	nativeFloatVec4 = 0x8B52
	nativeFloatMat4 = 0x8B5C
	nativeSampler2D = 0x8B5E
	nativeImage2D   = 0x904D
)

const blurSource = `
#ifdef VERTEX_SHADER
in vec2 attr_pos;
void main() { gl_Position = vec4(attr_pos, 0.0, 1.0); }
#endif
#ifdef FRAGMENT_SHADER
uniform sampler2D Texture0;
void main() { fragOutput = texture(Texture0, vec2(0.5)); }
#endif
`

const wgslSource = `
@vertex
fn vs_main(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func newTestManager(t *testing.T, api backend.API, major, minor int, cfg Config) (*Manager, *backend.NullFunctions) {
	t.Helper()
	f := backend.SurfaceFormat{API: api, Major: major, Minor: minor}
	nf := backend.NewNullFunctions(f)
	b := backend.New(nf, f)
	nf.Reset()
	return NewManager(b, cfg), nf
}

func lastSource(t *testing.T, nf *backend.NullFunctions) string {
	t.Helper()
	args := nf.LastArgs("ShaderSource")
	require.Len(t, args, 2)
	src, ok := args[1].(string)
	require.True(t, ok)
	return src
}

func TestParseDefines(t *testing.T) {
	got := ParseDefines("BLUR_TAPS=5, HQ;;MODE=2  DEBUG")
	assert.Equal(t, []Define{
		{Name: "BLUR_TAPS", Value: "5"},
		{Name: "HQ"},
		{Name: "MODE", Value: "2"},
		{Name: "DEBUG"},
	}, got)
	assert.Empty(t, ParseDefines(" ,; "))
}

func TestVersionLine(t *testing.T) {
	tests := []struct {
		api          backend.API
		major, minor int
		want         string
	}{
		{backend.OpenGLES, 2, 0, "#version 100"},
		{backend.OpenGLES, 3, 0, "#version 300 es"},
		{backend.OpenGLES, 3, 1, "#version 310 es"},
		{backend.OpenGLES, 3, 2, "#version 320 es"},
		{backend.OpenGL, 2, 1, "#version 120"},
		{backend.OpenGL, 3, 2, "#version 150"},
		{backend.OpenGL, 3, 3, "#version 330 core"},
		{backend.OpenGL, 4, 5, "#version 450 core"},
	}
	for _, tt := range tests {
		f := backend.SurfaceFormat{API: tt.api, Major: tt.major, Minor: tt.minor}
		assert.Equal(t, tt.want, versionLine(f, backend.ContextTypeOf(f)), f.String())
	}
}

func TestFeatureKeyIsOrderIndependent(t *testing.T) {
	a := featureKey([]Feature{{Name: "B", Enabled: true}, {Name: "A"}})
	b := featureKey([]Feature{{Name: "A"}, {Name: "B", Enabled: true}})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, featureKey([]Feature{{Name: "A", Enabled: true}, {Name: "B", Enabled: true}}))
}

func TestProgramBuildsEveryStage(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	m.SetShaderData("effects/blur.glsl", blurSource, 0, LanguageDefault, false, false)

	p, ok := m.Program("effects/blur.glsl", "TAPS=5 HQ", []Feature{{Name: "USE_ALPHA", Enabled: true}}, 0, false)
	require.True(t, ok)
	require.NotNil(t, p)
	assert.False(t, p.Handle().IsNull())
	assert.Equal(t, 2, nf.Calls("CreateShader"))

	src := lastSource(t, nf)
	assert.Contains(t, src, "#version 300 es\n")
	assert.Contains(t, src, "precision highp float;")
	assert.Contains(t, src, "#define FRAGMENT_SHADER 1\n")
	assert.Contains(t, src, "#define TAPS 5\n")
	assert.Contains(t, src, "#define HQ 1\n")
	assert.Contains(t, src, "#define USE_ALPHA 1\n")
	assert.Contains(t, src, "out vec4 fragOutput;")

	assert.Zero(t, nf.Live("shader"), "stage objects are deleted after linking")
	assert.Equal(t, 1, nf.Live("program"))
}

func TestProgramIsCached(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	m.SetShaderData("blur", blurSource, 0, LanguageGLSL, false, false)

	a, ok := m.Program("blur", "", nil, 0, false)
	require.True(t, ok)
	nf.Reset()

	b, ok := m.Program("blur", "", nil, 0, false)
	require.True(t, ok)
	assert.Same(t, a, b)
	assert.Zero(t, nf.Calls("CreateProgram"))

	c, ok := m.Program("blur", "", nil, 0, true)
	require.True(t, ok)
	assert.NotSame(t, a, c, "forced rebuild must link a new program")
	assert.Equal(t, 1, nf.Live("program"), "forced rebuild releases the old program")
}

func TestProgramFailureIsCached(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	m.SetShaderData("blur", blurSource, 0, LanguageGLSL, false, false)

	nf.CompileFails = true
	nf.InfoLog = "0:3: syntax error"
	_, ok := m.Program("blur", "", nil, 0, false)
	require.False(t, ok)
	err := m.Failure("blur", "", nil, 0)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Zero(t, nf.Live("shader"))

	nf.CompileFails = false
	nf.Reset()
	_, ok = m.Program("blur", "", nil, 0, false)
	assert.False(t, ok, "failure stays cached until forced")
	assert.Zero(t, nf.Calls("CreateShader"))

	_, ok = m.Program("blur", "", nil, 0, true)
	assert.True(t, ok)
	assert.NoError(t, m.Failure("blur", "", nil, 0))
}

func TestLinkFailureReleasesProgram(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	m.SetShaderData("blur", blurSource, 0, LanguageGLSL, false, false)
	nf.LinkFails = true

	_, ok := m.Program("blur", "", nil, 0, false)
	assert.False(t, ok)
	assert.ErrorIs(t, m.Failure("blur", "", nil, 0), ErrLink)
	assert.Zero(t, nf.Live("program"))
	assert.Zero(t, nf.Live("shader"))
}

func TestUnknownShader(t *testing.T) {
	m, _ := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	_, ok := m.Program("missing", "", nil, 0, false)
	assert.False(t, ok)
	assert.ErrorIs(t, m.Failure("missing", "", nil, 0), ErrUnknownShader)
}

func TestUniformTable(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 1, Config{})
	nf.Uniforms = []backend.NullUniform{
		{Name: "Texture0", Type: nativeSampler2D, Size: 1, Location: 0},
		{Name: "Output", Type: nativeImage2D, Size: 1, Location: 1},
		{Name: "Color", Type: nativeFloatVec4, Size: 1, Location: 2},
		{Name: "Texture1", Type: nativeSampler2D, Size: 1, Location: 3},
		{Name: "ModelViewProjectionMatrix", Type: nativeFloatMat4, Size: 1, Location: 4},
	}
	m.SetShaderData("blur", blurSource, 0, LanguageGLSL, false, false)
	p, ok := m.Program("blur", "", nil, 0, false)
	require.True(t, ok)

	u, ok := p.Uniform("Texture1")
	require.True(t, ok)
	assert.Equal(t, backend.TypeTexture2D, u.Type)
	assert.Equal(t, 1, u.Unit)

	img, _ := p.Uniform("Output")
	assert.Equal(t, 0, img.Unit)
	col, _ := p.Uniform("Color")
	assert.Equal(t, -1, col.Unit)

	assert.True(t, p.Has("ModelViewProjectionMatrix"))
	assert.False(t, p.Has("FrameCount"))
	assert.Len(t, p.Uniforms(), 5)

	assert.True(t, p.SetValue("Color", backend.TypeVec4, []float32{1, 0, 0, 1}))
	assert.False(t, p.SetValue("FrameCount", backend.TypeFloat, float32(1)))

	tex := p.b.CreateTexture()
	assert.True(t, p.SetTexture("Texture1", tex))
	assert.False(t, p.SetTexture("Color", tex), "a vec4 uniform takes no texture")
	assert.False(t, p.SetImage("Texture0", tex, backend.AccessRead, backend.FormatRGBA8))
}

func TestEvictionReleasesPrograms(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 0, Config{CacheLimit: 1})
	m.SetShaderData("blur", blurSource, 0, LanguageGLSL, false, false)

	_, ok := m.Program("blur", "A", nil, 0, false)
	require.True(t, ok)
	_, ok = m.Program("blur", "B", nil, 0, false)
	require.True(t, ok)

	assert.Equal(t, 1, nf.Live("program"))
	assert.Equal(t, uint64(1), m.Stats().Evictions)

	m.SetShaderData("blur", blurSource+"\n", 0, LanguageGLSL, false, false)
	assert.Zero(t, nf.Live("program"), "new source drops programs built from the old one")

	_, ok = m.Program("blur", "A", nil, 0, false)
	require.True(t, ok)
	m.Release()
	assert.Zero(t, nf.Live("program"))
}

func TestOptionalStages(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	m.SetShaderData("path", blurSource, 0, LanguageGLSL, false, false)

	_, ok := m.Program("path", "", nil, FlagTessellation, false)
	assert.False(t, ok, "tessellation needs ES 3.2")
	assert.ErrorIs(t, m.Failure("path", "", nil, FlagTessellation), ErrCompile)
	assert.Zero(t, nf.Live("shader"))

	es32, nf32 := newTestManager(t, backend.OpenGLES, 3, 2, Config{})
	es32.SetShaderData("path", blurSource, 0, LanguageGLSL, true, false)
	_, ok = es32.Program("path", "", nil, FlagTessellation, false)
	require.True(t, ok)
	assert.Equal(t, 5, nf32.Calls("CreateShader"))
}

func TestComputeProgram(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 1, Config{})
	m.SetShaderData("reduce", "layout(local_size_x = 8) in;\nvoid main() {}\n", 0, LanguageGLSL, false, true)

	_, ok := m.Program("reduce", "", nil, 0, false)
	require.True(t, ok)
	assert.Equal(t, 1, nf.Calls("CreateShader"))
	assert.Contains(t, lastSource(t, nf), "#define COMPUTE_SHADER 1\n")
}

func TestLegacyStageMacros(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 2, 0, Config{})
	m.SetShaderData("blur", blurSource, 0, LanguageGLSL, false, false)

	_, ok := m.Program("blur", "", nil, 0, false)
	require.True(t, ok)
	src := lastSource(t, nf)
	assert.Contains(t, src, "#version 100\n")
	assert.Contains(t, src, "#define fragOutput gl_FragColor\n")
	assert.Contains(t, src, "precision mediump float;")
	assert.NotContains(t, src, "out vec4 fragOutput;")
}

func TestWGSLTranslation(t *testing.T) {
	m, nf := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	m.SetShaderData("solid.wgsl", wgslSource, 0, LanguageWGSL, false, false)

	_, ok := m.Program("solid.wgsl", "", nil, 0, false)
	require.True(t, ok, "%v", m.Failure("solid.wgsl", "", nil, 0))
	assert.Equal(t, 2, nf.Calls("CreateShader"))
	assert.Contains(t, lastSource(t, nf), "#version 300 es")

	gles2, _ := newTestManager(t, backend.OpenGLES, 2, 0, Config{})
	gles2.SetShaderData("solid.wgsl", wgslSource, 0, LanguageWGSL, false, false)
	_, ok = gles2.Program("solid.wgsl", "", nil, 0, false)
	assert.False(t, ok)
	assert.ErrorIs(t, gles2.Failure("solid.wgsl", "", nil, 0), ErrTranslate)

	_, ok = m.Program("solid.wgsl", "", nil, FlagGeometry, false)
	assert.False(t, ok)
	assert.ErrorIs(t, m.Failure("solid.wgsl", "", nil, FlagGeometry), ErrUnsupportedStage)
}

func TestLoadFromStreamFactory(t *testing.T) {
	f := iostream.NewFactory()
	f.AddFS(":/", fstest.MapFS{
		"shaders/blur.glsl":  {Data: []byte(blurSource)},
		"shaders/solid.wgsl": {Data: []byte(wgslSource)},
	})
	m, _ := newTestManager(t, backend.OpenGLES, 3, 0, Config{})
	m.SetStreamFactory(f)

	_, ok := m.Program(":/shaders/blur.glsl", "", nil, 0, false)
	assert.True(t, ok)
	d, ok := m.ShaderData(":/shaders/solid.wgsl")
	assert.False(t, ok, "not loaded yet")
	assert.Empty(t, d.Source)

	_, ok = m.Program(":/shaders/solid.wgsl", "", nil, 0, false)
	assert.True(t, ok)
	d, _ = m.ShaderData(":/shaders/solid.wgsl")
	assert.Equal(t, LanguageWGSL, d.Language)

	_, ok = m.Program(":/shaders/none.glsl", "", nil, 0, false)
	assert.False(t, ok)
	assert.ErrorIs(t, m.Failure(":/shaders/none.glsl", "", nil, 0), ErrUnknownShader)
}
