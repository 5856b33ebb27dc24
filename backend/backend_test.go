package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gpucontext"
)

func es(major, minor int) SurfaceFormat {
	return SurfaceFormat{API: OpenGLES, Major: major, Minor: minor}
}

func desktop(major, minor int) SurfaceFormat {
	return SurfaceFormat{API: OpenGL, Major: major, Minor: minor, CoreProfile: major >= 3}
}

// newTestBackend creates a backend over NullFunctions with the creation
// calls cleared from the call statistics.
func newTestBackend(t *testing.T, f SurfaceFormat, opts ...Option) (*Backend, *NullFunctions) {
	t.Helper()
	nf := NewNullFunctions(f)
	b := New(nf, f, opts...)
	nf.Reset()
	return b, nf
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    SurfaceFormat
		wantErr bool
	}{
		{"4.6.0 NVIDIA 535.54", SurfaceFormat{API: OpenGL, Major: 4, Minor: 6}, false},
		{"3.3 (Core Profile) Mesa 23.1", SurfaceFormat{API: OpenGL, Major: 3, Minor: 3}, false},
		{"2.1 Mesa", SurfaceFormat{API: OpenGL, Major: 2, Minor: 1}, false},
		{"OpenGL ES 3.2 Mesa 23.1", SurfaceFormat{API: OpenGLES, Major: 3, Minor: 2}, false},
		{"OpenGL ES 2.0 build 1.13", SurfaceFormat{API: OpenGLES, Major: 2, Minor: 0}, false},
		{"OpenGL ES-CM 1.1", SurfaceFormat{}, true},
		{"1.5", SurfaceFormat{}, true},
		{"garbage", SurfaceFormat{}, true},
		{"", SurfaceFormat{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Fatalf("ParseVersion(%q) error = %v, want ErrInvalidVersion", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestContextTypeOf(t *testing.T) {
	tests := []struct {
		f    SurfaceFormat
		want ContextType
	}{
		{SurfaceFormat{}, NullContext},
		{es(2, 0), GLES2},
		{es(3, 0), GLES3},
		{es(3, 1), GLES3PLUS},
		{es(3, 2), GLES3PLUS},
		{desktop(2, 1), GL2},
		{desktop(3, 3), GL3},
		{desktop(4, 6), GL4},
	}
	for _, tt := range tests {
		if got := ContextTypeOf(tt.f); got != tt.want {
			t.Errorf("ContextTypeOf(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestContextTypeIsLegacy(t *testing.T) {
	for _, ct := range []ContextType{GLES2, GL2} {
		if !ct.IsLegacy() {
			t.Errorf("%v.IsLegacy() = false, want true", ct)
		}
	}
	for _, ct := range []ContextType{NullContext, GLES3, GLES3PLUS, GL3, GL4} {
		if ct.IsLegacy() {
			t.Errorf("%v.IsLegacy() = true, want false", ct)
		}
	}
}

func TestNullContextHasNoCaps(t *testing.T) {
	b, nf := newTestBackend(t, SurfaceFormat{})
	if b.ContextType() != NullContext {
		t.Fatalf("ContextType() = %v, want NullContext", b.ContextType())
	}
	for c := Cap(0); c < capCount; c++ {
		if b.Cap(c) {
			t.Errorf("Cap(%v) = true on a null context", c)
		}
	}
	if b.CreateSampler(defaultSampler()) != (SamplerHandle{}) {
		t.Error("CreateSampler on a null context returned a handle")
	}
	if nf.TotalCalls() != 0 {
		t.Errorf("null context made %d native calls, want 0", nf.TotalCalls())
	}
}

// Capabilities only grow with the version inside one API family.
func TestCapsMonotonic(t *testing.T) {
	native := nativeSupport{extended: true, query: true, sync: true, pipeline: true, path: true}
	exts := []extensionSet{
		parseExtensions(),
		parseExtensions("GL_KHR_blend_equation_advanced GL_NV_path_rendering GL_EXT_texture_compression_s3tc"),
	}
	families := [][]SurfaceFormat{
		{es(2, 0), es(3, 0), es(3, 1), es(3, 2)},
		{desktop(2, 1), desktop(3, 0), desktop(3, 3), desktop(4, 0), desktop(4, 3), desktop(4, 6)},
	}
	for _, ext := range exts {
		for _, fam := range families {
			for i := 1; i < len(fam); i++ {
				lo := computeCaps(fam[i-1], ext, native)
				hi := computeCaps(fam[i], ext, native)
				for c := Cap(0); c < capCount; c++ {
					if lo.Has(c) && !hi.Has(c) {
						t.Errorf("%v has %v but %v does not", fam[i-1], c, fam[i])
					}
				}
			}
		}
	}
}

func TestCapsNeedNativeInterfaces(t *testing.T) {
	ext := parseExtensions("GL_NV_path_rendering GL_KHR_blend_equation_advanced")
	full := computeCaps(desktop(4, 6), ext, nativeSupport{extended: true, query: true, sync: true, pipeline: true, path: true})
	core := computeCaps(desktop(4, 6), ext, nativeSupport{})

	for _, c := range []Cap{CapTessellation, CapStorageBuffer, CapShaderImageLoadStore,
		CapProgramPipeline, CapTimerQuery, CapPathRendering, CapAdvancedBlend} {
		if !full.Has(c) {
			t.Errorf("full native set: %v missing", c)
		}
		if core.Has(c) {
			t.Errorf("core native set: %v reported", c)
		}
	}
	if !core.Has(CapCompute) || !core.Has(CapConstantBuffer) {
		t.Errorf("core caps = %v, want Compute and ConstantBuffer", core)
	}
}

func TestTierDerivedCaps(t *testing.T) {
	tests := []struct {
		f    SurfaceFormat
		want bool
	}{
		{es(2, 0), false},
		{desktop(2, 1), false},
		{es(3, 0), true},
		{desktop(3, 3), true},
	}
	for _, tt := range tests {
		b, _ := newTestBackend(t, tt.f)
		for _, c := range []Cap{CapSampleQuery, CapCommandSync, CapTextureArray} {
			if got := b.Cap(c); got != tt.want {
				t.Errorf("%v: Cap(%v) = %v, want %v", tt.f, c, got, tt.want)
			}
			if got := b.Caps().Has(c); got != tt.want {
				t.Errorf("%v: Caps().Has(%v) = %v, want %v", tt.f, c, got, tt.want)
			}
		}
	}
}

func TestExtensionOverride(t *testing.T) {
	b, _ := newTestBackend(t, es(2, 0), WithExtensions("GL_OES_vertex_array_object", "GL_OES_standard_derivatives"))
	if !b.Cap(CapVertexArrayObject) {
		t.Error("Cap(VertexArrayObject) = false with GL_OES_vertex_array_object")
	}
	if !b.HasExtension("GL_OES_standard_derivatives") {
		t.Error("HasExtension(GL_OES_standard_derivatives) = false")
	}
	if b.Cap(CapFpRenderTarget) {
		t.Error("Cap(FpRenderTarget) = true on GLES2 without extensions")
	}
}

func TestCoreProfileExtensionsUseGetStringi(t *testing.T) {
	nf := NewNullFunctions(desktop(3, 3))
	nf.Extensions = []string{"GL_ARB_texture_swizzle", "GL_KHR_blend_equation_advanced"}
	b := New(nf, desktop(3, 3))
	if nf.Calls("GetStringi") != 2 {
		t.Errorf("GetStringi calls = %d, want 2", nf.Calls("GetStringi"))
	}
	if !b.Cap(CapAdvancedBlend) {
		t.Error("Cap(AdvancedBlend) = false")
	}
}

func TestLimits(t *testing.T) {
	b, _ := newTestBackend(t, es(3, 0))
	l := b.Limits()
	if l.MaxTextureSize != 4096 || l.MaxTextureUnits != 16 || l.MaxColorAttachments != 8 {
		t.Errorf("Limits() = %+v", l)
	}
	if l.MaxUniformBlockSize != 16384 {
		t.Errorf("MaxUniformBlockSize = %d, want 16384", l.MaxUniformBlockSize)
	}

	legacy, _ := newTestBackend(t, es(2, 0))
	if got := legacy.Limits().MaxColorAttachments; got != 1 {
		t.Errorf("GLES2 MaxColorAttachments = %d, want 1", got)
	}
}

func TestAdapterInfo(t *testing.T) {
	tests := []struct {
		vendor, renderer string
		want             gpucontext.AdapterType
	}{
		{"Mesa", "llvmpipe (LLVM 15.0.7, 256 bits)", gpucontext.AdapterTypeSoftware},
		{"Intel", "Mesa Intel(R) UHD Graphics 620", gpucontext.AdapterTypeIntegrated},
		{"NVIDIA Corporation", "NVIDIA GeForce RTX 3070", gpucontext.AdapterTypeDiscrete},
		{"ARM", "Mali-G78", gpucontext.AdapterTypeIntegrated},
		{"glrender", "null renderer", gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		info := adapterInfo(tt.vendor, tt.renderer)
		if info.Type != tt.want {
			t.Errorf("adapterInfo(%q, %q).Type = %v, want %v", tt.vendor, tt.renderer, info.Type, tt.want)
		}
		if info.Name != tt.renderer {
			t.Errorf("adapterInfo(%q, %q).Name = %q", tt.vendor, tt.renderer, info.Name)
		}
	}
}

func TestRegistryNullLoader(t *testing.T) {
	if !IsRegistered(LoaderNull) {
		t.Fatal("null loader should be registered")
	}
	if !slices.Contains(Available(), LoaderNull) {
		t.Errorf("Available() = %v, want it to contain %q", Available(), LoaderNull)
	}
	b, err := Get(LoaderNull)
	if err != nil {
		t.Fatalf("Get(null) error = %v", err)
	}
	if b.ContextType() != NullContext {
		t.Errorf("Get(null).ContextType() = %v, want NullContext", b.ContextType())
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	const name = "test-gles3"
	Register(name, func() (GL, SurfaceFormat, error) {
		return NewNullFunctions(es(3, 0)), es(3, 0), nil
	})
	defer Unregister(name)

	if !IsRegistered(name) {
		t.Fatalf("IsRegistered(%q) = false after Register", name)
	}
	b, err := Get(name)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", name, err)
	}
	if b.ContextType() != GLES3 {
		t.Errorf("Get(%q).ContextType() = %v, want %v", name, b.ContextType(), GLES3)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	_, err := Get("nonexistent")
	if !errors.Is(err, ErrLoaderNotAvailable) {
		t.Errorf("Get(nonexistent) error = %v, want ErrLoaderNotAvailable", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	const name = "test-unregister"
	Register(name, func() (GL, SurfaceFormat, error) { return nil, SurfaceFormat{}, nil })
	Unregister(name)
	if IsRegistered(name) {
		t.Errorf("IsRegistered(%q) = true after Unregister", name)
	}
}

func TestRegistryDefaultSkipsFailingLoaders(t *testing.T) {
	failing := errors.New("no display")
	registryMu.RLock()
	saved := loaders[LoaderWGPU]
	registryMu.RUnlock()
	Register(LoaderWGPU, func() (GL, SurfaceFormat, error) { return nil, SurfaceFormat{}, failing })
	defer func() {
		if saved != nil {
			Register(LoaderWGPU, saved)
		} else {
			Unregister(LoaderWGPU)
		}
	}()

	b, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if b.ContextType() != NullContext {
		t.Errorf("Default().ContextType() = %v, want NullContext from the null loader", b.ContextType())
	}
}
