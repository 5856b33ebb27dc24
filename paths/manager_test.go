package paths

import (
	"bytes"
	"reflect"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/iostream"
)

const (
	glFloat     = 0x1406
	glFloatVec4 = 0x8B52
	glPatches   = 0x000E
)

func newBackend(t *testing.T, major, minor int, exts ...string) (*backend.Backend, *backend.NullFunctions) {
	t.Helper()
	f := backend.SurfaceFormat{API: backend.OpenGLES, Major: major, Minor: minor}
	nf := backend.NewNullFunctions(f)
	nf.Extensions = exts
	b := backend.New(nf, f)
	nf.Reset()
	return b, nf
}

func newProgram(t *testing.T, b *backend.Backend, nf *backend.NullFunctions) backend.ProgramHandle {
	t.Helper()
	nf.Attribs = []backend.NullAttrib{{Name: "attr_pos", Type: glFloatVec4, Location: 0}}
	nf.Uniforms = []backend.NullUniform{
		{Name: UniformPathWidth, Type: glFloat, Size: 1, Location: 0},
		{Name: UniformBeginTaper, Type: glFloatVec4, Size: 1, Location: 1},
	}
	vs, _ := b.CreateVertexShader(backend.ShaderCode{Source: "vs"})
	fs, _ := b.CreateFragmentShader(backend.ShaderCode{Source: "fs"})
	p := b.CreateShaderProgram(false)
	b.AttachShader(p, vs.ShaderHandle)
	b.AttachShader(p, fs.ShaderHandle)
	if ok, log := b.LinkProgram(p); !ok {
		t.Fatalf("LinkProgram failed: %q", log)
	}
	return p
}

// polyline returns anchors without handles, so every segment is straight.
func polyline(pts ...Vec2) []Anchor {
	out := make([]Anchor, len(pts))
	for i, p := range pts {
		out[i] = Anchor{Position: p}
	}
	return out
}

func TestSubPathBuffer(t *testing.T) {
	b, _ := newBackend(t, 3, 2)
	m := NewManager(b, nil)
	defer m.Release()
	sp := NewSubPath(false)

	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{1, 1}))
	m.ResizePathSubPathBuffer(sp, 4)
	got := m.PathSubPathBuffer(sp)
	want := append(polyline(Vec2{0, 0}, Vec2{1, 1}), Anchor{}, Anchor{})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PathSubPathBuffer() = %v, want %v", got, want)
	}
	got[0].Position = Vec2{9, 9}
	if m.PathSubPathBuffer(sp)[0].Position != (Vec2{}) {
		t.Error("PathSubPathBuffer() returned the internal buffer")
	}
	m.ResizePathSubPathBuffer(sp, 1)
	if n := len(m.PathSubPathBuffer(sp)); n != 1 {
		t.Errorf("len after shrinking = %d, want 1", n)
	}
}

func TestSubPathBufferConcurrentWriters(t *testing.T) {
	b, _ := newBackend(t, 3, 2)
	m := NewManager(b, nil)
	defer m.Release()
	sp := NewSubPath(true)
	p := NewPath(GeometryPath)
	p.SetSubPaths(sp)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				if j%2 == 0 {
					m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{float32(i), 10}, Vec2{20, float32(j)}))
				} else {
					m.ResizePathSubPathBuffer(sp, 3)
				}
				_ = m.PathSubPathBuffer(sp)
			}
		}()
	}
	for range 20 {
		m.PrepareForRender(p)
	}
	wg.Wait()
	if !m.PrepareForRender(p) {
		t.Fatal("PrepareForRender() = false")
	}
	if got := m.Patches(p); got != 3 {
		t.Errorf("Patches() = %d, want 3", got)
	}
}

func TestGeometryPathRebuildsOnDirtyFlags(t *testing.T) {
	b, nf := newBackend(t, 3, 2)
	m := NewManager(b, nil)
	defer m.Release()

	sp := NewSubPath(false)
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{100, 0}, Vec2{100, 100}))
	p := NewPath(GeometryPath)
	p.SetSubPaths(sp)
	p.SetWidth(4)

	if !m.PrepareForRender(p) {
		t.Fatal("PrepareForRender() = false")
	}
	if p.Dirty() != 0 {
		t.Errorf("Dirty() after prepare = %v, want Clean", p.Dirty())
	}
	if got := m.Patches(p); got != 2 {
		t.Errorf("Patches() = %d, want 2", got)
	}
	if got := nf.Calls("GenBuffers"); got != 1 {
		t.Errorf("GenBuffers calls = %d, want 1", got)
	}
	bounds, _ := m.Bounds(p)
	if want := (Rect{Min: Vec2{-2, -2}, Max: Vec2{102, 102}}); bounds != want {
		t.Errorf("Bounds() = %v, want %v", bounds, want)
	}

	nf.Reset()
	m.PrepareForRender(p)
	if got := nf.Calls("BufferSubData") + nf.Calls("BufferData"); got != 0 {
		t.Errorf("clean prepare uploaded %d times, want 0", got)
	}

	p.SetWidth(4)
	m.PrepareForRender(p)
	if got := nf.Calls("BufferSubData"); got != 0 {
		t.Errorf("setting an unchanged width uploaded %d times", got)
	}

	tests := []struct {
		name   string
		change func()
	}{
		{"width", func() { p.SetWidth(6) }},
		{"begin taper", func() { p.SetBeginTaper(Taper{Cap: CapTaper, Length: 10}) }},
		{"end taper", func() { p.SetEndTaper(Taper{Cap: CapTaper, Length: 10}) }},
		{"linear error", func() { p.SetLinearError(3) }},
		{"anchors", func() { m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{50, 0}, Vec2{50, 50})) }},
	}
	for _, tt := range tests {
		nf.Reset()
		tt.change()
		if !m.PrepareForRender(p) {
			t.Fatalf("%s: PrepareForRender() = false", tt.name)
		}
		if got := nf.Calls("BufferSubData") + nf.Calls("BufferData"); got == 0 {
			t.Errorf("%s: change did not rebuild the patches", tt.name)
		}
	}
}

func TestGeometryBufferGrowsMonotonically(t *testing.T) {
	b, nf := newBackend(t, 3, 2)
	m := NewManager(b, nil)
	defer m.Release()

	sp := NewSubPath(false)
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{10, 0}, Vec2{10, 10}))
	p := NewPath(GeometryPath)
	p.SetSubPaths(sp)
	m.PrepareForRender(p)

	nf.Reset()
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{10, 0}))
	m.PrepareForRender(p)
	if got := nf.Calls("GenBuffers"); got != 0 {
		t.Errorf("shrinking allocated %d buffers, want 0", got)
	}
	if got := nf.Calls("BufferSubData"); got != 1 {
		t.Errorf("shrinking wrote %d times, want 1", got)
	}

	nf.Reset()
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{10, 0}, Vec2{10, 10}, Vec2{0, 10}))
	m.PrepareForRender(p)
	if got := nf.Calls("GenBuffers"); got != 1 {
		t.Errorf("growing allocated %d buffers, want 1", got)
	}
	if got := nf.Live("buffer"); got != 1 {
		t.Errorf("live buffers = %d, want 1", got)
	}
}

func TestSubPathStructuralChanges(t *testing.T) {
	b, _ := newBackend(t, 3, 2)
	m := NewManager(b, nil)
	defer m.Release()

	sp := NewSubPath(false)
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{10, 0}, Vec2{10, 10}))
	p := NewPath(GeometryPath)
	p.SetSubPaths(sp)
	m.PrepareForRender(p)

	sp.SetClosed(true)
	m.PrepareForRender(p)
	if got := m.Patches(p); got != 3 {
		t.Errorf("Patches() after closing = %d, want 3", got)
	}

	other := NewSubPath(false)
	m.SetPathSubPathData(other, polyline(Vec2{50, 50}, Vec2{60, 50}))
	p.SetSubPaths(sp, other)
	m.PrepareForRender(p)
	if got := m.Patches(p); got != 4 {
		t.Errorf("Patches() after adding a sub-path = %d, want 4", got)
	}

	p.SetSubPaths(other)
	m.PrepareForRender(p)
	if got := m.Patches(p); got != 1 {
		t.Errorf("Patches() after removing a sub-path = %d, want 1", got)
	}
}

func TestGeometryPathNeedsTessellation(t *testing.T) {
	b, _ := newBackend(t, 3, 0)
	m := NewManager(b, nil)
	defer m.Release()
	sp := NewSubPath(false)
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{10, 0}))
	p := NewPath(GeometryPath)
	p.SetSubPaths(sp)
	if m.PrepareForRender(p) {
		t.Error("PrepareForRender() = true without tessellation support")
	}
	if p.Dirty()&DirtySourceData == 0 {
		t.Errorf("Dirty() = %v, want SourceData kept for a retry", p.Dirty())
	}
}

func TestRenderGeometryPath(t *testing.T) {
	b, nf := newBackend(t, 3, 2)
	prog := newProgram(t, b, nf)
	m := NewManager(b, nil)
	defer m.Release()

	sp := NewSubPath(false)
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{10, 0}, Vec2{10, 10}))
	p := NewPath(GeometryPath)
	p.SetSubPaths(sp)
	p.SetWidth(3)
	p.SetBeginTaper(Taper{Cap: CapTaper, Length: 2, Width: 0.25, Opacity: 0.5})

	if m.RenderGeometryPath(p, prog) {
		t.Error("RenderGeometryPath() before PrepareForRender = true")
	}
	m.PrepareForRender(p)
	nf.Reset()
	if !m.RenderGeometryPath(p, prog) {
		t.Fatal("RenderGeometryPath() = false")
	}
	args := nf.LastArgs("DrawArrays")
	if len(args) != 3 || args[0] != uint32(glPatches) || args[2] != int32(m.Patches(p)*5) {
		t.Errorf("DrawArrays args = %v, want patches of %d vertices", args, m.Patches(p)*5)
	}
	if got := nf.LastArgs("PatchParameteri"); len(got) != 2 || got[1] != int32(5) {
		t.Errorf("PatchParameteri args = %v, want 5 vertices", got)
	}
	if got := nf.UniformValue(0); !reflect.DeepEqual(got, []float32{3}) {
		t.Errorf("%s = %v, want [3]", UniformPathWidth, got)
	}
	if got := nf.UniformValue(1); !reflect.DeepEqual(got, []float32{0.25, 0.5, 0, 0}) {
		t.Errorf("%s = %v, want [0.25 0.5 0 0]", UniformBeginTaper, got)
	}
}

func TestPaintedPath(t *testing.T) {
	b, nf := newBackend(t, 3, 2, "GL_NV_path_rendering")
	prog := newProgram(t, b, nf)
	nf.PathBounds = [4]float32{0, 0, 30, 30}
	m := NewManager(b, nil)
	defer m.Release()

	sp := NewSubPath(true)
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{30, 0}, Vec2{30, 30}))
	p := NewPath(PaintedPath)
	p.SetSubPaths(sp)

	if !m.PrepareForRender(p) {
		t.Fatal("PrepareForRender() = false")
	}
	if got := nf.Calls("PathCommands"); got != 1 {
		t.Errorf("PathCommands calls = %d, want 1", got)
	}
	if bounds, _ := m.Bounds(p); bounds != (Rect{Max: Vec2{30, 30}}) {
		t.Errorf("Bounds() = %v, want (0,0)-(30,30)", bounds)
	}

	nf.Reset()
	p.SetWidth(2)
	m.PrepareForRender(p)
	if got := nf.Calls("PathCommands"); got != 0 {
		t.Errorf("width change resubmitted geometry %d times", got)
	}
	if nf.Calls("PathParameterf") == 0 {
		t.Error("width change did not update the stroke")
	}

	nf.Reset()
	b.SetRenderState(backend.StateStencilTest, false)
	if !m.RenderPaintedPath(p, prog) {
		t.Fatal("RenderPaintedPath() = false")
	}
	if got := nf.Calls("StencilStrokePath"); got != 1 {
		t.Errorf("StencilStrokePath calls = %d, want 1", got)
	}
	if got := nf.Calls("DrawElements"); got != 1 {
		t.Errorf("DrawElements calls = %d, want 1", got)
	}
	if b.RenderState(backend.StateStencilTest) {
		t.Error("stencil test left enabled after rendering")
	}
	log := nf.CallLog()
	stencil, draw := -1, -1
	for i, name := range log {
		switch name {
		case "StencilStrokePath":
			stencil = i
		case "DrawElements":
			draw = i
		}
	}
	if stencil < 0 || draw < stencil {
		t.Errorf("cover drawn before stencil: %v", log)
	}

	p.SetWidth(0)
	m.PrepareForRender(p)
	nf.Reset()
	m.RenderPaintedPath(p, prog)
	if got := nf.Calls("StencilFillPath"); got != 1 {
		t.Errorf("StencilFillPath calls = %d, want 1", got)
	}

	p.SetType(GeometryPath)
	if !m.PrepareForRender(p) {
		t.Fatal("PrepareForRender() after switching to geometry = false")
	}
	if got := nf.Live("path"); got != 0 {
		t.Errorf("live path objects after switching = %d, want 0", got)
	}
	if m.RenderPaintedPath(p, prog) {
		t.Error("RenderPaintedPath() of a geometry path = true")
	}
	if got := m.Patches(p); got != 3 {
		t.Errorf("Patches() = %d, want 3", got)
	}
}

func TestPaintedPathNeedsExtension(t *testing.T) {
	b, _ := newBackend(t, 3, 2)
	m := NewManager(b, nil)
	defer m.Release()
	p := NewPath(PaintedPath)
	if m.PrepareForRender(p) {
		t.Error("PrepareForRender() = true without path rendering")
	}
}

func TestPathFromBlob(t *testing.T) {
	var buf bytes.Buffer
	if err := squareBlob().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	streams := iostream.NewFactory()
	streams.AddFS(":/", fstest.MapFS{"paths/square.gpth": {Data: buf.Bytes()}})

	b, _ := newBackend(t, 3, 2)
	m := NewManager(b, streams)
	defer m.Release()

	p := NewPath(GeometryPath)
	p.SetSource(":/paths/square.gpth")
	if !m.PrepareForRender(p) {
		t.Fatal("PrepareForRender() = false")
	}
	// Two curves and the closing line.
	if got := m.Patches(p); got != 3 {
		t.Errorf("Patches() = %d, want 3", got)
	}

	missing := NewPath(GeometryPath)
	missing.SetSource(":/paths/missing.gpth")
	if m.PrepareForRender(missing) {
		t.Error("PrepareForRender() of a missing blob = true")
	}
	if _, ok := m.blobs[":/paths/missing.gpth"]; !ok {
		t.Error("failed load not cached")
	}
}

func TestReleasePath(t *testing.T) {
	b, nf := newBackend(t, 3, 2)
	m := NewManager(b, nil)
	sp := NewSubPath(false)
	m.SetPathSubPathData(sp, polyline(Vec2{0, 0}, Vec2{10, 0}))
	p := NewPath(GeometryPath)
	p.SetSubPaths(sp)
	m.PrepareForRender(p)

	m.ReleasePath(p)
	if got := nf.Live("buffer"); got != 0 {
		t.Errorf("live buffers after ReleasePath = %d, want 0", got)
	}
	if _, ok := m.Bounds(p); ok {
		t.Error("Bounds() of a released path reported ok")
	}
	if !m.PrepareForRender(p) || m.Patches(p) != 1 {
		t.Error("released path was not rebuilt")
	}
	m.Release()
	if got := nf.Live("buffer"); got != 0 {
		t.Errorf("live buffers after Release = %d, want 0", got)
	}
}
