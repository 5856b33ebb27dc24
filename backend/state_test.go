package backend

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

func TestSetDepthStencilStateElision(t *testing.T) {
	b, nf := newTestBackend(t, es(3, 0))

	desc := DefaultDepthStencil()
	desc.DepthEnable = true
	desc.DepthFunc = gputypes.CompareFunctionLessEqual
	h := b.CreateDepthStencilState(desc)

	b.SetDepthStencilState(h)
	if nf.Calls("Enable") != 1 || nf.Calls("DepthFunc") != 1 {
		t.Errorf("first apply: Enable=%d DepthFunc=%d, want 1 and 1", nf.Calls("Enable"), nf.Calls("DepthFunc"))
	}
	if nf.TotalCalls() != 2 {
		t.Errorf("first apply made %d native calls, want 2 (%v)", nf.TotalCalls(), nf.CallLog())
	}

	nf.Reset()
	b.SetDepthStencilState(h)
	if nf.TotalCalls() != 0 {
		t.Errorf("re-applying the current state made %d native calls, want 0 (%v)", nf.TotalCalls(), nf.CallLog())
	}

	nf.Reset()
	b.SetDepthStencilState(b.CreateDepthStencilState(DefaultDepthStencil()))
	if nf.Calls("Disable") != 1 || nf.Calls("DepthFunc") != 1 || nf.TotalCalls() != 2 {
		t.Errorf("restoring defaults: %v, want Disable and DepthFunc", nf.CallLog())
	}
}

func TestSetDepthStencilStateOnlyChangedStencilFaces(t *testing.T) {
	b, nf := newTestBackend(t, es(3, 0))

	desc := DefaultDepthStencil()
	desc.StencilEnable = true
	desc.FrontFunc = StencilFunc{Compare: gputypes.CompareFunctionEqual, Ref: 1, Mask: 0xFF}
	b.SetDepthStencilState(b.CreateDepthStencilState(desc))

	if got := nf.Calls("StencilFuncSeparate"); got != 1 {
		t.Errorf("StencilFuncSeparate calls = %d, want 1 (back face unchanged)", got)
	}
	if got := nf.Calls("StencilOpSeparate"); got != 0 {
		t.Errorf("StencilOpSeparate calls = %d, want 0", got)
	}
	args := nf.LastArgs("StencilFuncSeparate")
	if len(args) == 0 || args[0] != uint32(gl.FRONT) {
		t.Errorf("StencilFuncSeparate args = %v, want front face", args)
	}
}

func TestSetRasterizerStateElision(t *testing.T) {
	b, nf := newTestBackend(t, es(3, 0))

	back := b.CreateRasterizerState(RasterizerDesc{CullMode: gputypes.CullModeBack})
	b.SetRasterizerState(back)
	if nf.Calls("Enable") != 1 || nf.Calls("CullFace") != 0 {
		t.Errorf("cull back: %v, want a single Enable (back is the native default)", nf.CallLog())
	}

	nf.Reset()
	b.SetRasterizerState(back)
	if nf.TotalCalls() != 0 {
		t.Errorf("re-applying the current state made %d native calls, want 0", nf.TotalCalls())
	}

	nf.Reset()
	b.SetRasterizerState(b.CreateRasterizerState(RasterizerDesc{CullMode: gputypes.CullModeFront}))
	if nf.Calls("CullFace") != 1 || nf.Calls("Enable") != 0 {
		t.Errorf("cull front: %v, want a single CullFace", nf.CallLog())
	}

	nf.Reset()
	b.SetRasterizerState(b.CreateRasterizerState(RasterizerDesc{CullMode: gputypes.CullModeNone}))
	if nf.Calls("Disable") != 1 || nf.TotalCalls() != 1 {
		t.Errorf("cull none: %v, want a single Disable", nf.CallLog())
	}
	if b.RenderState(StateCullFace) {
		t.Error("RenderState(CullFace) = true after CullModeNone")
	}
}

func TestPolygonOffsetNeedsExtendedFunctions(t *testing.T) {
	nf := NewNullFunctions(es(3, 0))
	b := New(coreOnly{nf}, es(3, 0))
	nf.Reset()

	b.SetRasterizerState(b.CreateRasterizerState(RasterizerDesc{DepthBias: 1, DepthScale: 2}))
	if nf.Calls("Enable") != 1 {
		t.Errorf("Enable calls = %d, want 1 for the polygon offset toggle", nf.Calls("Enable"))
	}
	if nf.Calls("PolygonOffset") != 0 {
		t.Error("PolygonOffset called without extended functions")
	}
}

func TestSetterElision(t *testing.T) {
	tests := []struct {
		name string
		set  func(b *Backend)
	}{
		{"viewport", func(b *Backend) { b.SetViewport(Rect{0, 0, 640, 480}) }},
		{"scissor", func(b *Backend) { b.SetScissorRect(Rect{10, 10, 20, 20}) }},
		{"clear color", func(b *Backend) { b.SetClearColor(gputypes.Color{R: 1, A: 1}) }},
		{"clear depth", func(b *Backend) { b.SetClearDepth(0.5) }},
		{"clear stencil", func(b *Backend) { b.SetClearStencil(3) }},
		{"blend color", func(b *Backend) { b.SetBlendColor(gputypes.Color{G: 1}) }},
		{"color writes", func(b *Backend) { b.SetColorWrites(true, false, true, false) }},
		{"depth func", func(b *Backend) { b.SetDepthFunc(gputypes.CompareFunctionGreater) }},
		{"blend func", func(b *Backend) {
			b.SetBlendFunc(BlendFunc{gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha,
				gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha})
		}},
		{"blend toggle", func(b *Backend) { b.SetRenderState(StateBlend, true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, nf := newTestBackend(t, es(3, 0))
			tt.set(b)
			if nf.TotalCalls() != 1 {
				t.Errorf("first set made %d native calls, want 1 (%v)", nf.TotalCalls(), nf.CallLog())
			}
			nf.Reset()
			tt.set(b)
			if nf.TotalCalls() != 0 {
				t.Errorf("repeated set made %d native calls, want 0 (%v)", nf.TotalCalls(), nf.CallLog())
			}
		})
	}
}

func TestDefaultsAreElided(t *testing.T) {
	b, nf := newTestBackend(t, es(3, 0))
	b.SetBlendFunc(BlendFunc{gputypes.BlendFactorOne, gputypes.BlendFactorZero, gputypes.BlendFactorOne, gputypes.BlendFactorZero})
	b.SetColorWrites(true, true, true, true)
	b.SetDepthFunc(gputypes.CompareFunctionLess)
	b.SetRenderState(StateDepthWrite, true)
	if nf.TotalCalls() != 0 {
		t.Errorf("setting native defaults made %d calls, want 0 (%v)", nf.TotalCalls(), nf.CallLog())
	}
}

func TestResetStateForgetsCachedValues(t *testing.T) {
	b, nf := newTestBackend(t, es(3, 0))
	b.SetDepthFunc(gputypes.CompareFunctionLess)
	if nf.TotalCalls() != 0 {
		t.Fatalf("default depth func made %d calls", nf.TotalCalls())
	}
	b.ResetState()
	b.SetDepthFunc(gputypes.CompareFunctionLess)
	if nf.Calls("DepthFunc") != 1 {
		t.Errorf("DepthFunc calls after ResetState = %d, want 1", nf.Calls("DepthFunc"))
	}
}

func TestMultisampleToggleOnES(t *testing.T) {
	b, nf := newTestBackend(t, es(3, 0))
	b.SetRenderState(StateMultisample, false)
	if nf.TotalCalls() != 0 {
		t.Errorf("ES multisample toggle made %d native calls, want 0", nf.TotalCalls())
	}
	if b.RenderState(StateMultisample) {
		t.Error("RenderState(Multisample) = true after disabling")
	}

	d, dnf := newTestBackend(t, desktop(3, 3))
	d.SetRenderState(StateMultisample, false)
	if dnf.Calls("Disable") != 1 {
		t.Errorf("desktop multisample toggle: Disable calls = %d, want 1", dnf.Calls("Disable"))
	}
}

func TestAdvancedBlendEquationGated(t *testing.T) {
	b, nf := newTestBackend(t, es(3, 0))
	b.SetBlendEquation(BlendEquation{Advanced: BlendMultiply})
	if nf.TotalCalls() != 0 {
		t.Errorf("unsupported advanced blend made %d native calls", nf.TotalCalls())
	}
	if b.BlendEquation().Advanced != BlendNone {
		t.Error("unsupported blend equation was cached")
	}

	a, anf := newTestBackend(t, es(3, 2), WithExtensions("GL_KHR_blend_equation_advanced"))
	a.SetBlendEquation(BlendEquation{Advanced: BlendMultiply})
	if anf.Calls("BlendEquation") != 1 {
		t.Errorf("BlendEquation calls = %d, want 1", anf.Calls("BlendEquation"))
	}
	anf.Reset()
	a.SetBlendBarrier()
	if anf.Calls("BlendBarrier") != 1 {
		t.Errorf("BlendBarrier calls = %d, want 1 without coherency", anf.Calls("BlendBarrier"))
	}
}

// coreOnly hides the optional native interfaces of the wrapped functions.
type coreOnly struct{ GL }
