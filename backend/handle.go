package backend

import "fmt"

// handle is a generation-tagged arena index. The zero value is null:
// generations start at 1.
type handle struct {
	index uint32
	gen   uint32
}

// IsNull reports whether the handle is the null sentinel.
func (h handle) IsNull() bool { return h.gen == 0 }

func (h handle) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d#%d", h.index, h.gen)
}

// Typed handles. Each kind has its own type so handles cannot be mixed up.
type (
	BufferHandle          struct{ handle }
	TextureHandle         struct{ handle }
	RenderTargetHandle    struct{ handle }
	RenderbufferHandle    struct{ handle }
	SamplerHandle         struct{ handle }
	AttribLayoutHandle    struct{ handle }
	InputAssemblerHandle  struct{ handle }
	ShaderHandle          struct{ handle }
	ProgramHandle         struct{ handle }
	ProgramPipelineHandle struct{ handle }
	QueryHandle           struct{ handle }
	SyncHandle            struct{ handle }
	DepthStencilHandle    struct{ handle }
	RasterizerHandle      struct{ handle }
	PathObjectHandle      struct{ handle }
)

// Stage-typed shader handles share the shader arena.
type (
	VertexShaderHandle      struct{ ShaderHandle }
	FragmentShaderHandle    struct{ ShaderHandle }
	TessControlShaderHandle struct{ ShaderHandle }
	TessEvalShaderHandle    struct{ ShaderHandle }
	GeometryShaderHandle    struct{ ShaderHandle }
	ComputeShaderHandle     struct{ ShaderHandle }
)

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// arena stores objects of one kind behind generation-tagged handles.
// Freed slots are reused with a bumped generation, so stale handles
// never resolve.
type arena[T any] struct {
	kind  string
	slots []slot[T]
	free  []uint32
	live  int
}

func newArena[T any](kind string) arena[T] {
	return arena[T]{kind: kind}
}

func (a *arena[T]) insert(v T) handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	s.val = v
	a.live++
	return handle{index: idx, gen: s.gen}
}

func (a *arena[T]) get(h handle) (*T, bool) {
	if h.IsNull() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.val, true
}

func (a *arena[T]) remove(h handle) (T, bool) {
	var zero T
	if h.IsNull() || int(h.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return zero, false
	}
	v := s.val
	s.val = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.live--
	return v, true
}

// each calls fn for every live object.
func (a *arena[T]) each(fn func(h handle, v *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(handle{index: uint32(i), gen: s.gen}, &s.val)
		}
	}
}

func (a *arena[T]) len() int { return a.live }
