package effect

import (
	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/resource"
	"github.com/gogpu/glrender/shader"
)

// BufferInfo describes a render-target buffer of a context.
type BufferInfo struct {
	Name          string
	Target        backend.RenderTargetHandle
	Texture       backend.TextureHandle
	Format        backend.TextureFormat
	Width, Height int
	Lifetime      Lifetime
	NeedsClear    bool
}

// ImageInfo describes a shader image of a context.
type ImageInfo struct {
	Name          string
	Image         *resource.Image2D
	Texture       backend.TextureHandle
	Format        backend.TextureFormat
	Width, Height int
	Lifetime      Lifetime
}

// DataBufferInfo describes a data buffer of a context. Data is the
// zeroed backing store the buffer was created from. A wrap entry and the
// buffer it wraps share Data and the native buffer.
type DataBufferInfo struct {
	Name       string
	Buffer     backend.BufferHandle
	Kind       backend.BufferKind
	Size       int
	Data       []byte
	Lifetime   Lifetime
	NeedsClear bool

	alias *DataBufferInfo
}

type bindingKey struct {
	program backend.ProgramHandle
	param   string
}

// Context holds the resources of one effect instance. Lookups scan the
// entries linearly; effects name a few dozen resources at most.
type Context struct {
	effect   *Effect
	buffers  []*BufferInfo
	images   []*ImageInfo
	data     []*DataBufferInfo
	textures map[string]backend.TextureHandle
	bindings map[bindingKey]shader.Uniform
}

func newContext(e *Effect) *Context {
	return &Context{
		effect:   e,
		textures: make(map[string]backend.TextureHandle),
		bindings: make(map[bindingKey]shader.Uniform),
	}
}

// Effect returns the owning effect.
func (c *Context) Effect() *Effect { return c.effect }

func (c *Context) bufferIndex(name string) int {
	for i, b := range c.buffers {
		if b.Name == name {
			return i
		}
	}
	return -1
}

func (c *Context) imageIndex(name string) int {
	for i, img := range c.images {
		if img.Name == name {
			return i
		}
	}
	return -1
}

func (c *Context) dataIndex(name string) int {
	for i, d := range c.data {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// Buffer returns a copy of the named buffer entry.
func (c *Context) Buffer(name string) (BufferInfo, bool) {
	if i := c.bufferIndex(name); i >= 0 {
		return *c.buffers[i], true
	}
	return BufferInfo{}, false
}

// Image returns a copy of the named image entry.
func (c *Context) Image(name string) (ImageInfo, bool) {
	if i := c.imageIndex(name); i >= 0 {
		return *c.images[i], true
	}
	return ImageInfo{}, false
}

// DataBuffer returns a copy of the named data buffer entry.
func (c *Context) DataBuffer(name string) (DataBufferInfo, bool) {
	if i := c.dataIndex(name); i >= 0 {
		return *c.data[i], true
	}
	return DataBufferInfo{}, false
}

// Len returns the number of buffers, images and data buffers held.
func (c *Context) Len() int { return len(c.buffers) + len(c.images) + len(c.data) }

// binding returns the uniform of param in prog, caching the lookup.
func (c *Context) binding(prog *shader.Program, param string) (shader.Uniform, bool) {
	key := bindingKey{program: prog.Handle(), param: param}
	if u, ok := c.bindings[key]; ok {
		return u, true
	}
	u, ok := prog.Uniform(param)
	if ok {
		c.bindings[key] = u
	}
	return u, ok
}

func releaseBuffer(rm *resource.Manager, b *BufferInfo) {
	rm.ReleaseFrameBuffer(b.Target)
	rm.ReleaseTexture(b.Texture)
}

func releaseImage(rm *resource.Manager, img *ImageInfo) {
	rm.ReleaseImage2D(img.Image)
	rm.ReleaseTexture(img.Texture)
}

// endFrame releases frame lifetime entries and marks the scene lifetime
// entries for clearing on their next use.
func (c *Context) endFrame(rm *resource.Manager) {
	b := rm.RenderContext()
	kept := c.buffers[:0]
	for _, e := range c.buffers {
		if e.Lifetime == SceneLifetime {
			e.NeedsClear = true
			kept = append(kept, e)
			continue
		}
		releaseBuffer(rm, e)
	}
	clear(c.buffers[len(kept):])
	c.buffers = kept

	keptImages := c.images[:0]
	for _, e := range c.images {
		if e.Lifetime == SceneLifetime {
			keptImages = append(keptImages, e)
			continue
		}
		releaseImage(rm, e)
	}
	clear(c.images[len(keptImages):])
	c.images = keptImages

	keptData := c.data[:0]
	for _, e := range c.data {
		if e.Lifetime == SceneLifetime {
			e.NeedsClear = true
			keptData = append(keptData, e)
			continue
		}
		b.ReleaseBuffer(e.Buffer)
	}
	clear(c.data[len(keptData):])
	c.data = keptData
}

// release frees every resource of the context.
func (c *Context) release(rm *resource.Manager) {
	b := rm.RenderContext()
	for _, e := range c.buffers {
		releaseBuffer(rm, e)
	}
	for _, e := range c.images {
		releaseImage(rm, e)
	}
	for _, e := range c.data {
		b.ReleaseBuffer(e.Buffer)
	}
	for _, t := range c.textures {
		rm.ReleaseTexture(t)
	}
	c.buffers, c.images, c.data = nil, nil, nil
	clear(c.textures)
	clear(c.bindings)
}
