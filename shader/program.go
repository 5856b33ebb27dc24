package shader

import (
	"slices"
	"strings"

	"github.com/gogpu/glrender/backend"
)

// Uniform is a reflected uniform of a linked program. Unit is the texture
// or image unit reserved for sampler and image uniforms and -1 otherwise.
type Uniform struct {
	Name     string
	Location int32
	Type     backend.ShaderDataType
	Count    int
	Unit     int
}

// Program is a linked shader program with its uniform table.
type Program struct {
	Path   string
	Define string

	b        *backend.Backend
	handle   backend.ProgramHandle
	uniforms map[string]Uniform
	buffers  map[string]int
}

func newProgram(b *backend.Backend, h backend.ProgramHandle, path, define string) *Program {
	p := &Program{
		Path:     path,
		Define:   define,
		b:        b,
		handle:   h,
		uniforms: make(map[string]Uniform),
		buffers:  make(map[string]int),
	}
	textures, images := 0, 0
	for _, u := range b.ProgramUniforms(h) {
		unit := -1
		switch {
		case u.Type.IsSampler():
			unit = textures
			textures++
		case u.Type == backend.TypeImage2D:
			unit = images
			images++
		}
		p.uniforms[u.Name] = Uniform{
			Name:     u.Name,
			Location: u.Location,
			Type:     u.Type,
			Count:    u.Count,
			Unit:     unit,
		}
	}
	return p
}

// Handle returns the backend program.
func (p *Program) Handle() backend.ProgramHandle { return p.handle }

// Uniform looks up a uniform by name.
func (p *Program) Uniform(name string) (Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// Has reports whether the program declares an active uniform name.
func (p *Program) Has(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

// Uniforms returns the active uniforms sorted by name.
func (p *Program) Uniforms() []Uniform {
	out := make([]Uniform, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b Uniform) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Bind makes the program current.
func (p *Program) Bind() { p.b.SetActiveProgram(p.handle) }

func (p *Program) mismatch(u Uniform, typ backend.ShaderDataType) bool {
	slogger().Error("uniform type mismatch",
		"program", p.Path, "uniform", u.Name,
		"declared", u.Type.String(), "value", typ.String(),
		"err", backend.ErrTypeMismatch)
	return false
}

// SetValue writes a numeric value to a uniform. It returns false when
// the uniform is not active or has another type.
func (p *Program) SetValue(name string, typ backend.ShaderDataType, value any) bool {
	u, ok := p.uniforms[name]
	if !ok {
		return false
	}
	if u.Unit >= 0 {
		return p.mismatch(u, typ)
	}
	return p.b.SetUniformValue(p.handle, u.Location, 1, typ, value)
}

// SetArray writes count elements of typ to an array uniform.
func (p *Program) SetArray(name string, typ backend.ShaderDataType, count int, value any) bool {
	u, ok := p.uniforms[name]
	if !ok {
		return false
	}
	return p.b.SetUniformValue(p.handle, u.Location, min(count, u.Count), typ, value)
}

// SetTexture binds tex to the unit reserved for a sampler uniform.
func (p *Program) SetTexture(name string, tex backend.TextureHandle) bool {
	u, ok := p.uniforms[name]
	if !ok {
		return false
	}
	if !u.Type.IsSampler() {
		return p.mismatch(u, backend.TypeTexture2D)
	}
	if !p.b.BindTextureUnit(tex, u.Unit) {
		return false
	}
	return p.b.SetUniformValue(p.handle, u.Location, 1, backend.TypeInt, int32(u.Unit))
}

// SetImage binds level 0 of tex as a shader image.
func (p *Program) SetImage(name string, tex backend.TextureHandle, access backend.ImageAccess, format backend.TextureFormat) bool {
	u, ok := p.uniforms[name]
	if !ok {
		return false
	}
	if u.Type != backend.TypeImage2D {
		return p.mismatch(u, backend.TypeImage2D)
	}
	if !p.b.BindImageTexture(u.Unit, tex, 0, access, format) {
		return false
	}
	return p.b.SetUniformValue(p.handle, u.Location, 1, backend.TypeInt, int32(u.Unit))
}

// SetStorageBuffer binds buf to the storage block name. Slots are
// assigned in first-use order.
func (p *Program) SetStorageBuffer(name string, buf backend.BufferHandle) bool {
	slot, ok := p.buffers[name]
	if !ok {
		slot = len(p.buffers)
		p.buffers[name] = slot
	}
	return p.b.ProgramSetStorageBuffer(p.handle, name, slot, buf)
}

// SetConstantBuffer binds buf to the uniform block name.
func (p *Program) SetConstantBuffer(name string, slot int, buf backend.BufferHandle) bool {
	return p.b.ProgramSetConstantBuffer(p.handle, name, slot, buf)
}

func (p *Program) release() {
	if p.handle.IsNull() {
		return
	}
	p.b.ReleaseShaderProgram(p.handle)
	p.handle = backend.ProgramHandle{}
}
