package backend

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

type samplerObj struct {
	id   uint32
	desc gputypes.SamplerDescriptor
}

// CreateSampler creates a sampler object. Samplers need a non-legacy tier;
// legacy contexts set sampling on the texture with SetTextureSampling.
func (b *Backend) CreateSampler(desc gputypes.SamplerDescriptor) SamplerHandle {
	if !b.tierAtLeast3() {
		b.unsupported("CreateSampler")
		return SamplerHandle{}
	}
	id := b.gl.GenSamplers(1)
	if id == 0 {
		slogger().Error("GenSamplers failed")
		return SamplerHandle{}
	}
	b.gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, glMinFilter(desc.MinFilter, desc.MipmapFilter))
	b.gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, glMagFilter(desc.MagFilter))
	b.gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, glWrap(desc.AddressModeU))
	b.gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, glWrap(desc.AddressModeV))
	b.gl.SamplerParameteri(id, gl.TEXTURE_WRAP_R, glWrap(desc.AddressModeW))
	if desc.LodMaxClamp > desc.LodMinClamp {
		b.gl.SamplerParameterf(id, gl.TEXTURE_MIN_LOD, desc.LodMinClamp)
		b.gl.SamplerParameterf(id, gl.TEXTURE_MAX_LOD, desc.LodMaxClamp)
	}
	if desc.Compare != gputypes.CompareFunctionUndefined {
		b.gl.SamplerParameteri(id, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		b.gl.SamplerParameteri(id, gl.TEXTURE_COMPARE_FUNC, int32(glCompareFunc(desc.Compare)))
	}
	if desc.MaxAnisotropy > 1 && b.exts.has("GL_EXT_texture_filter_anisotropic", "GL_ARB_texture_filter_anisotropic") {
		b.gl.SamplerParameterf(id, gl.TEXTURE_MAX_ANISOTROPY, float32(desc.MaxAnisotropy))
	}
	h := b.samplers.insert(samplerObj{id: id, desc: desc})
	logCreated("sampler", h, "label", desc.Label)
	return SamplerHandle{h}
}

// ReleaseSampler deletes a sampler object.
func (b *Backend) ReleaseSampler(h SamplerHandle) {
	s, ok := b.samplers.remove(h.handle)
	if !ok {
		b.stale("ReleaseSampler", h.handle)
		return
	}
	b.gl.DeleteSamplers(s.id)
}

// SamplerDescriptor returns the description a sampler was created from.
func (b *Backend) SamplerDescriptor(h SamplerHandle) (gputypes.SamplerDescriptor, bool) {
	s, ok := b.samplers.get(h.handle)
	if !ok {
		return gputypes.SamplerDescriptor{}, false
	}
	return s.desc, true
}

// SetSampler binds a sampler to a texture unit. The null handle unbinds,
// so the texture's own parameters apply again.
func (b *Backend) SetSampler(unit int, h SamplerHandle) {
	if !b.tierAtLeast3() {
		b.unsupported("SetSampler")
		return
	}
	if !b.assert(unit >= 0 && uint32(unit) < b.maxUnits, "texture unit out of range",
		"op", "SetSampler", "unit", unit) {
		return
	}
	id := uint32(0)
	if !h.IsNull() {
		s, ok := b.samplers.get(h.handle)
		if !ok {
			b.stale("SetSampler", h.handle)
			return
		}
		id = s.id
	}
	b.gl.BindSampler(uint32(unit), id)
}
