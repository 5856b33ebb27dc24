package backend

import (
	"runtime"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

type textureObj struct {
	id        uint32
	target    TextureTarget
	width     int
	height    int
	depth     int
	format    TextureFormat
	samples   int
	immutable bool
	swizzle   SwizzleMode
}

// CreateTexture creates an empty texture object.
func (b *Backend) CreateTexture() TextureHandle {
	id := b.gl.GenTextures(1)
	if id == 0 {
		slogger().Error("GenTextures failed")
		return TextureHandle{}
	}
	h := b.textures.insert(textureObj{id: id, target: Texture2D, depth: 1, samples: 1})
	return TextureHandle{h}
}

// ReleaseTexture deletes a texture.
func (b *Backend) ReleaseTexture(h TextureHandle) {
	t, ok := b.textures.remove(h.handle)
	if !ok {
		b.stale("ReleaseTexture", h.handle)
		return
	}
	b.gl.DeleteTextures(t.id)
}

// TextureDetails returns the storage description of a texture.
func (b *Backend) TextureDetails(h TextureHandle) (TextureDetails, bool) {
	t, ok := b.textures.get(h.handle)
	if !ok {
		return TextureDetails{}, false
	}
	return TextureDetails{
		Width:   t.width,
		Height:  t.height,
		Depth:   t.depth,
		Format:  t.format,
		Samples: t.samples,
	}, true
}

// TextureSwizzle returns the swizzle mode recorded by the last upload.
func (b *Backend) TextureSwizzle(h TextureHandle) SwizzleMode {
	t, ok := b.textures.get(h.handle)
	if !ok {
		return NoSwizzle
	}
	return t.swizzle
}

// SetTextureData2D specifies level of a 2D texture. internal is the
// storage format and wire the format of data (FormatUnknown means the
// same as internal). The returned swizzle mode is non-zero when a
// deprecated format was substituted; pass it to UpdateTextureSwizzle.
func (b *Backend) SetTextureData2D(h TextureHandle, target TextureTarget, level int, internal TextureFormat,
	width, height, border int, wire TextureFormat, data []byte) SwizzleMode {
	return b.setTextureData("SetTextureData2D", h, target, level, internal, width, height, border, wire, data)
}

// SetTextureDataCubeFace specifies one face of a cube map.
func (b *Backend) SetTextureDataCubeFace(h TextureHandle, face TextureTarget, level int, internal TextureFormat,
	width, height, border int, wire TextureFormat, data []byte) SwizzleMode {
	if !b.assert(face.isCubeFace(), "not a cube face", "op", "SetTextureDataCubeFace") {
		return NoSwizzle
	}
	return b.setTextureData("SetTextureDataCubeFace", h, face, level, internal, width, height, border, wire, data)
}

func (b *Backend) setTextureData(op string, h TextureHandle, target TextureTarget, level int,
	internal TextureFormat, width, height, border int, wire TextureFormat, data []byte) SwizzleMode {
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale(op, h.handle)
		return NoSwizzle
	}
	if t.immutable {
		b.assert(false, "respecifying immutable texture", "op", op)
		return NoSwizzle
	}
	if internal.IsCompressed() && !b.compressedSupported(op, internal) {
		return NoSwizzle
	}
	if wire == FormatUnknown {
		wire = internal
	}
	internal, swizzle := substituteDeprecated(b.ctxType, internal)
	wire, _ = substituteDeprecated(b.ctxType, wire)

	it, ok := tripleFor(b.ctxType, internal)
	if !ok {
		b.assert(false, "unknown texture format", "op", op, "format", internal.String())
		return NoSwizzle
	}
	glTarget := glTextureTarget(target)
	b.gl.BindTexture(glBindTarget(target), t.id)

	switch {
	case internal.IsCompressed():
		b.ext.CompressedTexImage2D(glTarget, int32(level), it.internal, int32(width), int32(height),
			int32(border), int32(len(data)), bytesPtr(data))
	case internal.IsDepth():
		internalFmt := it.internal
		if b.ctxType == GLES2 {
			internalFmt = it.format
		}
		b.gl.TexImage2D(glTarget, int32(level), int32(internalFmt), int32(width), int32(height),
			int32(border), it.format, it.typ, bytesPtr(data))
	default:
		format, typ := it.format, it.typ
		if wire != internal {
			// Upload converts from the wire layout.
			if wt, ok := tripleFor(b.ctxType, wire); ok {
				format, typ = wt.format, wt.typ
			}
		}
		internalFmt := it.internal
		if b.ctxType == GLES2 {
			internalFmt = format
		}
		b.gl.TexImage2D(glTarget, int32(level), int32(internalFmt), int32(width), int32(height),
			int32(border), format, typ, bytesPtr(data))
	}
	runtime.KeepAlive(data)

	if level == 0 {
		t.target = target
		if target.isCubeFace() {
			t.target = TextureCube
		}
		t.width, t.height, t.depth = width, height, 1
		t.format = internal
		t.samples = 1
		t.swizzle = swizzle
	}
	return swizzle
}

func (b *Backend) compressedSupported(op string, f TextureFormat) bool {
	if b.ext == nil {
		b.unsupported(op)
		return false
	}
	switch f {
	case FormatRGBDXT1, FormatRGBADXT1, FormatRGBADXT3, FormatRGBADXT5:
		return b.require(CapDxtImages, op)
	}
	return true
}

// SetTextureSubData2D updates a region of a 2D texture level.
func (b *Backend) SetTextureSubData2D(h TextureHandle, target TextureTarget, level, x, y, width, height int,
	wire TextureFormat, data []byte) {
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("SetTextureSubData2D", h.handle)
		return
	}
	if wire == FormatUnknown {
		wire = t.format
	}
	wire, _ = substituteDeprecated(b.ctxType, wire)
	wt, ok := tripleFor(b.ctxType, wire)
	if !ok {
		b.assert(false, "unknown texture format", "op", "SetTextureSubData2D", "format", wire.String())
		return
	}
	if wire.IsCompressed() && !b.compressedSupported("SetCompressedTextureSubData2D", wire) {
		return
	}
	b.gl.BindTexture(glBindTarget(target), t.id)
	if wire.IsCompressed() {
		b.ext.CompressedTexSubImage2D(glTextureTarget(target), int32(level), int32(x), int32(y),
			int32(width), int32(height), wt.internal, int32(len(data)), bytesPtr(data))
	} else {
		b.gl.TexSubImage2D(glTextureTarget(target), int32(level), int32(x), int32(y),
			int32(width), int32(height), wt.format, wt.typ, bytesPtr(data))
	}
	runtime.KeepAlive(data)
}

// SetTextureData3D specifies a level of a 3D texture.
func (b *Backend) SetTextureData3D(h TextureHandle, level int, internal TextureFormat,
	width, height, depth, border int, wire TextureFormat, data []byte) SwizzleMode {
	if !b.tierAtLeast3() || b.ext == nil {
		b.unsupported("SetTextureData3D")
		return NoSwizzle
	}
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("SetTextureData3D", h.handle)
		return NoSwizzle
	}
	if wire == FormatUnknown {
		wire = internal
	}
	internal, swizzle := substituteDeprecated(b.ctxType, internal)
	wire, _ = substituteDeprecated(b.ctxType, wire)
	it, ok := tripleFor(b.ctxType, internal)
	if !ok || internal.IsCompressed() {
		b.assert(false, "unsupported 3D texture format", "op", "SetTextureData3D", "format", internal.String())
		return NoSwizzle
	}
	format, typ := it.format, it.typ
	if wire != internal {
		if wt, ok := tripleFor(b.ctxType, wire); ok {
			format, typ = wt.format, wt.typ
		}
	}
	b.gl.BindTexture(gl.TEXTURE_3D, t.id)
	b.ext.TexImage3D(gl.TEXTURE_3D, int32(level), int32(it.internal), int32(width), int32(height),
		int32(depth), int32(border), format, typ, bytesPtr(data))
	runtime.KeepAlive(data)
	if level == 0 {
		t.target = Texture3D
		t.width, t.height, t.depth = width, height, depth
		t.format = internal
		t.swizzle = swizzle
	}
	return swizzle
}

// SetTextureStorage2D allocates immutable storage for levels mip levels.
func (b *Backend) SetTextureStorage2D(h TextureHandle, target TextureTarget, levels int,
	internal TextureFormat, width, height int) bool {
	if !b.require(CapTextureStorage, "SetTextureStorage2D") {
		return false
	}
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("SetTextureStorage2D", h.handle)
		return false
	}
	internal, swizzle := substituteDeprecated(b.ctxType, internal)
	tr, ok := sizedTriple(internal)
	if !ok {
		b.assert(false, "unknown texture format", "op", "SetTextureStorage2D", "format", internal.String())
		return false
	}
	b.gl.BindTexture(glBindTarget(target), t.id)
	b.ext.TexStorage2D(glBindTarget(target), int32(max(levels, 1)), tr.internal, int32(width), int32(height))
	t.target = target
	t.width, t.height, t.depth = width, height, 1
	t.format = internal
	t.immutable = true
	t.swizzle = swizzle
	return true
}

// SetMultisampledTextureData2D allocates multisampled storage.
func (b *Backend) SetMultisampledTextureData2D(h TextureHandle, samples int, internal TextureFormat,
	width, height int, fixedLocations bool) bool {
	if !b.require(CapMsTexture, "SetMultisampledTextureData2D") {
		return false
	}
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("SetMultisampledTextureData2D", h.handle)
		return false
	}
	internal, _ = substituteDeprecated(b.ctxType, internal)
	tr, ok := sizedTriple(internal)
	if !ok || internal.IsCompressed() {
		b.assert(false, "unsupported multisample format", "op", "SetMultisampledTextureData2D",
			"format", internal.String())
		return false
	}
	b.gl.BindTexture(gl.TEXTURE_2D_MULTISAMPLE, t.id)
	b.gl.TexImage2DMultisample(gl.TEXTURE_2D_MULTISAMPLE, int32(samples), tr.internal,
		int32(width), int32(height), fixedLocations)
	t.target = Texture2DMS
	t.width, t.height, t.depth = width, height, 1
	t.format = internal
	t.samples = samples
	return true
}

// GenerateMipmaps builds the mip chain of a texture.
func (b *Backend) GenerateMipmaps(h TextureHandle) {
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("GenerateMipmaps", h.handle)
		return
	}
	target := glBindTarget(t.target)
	b.gl.BindTexture(target, t.id)
	b.gl.GenerateMipmap(target)
}

// UpdateTextureSwizzle applies the swizzle that emulates a deprecated
// format.
func (b *Backend) UpdateTextureSwizzle(h TextureHandle, mode SwizzleMode) {
	if mode == NoSwizzle {
		return
	}
	if !b.require(CapTexSwizzle, "UpdateTextureSwizzle") {
		return
	}
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("UpdateTextureSwizzle", h.handle)
		return
	}
	var sw [4]int32
	switch mode {
	case L8ToR8:
		sw = [4]int32{gl.RED, gl.RED, gl.RED, gl.ONE}
	case A8ToR8:
		sw = [4]int32{gl.ZERO, gl.ZERO, gl.ZERO, gl.RED}
	case L8A8ToRG8:
		sw = [4]int32{gl.RED, gl.RED, gl.RED, glGreen}
	}
	target := glBindTarget(t.target)
	b.gl.BindTexture(target, t.id)
	b.gl.TexParameteri(target, glTextureSwizzleR, sw[0])
	b.gl.TexParameteri(target, glTextureSwizzleG, sw[1])
	b.gl.TexParameteri(target, glTextureSwizzleB, sw[2])
	b.gl.TexParameteri(target, glTextureSwizzleA, sw[3])
}

// SetTextureSampling applies filter, wrap, LOD and comparison parameters
// to a texture.
func (b *Backend) SetTextureSampling(h TextureHandle, desc gputypes.SamplerDescriptor) {
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("SetTextureSampling", h.handle)
		return
	}
	if t.target == Texture2DMS {
		return
	}
	target := glBindTarget(t.target)
	b.gl.BindTexture(target, t.id)
	b.gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, glMinFilter(desc.MinFilter, desc.MipmapFilter))
	b.gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, glMagFilter(desc.MagFilter))
	b.gl.TexParameteri(target, gl.TEXTURE_WRAP_S, glWrap(desc.AddressModeU))
	b.gl.TexParameteri(target, gl.TEXTURE_WRAP_T, glWrap(desc.AddressModeV))
	if b.ctxType.IsLegacy() {
		return
	}
	if t.target == Texture3D || t.target == TextureCube {
		b.gl.TexParameteri(target, gl.TEXTURE_WRAP_R, glWrap(desc.AddressModeW))
	}
	if desc.LodMaxClamp > desc.LodMinClamp {
		b.gl.TexParameteri(target, gl.TEXTURE_MIN_LOD, int32(desc.LodMinClamp))
		b.gl.TexParameteri(target, gl.TEXTURE_MAX_LOD, int32(desc.LodMaxClamp))
	}
	if desc.Compare != gputypes.CompareFunctionUndefined {
		b.gl.TexParameteri(target, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		b.gl.TexParameteri(target, gl.TEXTURE_COMPARE_FUNC, int32(glCompareFunc(desc.Compare)))
	}
	if desc.MaxAnisotropy > 1 && b.exts.has("GL_EXT_texture_filter_anisotropic", "GL_ARB_texture_filter_anisotropic") {
		b.gl.TexParameteri(target, gl.TEXTURE_MAX_ANISOTROPY, int32(desc.MaxAnisotropy))
	}
}

// BindTextureUnit binds a texture to a texture unit.
func (b *Backend) BindTextureUnit(h TextureHandle, unit int) bool {
	t, ok := b.textures.get(h.handle)
	if !ok {
		b.stale("BindTextureUnit", h.handle)
		return false
	}
	if !b.assert(unit >= 0 && uint32(unit) < b.maxUnits, "texture unit out of range",
		"op", "BindTextureUnit", "unit", unit) {
		return false
	}
	b.setActiveUnit(uint32(unit))
	b.gl.BindTexture(glBindTarget(t.target), t.id)
	return true
}

// ReadPixels reads a rectangle of the current read target as tightly
// packed pixels of format into out. It reports false when out is too
// small or the format is not readable.
func (b *Backend) ReadPixels(r Rect, format TextureFormat, out []byte) bool {
	tr, ok := tripleFor(b.ctxType, format)
	if !ok || !format.IsUncompressed() {
		b.assert(false, "unreadable format", "op", "ReadPixels", "format", format.String())
		return false
	}
	need := int(r.Width) * int(r.Height) * format.BytesPerPixel()
	if need == 0 || len(out) < need {
		return false
	}
	b.gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	b.gl.ReadPixels(r.X, r.Y, r.Width, r.Height, tr.format, tr.typ, unsafe.Pointer(&out[0]))
	return true
}
