package backend

import "unsafe"

// GL is the core native function set. On Linux its method set matches
// github.com/gogpu/wgpu/hal/gles/gl.Context so a loaded context can be
// used directly.
type GL interface {
	GetError() uint32
	GetString(name uint32) string
	GetIntegerv(pname uint32, data *int32)
	Enable(capability uint32)
	Disable(capability uint32)
	Clear(mask uint32)
	ClearColor(r, g, b, a float32)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, typ uint32, indices uintptr)
	DrawArraysInstanced(mode uint32, first, count, instanceCount int32)
	DrawElementsInstanced(mode uint32, count int32, typ uint32, indices uintptr, instanceCount int32)
	Flush()
	Finish()

	CreateShader(shaderType uint32) uint32
	DeleteShader(shader uint32)
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	CreateProgram() uint32
	DeleteProgram(program uint32)
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	UseProgram(program uint32)
	GetProgramiv(program uint32, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32
	Uniform1i(location, value int32)
	GetUniformBlockIndex(program uint32, name string) uint32
	UniformBlockBinding(program, blockIndex, blockBinding uint32)

	GenBuffers(n int32) uint32
	DeleteBuffers(buffers ...uint32)
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, size int, data uintptr, usage uint32)
	BufferSubData(target uint32, offset, size int, data uintptr)
	BindBufferBase(target, index, buffer uint32)

	GenVertexArrays(n int32) uint32
	DeleteVertexArrays(arrays ...uint32)
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr)

	GenTextures(n int32) uint32
	DeleteTextures(textures ...uint32)
	BindTexture(target, texture uint32)
	ActiveTexture(texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level int32, internalformat int32, width, height int32, border int32, format, typ uint32, pixels uintptr)
	TexSubImage2D(target uint32, level int32, xoffset, yoffset, width, height int32, format, typ uint32, pixels uintptr)
	GenerateMipmap(target uint32)
	TexImage2DMultisample(target uint32, samples int32, internalformat uint32, width, height int32, fixedsamplelocations bool)
	PixelStorei(pname uint32, param int32)
	ReadPixels(x, y, width, height int32, format, dataType uint32, pixels unsafe.Pointer)

	GenSamplers(n int32) uint32
	DeleteSamplers(samplers ...uint32)
	BindSampler(unit, sampler uint32)
	SamplerParameteri(sampler, pname uint32, param int32)
	SamplerParameterf(sampler, pname uint32, param float32)

	GenFramebuffers(n int32) uint32
	DeleteFramebuffers(framebuffers ...uint32)
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	CheckFramebufferStatus(target uint32) uint32
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32)
	GenRenderbuffers(n int32) uint32
	DeleteRenderbuffers(renderbuffers ...uint32)
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)
	FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32)

	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32)
	BlendEquation(mode uint32)
	BlendEquationSeparate(modeRGB, modeAlpha uint32)
	BlendColor(r, g, b, a float32)
	DepthFunc(fn uint32)
	DepthMask(flag bool)
	StencilFuncSeparate(face, fn uint32, ref int32, mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass uint32)
	StencilMaskSeparate(face, mask uint32)
	ColorMask(r, g, b, a bool)
	CullFace(mode uint32)
	FrontFace(mode uint32)

	DispatchCompute(numGroupsX, numGroupsY, numGroupsZ uint32)
	MemoryBarrier(barriers uint32)
}

// ExtendedGL adds the entry points the core set lacks: typed uniform
// setters, program reflection, depth/stencil clears, compressed, 3D and
// immutable uploads, shader binaries, tessellation and image load/store.
type ExtendedGL interface {
	GetStringi(name, index uint32) string

	Uniform1fv(location int32, v []float32)
	Uniform2fv(location int32, v []float32)
	Uniform3fv(location int32, v []float32)
	Uniform4fv(location int32, v []float32)
	Uniform1iv(location int32, v []int32)
	Uniform2iv(location int32, v []int32)
	Uniform3iv(location int32, v []int32)
	Uniform4iv(location int32, v []int32)
	Uniform1uiv(location int32, v []uint32)
	Uniform2uiv(location int32, v []uint32)
	Uniform3uiv(location int32, v []uint32)
	Uniform4uiv(location int32, v []uint32)
	UniformMatrix2fv(location int32, transpose bool, v []float32)
	UniformMatrix3fv(location int32, transpose bool, v []float32)
	UniformMatrix4fv(location int32, transpose bool, v []float32)

	GetActiveAttrib(program, index uint32) (name string, size int32, typ uint32)
	GetActiveUniform(program, index uint32) (name string, size int32, typ uint32)
	GetActiveUniformBlockName(program, index uint32) string
	GetActiveUniformBlockiv(program, index, pname uint32, params *int32)
	GetProgramInterfaceiv(program, iface, pname uint32, params *int32)
	GetProgramResourceIndex(program, iface uint32, name string) uint32
	ShaderStorageBlockBinding(program, index, binding uint32)
	ShaderBinary(shader, binaryFormat uint32, data []byte)

	ClearDepthf(d float32)
	ClearStencil(s int32)
	PolygonOffset(factor, units float32)

	CompressedTexImage2D(target uint32, level int32, internalformat uint32, width, height, border, imageSize int32, data uintptr)
	CompressedTexSubImage2D(target uint32, level, xoffset, yoffset, width, height int32, format uint32, imageSize int32, data uintptr)
	TexImage3D(target uint32, level, internalformat, width, height, depth, border int32, format, typ uint32, pixels uintptr)
	TexStorage2D(target uint32, levels int32, internalformat uint32, width, height int32)

	PatchParameteri(pname uint32, value int32)
	BindImageTexture(unit, texture uint32, level int32, layered bool, layer int32, access, format uint32)
	BlendBarrier()
}

// QueryGL provides occlusion and timer queries.
type QueryGL interface {
	GenQueries(n int32) uint32
	DeleteQueries(ids ...uint32)
	BeginQuery(target, id uint32)
	EndQuery(target uint32)
	QueryCounter(id, target uint32)
	GetQueryObjectuiv(id, pname uint32, params *uint32)
	GetQueryObjectui64v(id, pname uint32, params *uint64)
}

// SyncGL provides fence sync objects.
type SyncGL interface {
	FenceSync(condition, flags uint32) uintptr
	DeleteSync(sync uintptr)
	ClientWaitSync(sync uintptr, flags uint32, timeout uint64) uint32
	WaitSync(sync uintptr, flags uint32, timeout uint64)
}

// PipelineGL provides separable program pipelines.
type PipelineGL interface {
	GenProgramPipelines(n int32) uint32
	DeleteProgramPipelines(pipelines ...uint32)
	BindProgramPipeline(pipeline uint32)
	UseProgramStages(pipeline, stages, program uint32)
	ProgramParameteri(program, pname uint32, value int32)
}

// PathRenderingGL provides NV_path_rendering.
type PathRenderingGL interface {
	GenPaths(rng int32) uint32
	DeletePaths(path uint32, rng int32)
	PathCommands(path uint32, commands []uint8, coords []float32)
	PathParameterf(path, pname uint32, value float32)
	PathParameteri(path, pname uint32, value int32)
	PathStencilDepthOffset(factor, units float32)
	PathCoverDepthFunc(fn uint32)
	StencilFillPath(path, fillMode, mask uint32)
	StencilStrokePath(path uint32, reference int32, mask uint32)
	GetPathParameterfv(path, pname uint32, value []float32)
}

// bytesPtr returns the address of the first element of b, or 0 for an
// empty slice. The caller keeps b alive across the native call.
func bytesPtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
