package backend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/gogpu/wgpu/hal/gles/gl"
)

// NullAttrib is a vertex input reported by NullFunctions after linking.
type NullAttrib struct {
	Name     string
	Type     uint32
	Location int32
}

// NullUniform is a uniform reported by NullFunctions after linking.
type NullUniform struct {
	Name     string
	Type     uint32
	Size     int32
	Location int32
}

// NullFunctions implements every native interface without a GPU. It
// counts calls per entry point, records their order and tracks live
// object names, which makes it the mock of choice for backend tests. The
// exported fields inject results.
type NullFunctions struct {
	// Extensions is the extension list reported by GetString and
	// GetStringi.
	Extensions []string
	// Vendor and Renderer are reported by GetString.
	Vendor, Renderer string
	// Integers overrides GetIntegerv results.
	Integers map[uint32]int32
	// Errors is the queue of codes returned by GetError.
	Errors []uint32
	// CompileFails and LinkFails make compilation or linking fail.
	CompileFails, LinkFails bool
	// InfoLog is returned as the shader and program log.
	InfoLog string
	// Attribs and Uniforms are the reflection results of every program.
	Attribs  []NullAttrib
	Uniforms []NullUniform
	// UniformBlocks and StorageBlocks name the blocks of every program.
	UniformBlocks, StorageBlocks []string
	// FramebufferStatus overrides CheckFramebufferStatus when non-zero.
	FramebufferStatus uint32
	// QueryValue is the result of every query.
	QueryValue uint64
	// PathBounds is the bounding box of every path object.
	PathBounds [4]float32

	format   SurfaceFormat
	nextID   uint32
	calls    map[string]int
	total    int
	log      []string
	last     map[string][]any
	live     map[string]int
	uniforms map[int32]any
}

var (
	_ GL              = (*NullFunctions)(nil)
	_ ExtendedGL      = (*NullFunctions)(nil)
	_ QueryGL         = (*NullFunctions)(nil)
	_ SyncGL          = (*NullFunctions)(nil)
	_ PipelineGL      = (*NullFunctions)(nil)
	_ PathRenderingGL = (*NullFunctions)(nil)
)

// NewNullFunctions creates a null native implementation reporting a
// version consistent with format.
func NewNullFunctions(format SurfaceFormat) *NullFunctions {
	return &NullFunctions{
		format:   format,
		calls:    make(map[string]int),
		last:     make(map[string][]any),
		live:     make(map[string]int),
		uniforms: make(map[int32]any),
	}
}

func (n *NullFunctions) record(name string, args ...any) {
	n.calls[name]++
	n.total++
	n.log = append(n.log, name)
	n.last[name] = args
}

func (n *NullFunctions) gen(kind string) uint32 {
	n.nextID++
	n.live[kind]++
	return n.nextID
}

func (n *NullFunctions) del(kind string, ids ...uint32) {
	for _, id := range ids {
		if id != 0 {
			n.live[kind]--
		}
	}
}

// Calls returns how often the named entry point was called.
func (n *NullFunctions) Calls(name string) int { return n.calls[name] }

// TotalCalls returns the number of native calls of any kind.
func (n *NullFunctions) TotalCalls() int { return n.total }

// CallLog returns the entry points called, in order.
func (n *NullFunctions) CallLog() []string { return append([]string(nil), n.log...) }

// LastArgs returns the arguments of the latest call to the named entry
// point.
func (n *NullFunctions) LastArgs(name string) []any { return n.last[name] }

// Live returns the number of undeleted native objects of a kind: buffer,
// texture, framebuffer, renderbuffer, sampler, vertex array, shader,
// program, query, sync, pipeline or path.
func (n *NullFunctions) Live(kind string) int { return n.live[kind] }

// UniformValue returns the latest value written to a uniform location.
func (n *NullFunctions) UniformValue(loc int32) any { return n.uniforms[loc] }

// Reset clears the call statistics. Live object counts are kept.
func (n *NullFunctions) Reset() {
	clear(n.calls)
	clear(n.last)
	n.total = 0
	n.log = n.log[:0]
}

func (n *NullFunctions) versionString() string {
	f := n.format
	switch f.API {
	case OpenGLES:
		return fmt.Sprintf("OpenGL ES %d.%d null", f.Major, f.Minor)
	case OpenGL:
		return fmt.Sprintf("%d.%d.0 null", f.Major, f.Minor)
	}
	return ""
}

func (n *NullFunctions) GetError() uint32 {
	n.record("GetError")
	if len(n.Errors) == 0 {
		return gl.NO_ERROR
	}
	code := n.Errors[0]
	n.Errors = n.Errors[1:]
	return code
}

func (n *NullFunctions) GetString(name uint32) string {
	n.record("GetString", name)
	switch name {
	case gl.VERSION:
		return n.versionString()
	case gl.VENDOR:
		if n.Vendor == "" {
			return "glrender"
		}
		return n.Vendor
	case gl.RENDERER:
		if n.Renderer == "" {
			return "null renderer"
		}
		return n.Renderer
	case gl.EXTENSIONS:
		return strings.Join(n.Extensions, " ")
	}
	return ""
}

func (n *NullFunctions) GetIntegerv(pname uint32, data *int32) {
	n.record("GetIntegerv", pname)
	if v, ok := n.Integers[pname]; ok {
		*data = v
		return
	}
	switch pname {
	case gl.MAX_TEXTURE_SIZE, gl.MAX_RENDERBUFFER_SIZE:
		*data = 4096
	case gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, gl.MAX_VERTEX_ATTRIBS:
		*data = 16
	case gl.MAX_COLOR_ATTACHMENTS, gl.MAX_DRAW_BUFFERS:
		*data = 8
	case gl.MAX_SAMPLES:
		*data = 4
	case gl.MAX_UNIFORM_BLOCK_SIZE:
		*data = 16384
	case gl.MAX_UNIFORM_BUFFER_BINDINGS:
		*data = 24
	case glNumExtensions:
		*data = int32(len(n.Extensions))
	default:
		*data = 0
	}
}

func (n *NullFunctions) Enable(capability uint32)  { n.record("Enable", capability) }
func (n *NullFunctions) Disable(capability uint32) { n.record("Disable", capability) }
func (n *NullFunctions) Clear(mask uint32)         { n.record("Clear", mask) }

func (n *NullFunctions) ClearColor(r, g, b, a float32) { n.record("ClearColor", r, g, b, a) }

func (n *NullFunctions) Viewport(x, y, width, height int32) {
	n.record("Viewport", x, y, width, height)
}

func (n *NullFunctions) Scissor(x, y, width, height int32) {
	n.record("Scissor", x, y, width, height)
}

func (n *NullFunctions) DrawArrays(mode uint32, first, count int32) {
	n.record("DrawArrays", mode, first, count)
}

func (n *NullFunctions) DrawElements(mode uint32, count int32, typ uint32, indices uintptr) {
	n.record("DrawElements", mode, count, typ, indices)
}

func (n *NullFunctions) DrawArraysInstanced(mode uint32, first, count, instanceCount int32) {
	n.record("DrawArraysInstanced", mode, first, count, instanceCount)
}

func (n *NullFunctions) DrawElementsInstanced(mode uint32, count int32, typ uint32, indices uintptr, instanceCount int32) {
	n.record("DrawElementsInstanced", mode, count, typ, indices, instanceCount)
}

func (n *NullFunctions) Flush()  { n.record("Flush") }
func (n *NullFunctions) Finish() { n.record("Finish") }

func (n *NullFunctions) CreateShader(shaderType uint32) uint32 {
	n.record("CreateShader", shaderType)
	return n.gen("shader")
}

func (n *NullFunctions) DeleteShader(shader uint32) {
	n.record("DeleteShader", shader)
	n.del("shader", shader)
}

func (n *NullFunctions) ShaderSource(shader uint32, source string) {
	n.record("ShaderSource", shader, source)
}

func (n *NullFunctions) CompileShader(shader uint32) { n.record("CompileShader", shader) }

func (n *NullFunctions) infoLogLength() int32 {
	// Drivers report the terminator even for an empty log.
	return int32(len(n.InfoLog)) + 1
}

func (n *NullFunctions) GetShaderiv(shader uint32, pname uint32, params *int32) {
	n.record("GetShaderiv", shader, pname)
	switch pname {
	case gl.COMPILE_STATUS:
		*params = boolInt(!n.CompileFails)
	case gl.INFO_LOG_LENGTH:
		*params = n.infoLogLength()
	default:
		*params = 0
	}
}

func (n *NullFunctions) GetShaderInfoLog(shader uint32) string {
	n.record("GetShaderInfoLog", shader)
	return n.InfoLog
}

func (n *NullFunctions) CreateProgram() uint32 {
	n.record("CreateProgram")
	return n.gen("program")
}

func (n *NullFunctions) DeleteProgram(program uint32) {
	n.record("DeleteProgram", program)
	n.del("program", program)
}

func (n *NullFunctions) AttachShader(program, shader uint32) {
	n.record("AttachShader", program, shader)
}

func (n *NullFunctions) LinkProgram(program uint32) { n.record("LinkProgram", program) }
func (n *NullFunctions) UseProgram(program uint32)  { n.record("UseProgram", program) }

func (n *NullFunctions) GetProgramiv(program uint32, pname uint32, params *int32) {
	n.record("GetProgramiv", program, pname)
	switch pname {
	case gl.LINK_STATUS:
		*params = boolInt(!n.LinkFails)
	case gl.INFO_LOG_LENGTH:
		*params = n.infoLogLength()
	case gl.ACTIVE_ATTRIBUTES:
		*params = int32(len(n.Attribs))
	case gl.ACTIVE_UNIFORMS:
		*params = int32(len(n.Uniforms))
	case glActiveUniformBlocks:
		*params = int32(len(n.UniformBlocks))
	default:
		*params = 0
	}
}

func (n *NullFunctions) GetProgramInfoLog(program uint32) string {
	n.record("GetProgramInfoLog", program)
	return n.InfoLog
}

func (n *NullFunctions) GetUniformLocation(program uint32, name string) int32 {
	n.record("GetUniformLocation", program, name)
	for _, u := range n.Uniforms {
		if u.Name == name {
			return u.Location
		}
	}
	return -1
}

func (n *NullFunctions) GetAttribLocation(program uint32, name string) int32 {
	n.record("GetAttribLocation", program, name)
	for _, a := range n.Attribs {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

func (n *NullFunctions) Uniform1i(location, value int32) {
	n.record("Uniform1i", location, value)
	n.uniforms[location] = []int32{value}
}

func (n *NullFunctions) GetUniformBlockIndex(program uint32, name string) uint32 {
	n.record("GetUniformBlockIndex", program, name)
	for i, b := range n.UniformBlocks {
		if b == name {
			return uint32(i)
		}
	}
	return glInvalidIndex
}

func (n *NullFunctions) UniformBlockBinding(program, blockIndex, blockBinding uint32) {
	n.record("UniformBlockBinding", program, blockIndex, blockBinding)
}

func (n *NullFunctions) GenBuffers(count int32) uint32 {
	n.record("GenBuffers", count)
	return n.gen("buffer")
}

func (n *NullFunctions) DeleteBuffers(buffers ...uint32) {
	n.record("DeleteBuffers", buffers)
	n.del("buffer", buffers...)
}

func (n *NullFunctions) BindBuffer(target, buffer uint32) { n.record("BindBuffer", target, buffer) }

func (n *NullFunctions) BufferData(target uint32, size int, data uintptr, usage uint32) {
	n.record("BufferData", target, size, data, usage)
}

func (n *NullFunctions) BufferSubData(target uint32, offset, size int, data uintptr) {
	n.record("BufferSubData", target, offset, size, data)
}

func (n *NullFunctions) BindBufferBase(target, index, buffer uint32) {
	n.record("BindBufferBase", target, index, buffer)
}

func (n *NullFunctions) GenVertexArrays(count int32) uint32 {
	n.record("GenVertexArrays", count)
	return n.gen("vertex array")
}

func (n *NullFunctions) DeleteVertexArrays(arrays ...uint32) {
	n.record("DeleteVertexArrays", arrays)
	n.del("vertex array", arrays...)
}

func (n *NullFunctions) BindVertexArray(array uint32) { n.record("BindVertexArray", array) }

func (n *NullFunctions) EnableVertexAttribArray(index uint32) {
	n.record("EnableVertexAttribArray", index)
}

func (n *NullFunctions) DisableVertexAttribArray(index uint32) {
	n.record("DisableVertexAttribArray", index)
}

func (n *NullFunctions) VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr) {
	n.record("VertexAttribPointer", index, size, typ, normalized, stride, offset)
}

func (n *NullFunctions) GenTextures(count int32) uint32 {
	n.record("GenTextures", count)
	return n.gen("texture")
}

func (n *NullFunctions) DeleteTextures(textures ...uint32) {
	n.record("DeleteTextures", textures)
	n.del("texture", textures...)
}

func (n *NullFunctions) BindTexture(target, texture uint32) { n.record("BindTexture", target, texture) }
func (n *NullFunctions) ActiveTexture(texture uint32)       { n.record("ActiveTexture", texture) }

func (n *NullFunctions) TexParameteri(target, pname uint32, param int32) {
	n.record("TexParameteri", target, pname, param)
}

func (n *NullFunctions) TexImage2D(target uint32, level int32, internalformat int32, width, height int32, border int32, format, typ uint32, pixels uintptr) {
	n.record("TexImage2D", target, level, internalformat, width, height, border, format, typ, pixels)
}

func (n *NullFunctions) TexSubImage2D(target uint32, level int32, xoffset, yoffset, width, height int32, format, typ uint32, pixels uintptr) {
	n.record("TexSubImage2D", target, level, xoffset, yoffset, width, height, format, typ, pixels)
}

func (n *NullFunctions) GenerateMipmap(target uint32) { n.record("GenerateMipmap", target) }

func (n *NullFunctions) TexImage2DMultisample(target uint32, samples int32, internalformat uint32, width, height int32, fixedsamplelocations bool) {
	n.record("TexImage2DMultisample", target, samples, internalformat, width, height, fixedsamplelocations)
}

func (n *NullFunctions) PixelStorei(pname uint32, param int32) { n.record("PixelStorei", pname, param) }

func (n *NullFunctions) ReadPixels(x, y, width, height int32, format, dataType uint32, pixels unsafe.Pointer) {
	n.record("ReadPixels", x, y, width, height, format, dataType)
}

func (n *NullFunctions) GenSamplers(count int32) uint32 {
	n.record("GenSamplers", count)
	return n.gen("sampler")
}

func (n *NullFunctions) DeleteSamplers(samplers ...uint32) {
	n.record("DeleteSamplers", samplers)
	n.del("sampler", samplers...)
}

func (n *NullFunctions) BindSampler(unit, sampler uint32) { n.record("BindSampler", unit, sampler) }

func (n *NullFunctions) SamplerParameteri(sampler, pname uint32, param int32) {
	n.record("SamplerParameteri", sampler, pname, param)
}

func (n *NullFunctions) SamplerParameterf(sampler, pname uint32, param float32) {
	n.record("SamplerParameterf", sampler, pname, param)
}

func (n *NullFunctions) GenFramebuffers(count int32) uint32 {
	n.record("GenFramebuffers", count)
	return n.gen("framebuffer")
}

func (n *NullFunctions) DeleteFramebuffers(framebuffers ...uint32) {
	n.record("DeleteFramebuffers", framebuffers)
	n.del("framebuffer", framebuffers...)
}

func (n *NullFunctions) BindFramebuffer(target, framebuffer uint32) {
	n.record("BindFramebuffer", target, framebuffer)
}

func (n *NullFunctions) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	n.record("FramebufferTexture2D", target, attachment, textarget, texture, level)
}

func (n *NullFunctions) CheckFramebufferStatus(target uint32) uint32 {
	n.record("CheckFramebufferStatus", target)
	if n.FramebufferStatus != 0 {
		return n.FramebufferStatus
	}
	return gl.FRAMEBUFFER_COMPLETE
}

func (n *NullFunctions) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) {
	n.record("BlitFramebuffer", srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

func (n *NullFunctions) GenRenderbuffers(count int32) uint32 {
	n.record("GenRenderbuffers", count)
	return n.gen("renderbuffer")
}

func (n *NullFunctions) DeleteRenderbuffers(renderbuffers ...uint32) {
	n.record("DeleteRenderbuffers", renderbuffers)
	n.del("renderbuffer", renderbuffers...)
}

func (n *NullFunctions) BindRenderbuffer(target, renderbuffer uint32) {
	n.record("BindRenderbuffer", target, renderbuffer)
}

func (n *NullFunctions) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	n.record("RenderbufferStorage", target, internalFormat, width, height)
}

func (n *NullFunctions) FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32) {
	n.record("FramebufferRenderbuffer", target, attachment, renderbufferTarget, renderbuffer)
}

func (n *NullFunctions) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	n.record("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (n *NullFunctions) BlendEquation(mode uint32) { n.record("BlendEquation", mode) }

func (n *NullFunctions) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	n.record("BlendEquationSeparate", modeRGB, modeAlpha)
}

func (n *NullFunctions) BlendColor(r, g, b, a float32) { n.record("BlendColor", r, g, b, a) }
func (n *NullFunctions) DepthFunc(fn uint32)           { n.record("DepthFunc", fn) }
func (n *NullFunctions) DepthMask(flag bool)           { n.record("DepthMask", flag) }

func (n *NullFunctions) StencilFuncSeparate(face, fn uint32, ref int32, mask uint32) {
	n.record("StencilFuncSeparate", face, fn, ref, mask)
}

func (n *NullFunctions) StencilOpSeparate(face, sfail, dpfail, dppass uint32) {
	n.record("StencilOpSeparate", face, sfail, dpfail, dppass)
}

func (n *NullFunctions) StencilMaskSeparate(face, mask uint32) {
	n.record("StencilMaskSeparate", face, mask)
}

func (n *NullFunctions) ColorMask(r, g, b, a bool) { n.record("ColorMask", r, g, b, a) }
func (n *NullFunctions) CullFace(mode uint32)      { n.record("CullFace", mode) }
func (n *NullFunctions) FrontFace(mode uint32)     { n.record("FrontFace", mode) }

func (n *NullFunctions) DispatchCompute(numGroupsX, numGroupsY, numGroupsZ uint32) {
	n.record("DispatchCompute", numGroupsX, numGroupsY, numGroupsZ)
}

func (n *NullFunctions) MemoryBarrier(barriers uint32) { n.record("MemoryBarrier", barriers) }

// ExtendedGL.

func (n *NullFunctions) GetStringi(name, index uint32) string {
	n.record("GetStringi", name, index)
	if name == gl.EXTENSIONS && int(index) < len(n.Extensions) {
		return n.Extensions[index]
	}
	return ""
}

func (n *NullFunctions) setUniform(name string, location int32, v any) {
	n.record(name, location, v)
	n.uniforms[location] = v
}

func (n *NullFunctions) Uniform1fv(location int32, v []float32) {
	n.setUniform("Uniform1fv", location, append([]float32(nil), v...))
}

func (n *NullFunctions) Uniform2fv(location int32, v []float32) {
	n.setUniform("Uniform2fv", location, append([]float32(nil), v...))
}

func (n *NullFunctions) Uniform3fv(location int32, v []float32) {
	n.setUniform("Uniform3fv", location, append([]float32(nil), v...))
}

func (n *NullFunctions) Uniform4fv(location int32, v []float32) {
	n.setUniform("Uniform4fv", location, append([]float32(nil), v...))
}

func (n *NullFunctions) Uniform1iv(location int32, v []int32) {
	n.setUniform("Uniform1iv", location, append([]int32(nil), v...))
}

func (n *NullFunctions) Uniform2iv(location int32, v []int32) {
	n.setUniform("Uniform2iv", location, append([]int32(nil), v...))
}

func (n *NullFunctions) Uniform3iv(location int32, v []int32) {
	n.setUniform("Uniform3iv", location, append([]int32(nil), v...))
}

func (n *NullFunctions) Uniform4iv(location int32, v []int32) {
	n.setUniform("Uniform4iv", location, append([]int32(nil), v...))
}

func (n *NullFunctions) Uniform1uiv(location int32, v []uint32) {
	n.setUniform("Uniform1uiv", location, append([]uint32(nil), v...))
}

func (n *NullFunctions) Uniform2uiv(location int32, v []uint32) {
	n.setUniform("Uniform2uiv", location, append([]uint32(nil), v...))
}

func (n *NullFunctions) Uniform3uiv(location int32, v []uint32) {
	n.setUniform("Uniform3uiv", location, append([]uint32(nil), v...))
}

func (n *NullFunctions) Uniform4uiv(location int32, v []uint32) {
	n.setUniform("Uniform4uiv", location, append([]uint32(nil), v...))
}

func (n *NullFunctions) UniformMatrix2fv(location int32, transpose bool, v []float32) {
	n.setUniform("UniformMatrix2fv", location, append([]float32(nil), v...))
}

func (n *NullFunctions) UniformMatrix3fv(location int32, transpose bool, v []float32) {
	n.setUniform("UniformMatrix3fv", location, append([]float32(nil), v...))
}

func (n *NullFunctions) UniformMatrix4fv(location int32, transpose bool, v []float32) {
	n.setUniform("UniformMatrix4fv", location, append([]float32(nil), v...))
}

func (n *NullFunctions) GetActiveAttrib(program, index uint32) (string, int32, uint32) {
	n.record("GetActiveAttrib", program, index)
	if int(index) >= len(n.Attribs) {
		return "", 0, 0
	}
	a := n.Attribs[index]
	return a.Name, 1, a.Type
}

func (n *NullFunctions) GetActiveUniform(program, index uint32) (string, int32, uint32) {
	n.record("GetActiveUniform", program, index)
	if int(index) >= len(n.Uniforms) {
		return "", 0, 0
	}
	u := n.Uniforms[index]
	if u.Size > 1 {
		return u.Name + "[0]", u.Size, u.Type
	}
	return u.Name, 1, u.Type
}

func (n *NullFunctions) GetActiveUniformBlockName(program, index uint32) string {
	n.record("GetActiveUniformBlockName", program, index)
	if int(index) < len(n.UniformBlocks) {
		return n.UniformBlocks[index]
	}
	return ""
}

func (n *NullFunctions) GetActiveUniformBlockiv(program, index, pname uint32, params *int32) {
	n.record("GetActiveUniformBlockiv", program, index, pname)
	switch pname {
	case glUniformBlockDataSize:
		*params = 256
	case glUniformBlockBinding:
		*params = int32(index)
	case glUniformBlockActiveUniforms:
		*params = 1
	default:
		*params = 0
	}
}

func (n *NullFunctions) GetProgramInterfaceiv(program, iface, pname uint32, params *int32) {
	n.record("GetProgramInterfaceiv", program, iface, pname)
	*params = 0
	if iface == glShaderStorageBlock && pname == glActiveResources {
		*params = int32(len(n.StorageBlocks))
	}
}

func (n *NullFunctions) GetProgramResourceIndex(program, iface uint32, name string) uint32 {
	n.record("GetProgramResourceIndex", program, iface, name)
	for i, b := range n.StorageBlocks {
		if b == name {
			return uint32(i)
		}
	}
	return glInvalidIndex
}

func (n *NullFunctions) ShaderStorageBlockBinding(program, index, binding uint32) {
	n.record("ShaderStorageBlockBinding", program, index, binding)
}

func (n *NullFunctions) ShaderBinary(shader, binaryFormat uint32, data []byte) {
	n.record("ShaderBinary", shader, binaryFormat, len(data))
}

func (n *NullFunctions) ClearDepthf(d float32)               { n.record("ClearDepthf", d) }
func (n *NullFunctions) ClearStencil(s int32)                { n.record("ClearStencil", s) }
func (n *NullFunctions) PolygonOffset(factor, units float32) { n.record("PolygonOffset", factor, units) }

func (n *NullFunctions) CompressedTexImage2D(target uint32, level int32, internalformat uint32, width, height, border, imageSize int32, data uintptr) {
	n.record("CompressedTexImage2D", target, level, internalformat, width, height, border, imageSize, data)
}

func (n *NullFunctions) CompressedTexSubImage2D(target uint32, level, xoffset, yoffset, width, height int32, format uint32, imageSize int32, data uintptr) {
	n.record("CompressedTexSubImage2D", target, level, xoffset, yoffset, width, height, format, imageSize, data)
}

func (n *NullFunctions) TexImage3D(target uint32, level, internalformat, width, height, depth, border int32, format, typ uint32, pixels uintptr) {
	n.record("TexImage3D", target, level, internalformat, width, height, depth, border, format, typ, pixels)
}

func (n *NullFunctions) TexStorage2D(target uint32, levels int32, internalformat uint32, width, height int32) {
	n.record("TexStorage2D", target, levels, internalformat, width, height)
}

func (n *NullFunctions) PatchParameteri(pname uint32, value int32) {
	n.record("PatchParameteri", pname, value)
}

func (n *NullFunctions) BindImageTexture(unit, texture uint32, level int32, layered bool, layer int32, access, format uint32) {
	n.record("BindImageTexture", unit, texture, level, layered, layer, access, format)
}

func (n *NullFunctions) BlendBarrier() { n.record("BlendBarrier") }

// QueryGL.

func (n *NullFunctions) GenQueries(count int32) uint32 {
	n.record("GenQueries", count)
	return n.gen("query")
}

func (n *NullFunctions) DeleteQueries(ids ...uint32) {
	n.record("DeleteQueries", ids)
	n.del("query", ids...)
}

func (n *NullFunctions) BeginQuery(target, id uint32) { n.record("BeginQuery", target, id) }
func (n *NullFunctions) EndQuery(target uint32)       { n.record("EndQuery", target) }
func (n *NullFunctions) QueryCounter(id, target uint32) {
	n.record("QueryCounter", id, target)
}

func (n *NullFunctions) GetQueryObjectuiv(id, pname uint32, params *uint32) {
	n.record("GetQueryObjectuiv", id, pname)
	if pname == glQueryResultAvailable {
		*params = 1
		return
	}
	*params = uint32(n.QueryValue)
}

func (n *NullFunctions) GetQueryObjectui64v(id, pname uint32, params *uint64) {
	n.record("GetQueryObjectui64v", id, pname)
	if pname == glQueryResultAvailable {
		*params = 1
		return
	}
	*params = n.QueryValue
}

// SyncGL.

func (n *NullFunctions) FenceSync(condition, flags uint32) uintptr {
	n.record("FenceSync", condition, flags)
	return uintptr(n.gen("sync"))
}

func (n *NullFunctions) DeleteSync(sync uintptr) {
	n.record("DeleteSync", sync)
	n.del("sync", uint32(sync))
}

func (n *NullFunctions) ClientWaitSync(sync uintptr, flags uint32, timeout uint64) uint32 {
	n.record("ClientWaitSync", sync, flags, timeout)
	return gl.ALREADY_SIGNALED
}

func (n *NullFunctions) WaitSync(sync uintptr, flags uint32, timeout uint64) {
	n.record("WaitSync", sync, flags, timeout)
}

// PipelineGL.

func (n *NullFunctions) GenProgramPipelines(count int32) uint32 {
	n.record("GenProgramPipelines", count)
	return n.gen("pipeline")
}

func (n *NullFunctions) DeleteProgramPipelines(pipelines ...uint32) {
	n.record("DeleteProgramPipelines", pipelines)
	n.del("pipeline", pipelines...)
}

func (n *NullFunctions) BindProgramPipeline(pipeline uint32) {
	n.record("BindProgramPipeline", pipeline)
}

func (n *NullFunctions) UseProgramStages(pipeline, stages, program uint32) {
	n.record("UseProgramStages", pipeline, stages, program)
}

func (n *NullFunctions) ProgramParameteri(program, pname uint32, value int32) {
	n.record("ProgramParameteri", program, pname, value)
}

// PathRenderingGL.

func (n *NullFunctions) GenPaths(rng int32) uint32 {
	n.record("GenPaths", rng)
	return n.gen("path")
}

func (n *NullFunctions) DeletePaths(path uint32, rng int32) {
	n.record("DeletePaths", path, rng)
	n.del("path", path)
}

func (n *NullFunctions) PathCommands(path uint32, commands []uint8, coords []float32) {
	n.record("PathCommands", path, len(commands), len(coords))
}

func (n *NullFunctions) PathParameterf(path, pname uint32, value float32) {
	n.record("PathParameterf", path, pname, value)
}

func (n *NullFunctions) PathParameteri(path, pname uint32, value int32) {
	n.record("PathParameteri", path, pname, value)
}

func (n *NullFunctions) PathStencilDepthOffset(factor, units float32) {
	n.record("PathStencilDepthOffset", factor, units)
}

func (n *NullFunctions) PathCoverDepthFunc(fn uint32) { n.record("PathCoverDepthFunc", fn) }

func (n *NullFunctions) StencilFillPath(path, fillMode, mask uint32) {
	n.record("StencilFillPath", path, fillMode, mask)
}

func (n *NullFunctions) StencilStrokePath(path uint32, reference int32, mask uint32) {
	n.record("StencilStrokePath", path, reference, mask)
}

func (n *NullFunctions) GetPathParameterfv(path, pname uint32, value []float32) {
	n.record("GetPathParameterfv", path, pname)
	if pname == glPathObjectBoundingBoxNV {
		copy(value, n.PathBounds[:])
	}
}
