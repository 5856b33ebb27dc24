//go:build linux && !(js && wasm)

package wgpu

import (
	"unsafe"

	"github.com/gogpu/wgpu/hal/gles/egl"
	"github.com/gogpu/wgpu/hal/gles/gl"

	"github.com/gogpu/glrender/backend"
)

// Functions is the native function set of an EGL context. The core set
// comes from gl.Context; the extended, query and sync sets are resolved
// here.
type Functions struct {
	*gl.Context
	egl *egl.Context
	p   procs
}

var (
	_ backend.GL         = (*Functions)(nil)
	_ backend.ExtendedGL = (*Functions)(nil)
	_ backend.QueryGL    = (*Functions)(nil)
	_ backend.SyncGL     = (*Functions)(nil)
	_ backend.GL         = (*coreFunctions)(nil)
)

// coreFunctions hides everything but the core set, for contexts missing
// the uniform array setters.
type coreFunctions struct {
	*gl.Context
	egl *egl.Context
}

func ptrArg(p *unsafe.Pointer) unsafe.Pointer { return unsafe.Pointer(p) }

func (f *Functions) GetStringi(name, index uint32) string {
	var ptr uintptr
	f.p.call(procGetStringi, unsafe.Pointer(&ptr), unsafe.Pointer(&name), unsafe.Pointer(&index))
	return goString(ptr)
}

func (f *Functions) uniformv(id procID, location int32, n int, data unsafe.Pointer) {
	if n == 0 {
		return
	}
	count := int32(n)
	f.p.call(id, nil, unsafe.Pointer(&location), unsafe.Pointer(&count), ptrArg(&data))
}

func (f *Functions) Uniform1fv(location int32, v []float32) {
	if len(v) > 0 {
		f.uniformv(procUniform1fv, location, len(v), unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform2fv(location int32, v []float32) {
	if len(v) > 0 {
		f.uniformv(procUniform2fv, location, len(v)/2, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform3fv(location int32, v []float32) {
	if len(v) > 0 {
		f.uniformv(procUniform3fv, location, len(v)/3, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform4fv(location int32, v []float32) {
	if len(v) > 0 {
		f.uniformv(procUniform4fv, location, len(v)/4, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform1iv(location int32, v []int32) {
	if len(v) > 0 {
		f.uniformv(procUniform1iv, location, len(v), unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform2iv(location int32, v []int32) {
	if len(v) > 0 {
		f.uniformv(procUniform2iv, location, len(v)/2, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform3iv(location int32, v []int32) {
	if len(v) > 0 {
		f.uniformv(procUniform3iv, location, len(v)/3, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform4iv(location int32, v []int32) {
	if len(v) > 0 {
		f.uniformv(procUniform4iv, location, len(v)/4, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform1uiv(location int32, v []uint32) {
	if len(v) > 0 {
		f.uniformv(procUniform1uiv, location, len(v), unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform2uiv(location int32, v []uint32) {
	if len(v) > 0 {
		f.uniformv(procUniform2uiv, location, len(v)/2, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform3uiv(location int32, v []uint32) {
	if len(v) > 0 {
		f.uniformv(procUniform3uiv, location, len(v)/3, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) Uniform4uiv(location int32, v []uint32) {
	if len(v) > 0 {
		f.uniformv(procUniform4uiv, location, len(v)/4, unsafe.Pointer(&v[0]))
	}
}

func (f *Functions) uniformMatrix(id procID, location int32, n int, transpose bool, v []float32) {
	if len(v) < n {
		return
	}
	count := int32(len(v) / n)
	t := boolByte(transpose)
	data := unsafe.Pointer(&v[0])
	f.p.call(id, nil, unsafe.Pointer(&location), unsafe.Pointer(&count), unsafe.Pointer(&t), ptrArg(&data))
}

func (f *Functions) UniformMatrix2fv(location int32, transpose bool, v []float32) {
	f.uniformMatrix(procUniformMatrix2fv, location, 4, transpose, v)
}

func (f *Functions) UniformMatrix3fv(location int32, transpose bool, v []float32) {
	f.uniformMatrix(procUniformMatrix3fv, location, 9, transpose, v)
}

func (f *Functions) UniformMatrix4fv(location int32, transpose bool, v []float32) {
	f.uniformMatrix(procUniformMatrix4fv, location, 16, transpose, v)
}

const nameBufSize = 256

func (f *Functions) activeVar(id procID, program, index uint32) (string, int32, uint32) {
	var (
		buf    [nameBufSize]byte
		length int32
		size   int32
		typ    uint32
	)
	bufSize := int32(len(buf))
	lp, sp, tp, np := unsafe.Pointer(&length), unsafe.Pointer(&size), unsafe.Pointer(&typ), unsafe.Pointer(&buf[0])
	f.p.call(id, nil,
		unsafe.Pointer(&program), unsafe.Pointer(&index), unsafe.Pointer(&bufSize),
		ptrArg(&lp), ptrArg(&sp), ptrArg(&tp), ptrArg(&np))
	return string(buf[:max(0, min(int(length), len(buf)))]), size, typ
}

func (f *Functions) GetActiveAttrib(program, index uint32) (string, int32, uint32) {
	return f.activeVar(procGetActiveAttrib, program, index)
}

func (f *Functions) GetActiveUniform(program, index uint32) (string, int32, uint32) {
	return f.activeVar(procGetActiveUniform, program, index)
}

func (f *Functions) GetActiveUniformBlockName(program, index uint32) string {
	var (
		buf    [nameBufSize]byte
		length int32
	)
	bufSize := int32(len(buf))
	lp, np := unsafe.Pointer(&length), unsafe.Pointer(&buf[0])
	f.p.call(procGetActiveUniformBlockName, nil,
		unsafe.Pointer(&program), unsafe.Pointer(&index), unsafe.Pointer(&bufSize), ptrArg(&lp), ptrArg(&np))
	return string(buf[:max(0, min(int(length), len(buf)))])
}

func (f *Functions) GetActiveUniformBlockiv(program, index, pname uint32, params *int32) {
	pp := unsafe.Pointer(params)
	f.p.call(procGetActiveUniformBlockiv, nil, unsafe.Pointer(&program), unsafe.Pointer(&index), unsafe.Pointer(&pname), ptrArg(&pp))
}

func (f *Functions) GetProgramInterfaceiv(program, iface, pname uint32, params *int32) {
	pp := unsafe.Pointer(params)
	f.p.call(procGetProgramInterfaceiv, nil, unsafe.Pointer(&program), unsafe.Pointer(&iface), unsafe.Pointer(&pname), ptrArg(&pp))
}

func (f *Functions) GetProgramResourceIndex(program, iface uint32, name string) uint32 {
	// GL_INVALID_INDEX
	result := ^uint32(0)
	np := unsafe.Pointer(cString(name))
	f.p.call(procGetProgramResourceIndex, unsafe.Pointer(&result), unsafe.Pointer(&program), unsafe.Pointer(&iface), ptrArg(&np))
	return result
}

func (f *Functions) ShaderStorageBlockBinding(program, index, binding uint32) {
	f.p.call(procShaderStorageBlockBinding, nil, unsafe.Pointer(&program), unsafe.Pointer(&index), unsafe.Pointer(&binding))
}

func (f *Functions) ShaderBinary(shader, binaryFormat uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	count, length := int32(1), int32(len(data))
	sp, dp := unsafe.Pointer(&shader), unsafe.Pointer(&data[0])
	f.p.call(procShaderBinary, nil,
		unsafe.Pointer(&count), ptrArg(&sp), unsafe.Pointer(&binaryFormat), ptrArg(&dp), unsafe.Pointer(&length))
}

func (f *Functions) ClearDepthf(d float32) {
	f.p.call(procClearDepthf, nil, unsafe.Pointer(&d))
}

func (f *Functions) ClearStencil(s int32) {
	f.p.call(procClearStencil, nil, unsafe.Pointer(&s))
}

func (f *Functions) PolygonOffset(factor, units float32) {
	f.p.call(procPolygonOffset, nil, unsafe.Pointer(&factor), unsafe.Pointer(&units))
}

func (f *Functions) CompressedTexImage2D(target uint32, level int32, internalformat uint32, width, height, border, imageSize int32, data uintptr) {
	f.p.call(procCompressedTexImage2D, nil,
		unsafe.Pointer(&target), unsafe.Pointer(&level), unsafe.Pointer(&internalformat),
		unsafe.Pointer(&width), unsafe.Pointer(&height), unsafe.Pointer(&border),
		unsafe.Pointer(&imageSize), unsafe.Pointer(&data))
}

func (f *Functions) CompressedTexSubImage2D(target uint32, level, xoffset, yoffset, width, height int32, format uint32, imageSize int32, data uintptr) {
	f.p.call(procCompressedTexSubImage2D, nil,
		unsafe.Pointer(&target), unsafe.Pointer(&level), unsafe.Pointer(&xoffset), unsafe.Pointer(&yoffset),
		unsafe.Pointer(&width), unsafe.Pointer(&height), unsafe.Pointer(&format),
		unsafe.Pointer(&imageSize), unsafe.Pointer(&data))
}

func (f *Functions) TexImage3D(target uint32, level, internalformat, width, height, depth, border int32, format, typ uint32, pixels uintptr) {
	f.p.call(procTexImage3D, nil,
		unsafe.Pointer(&target), unsafe.Pointer(&level), unsafe.Pointer(&internalformat),
		unsafe.Pointer(&width), unsafe.Pointer(&height), unsafe.Pointer(&depth), unsafe.Pointer(&border),
		unsafe.Pointer(&format), unsafe.Pointer(&typ), unsafe.Pointer(&pixels))
}

func (f *Functions) TexStorage2D(target uint32, levels int32, internalformat uint32, width, height int32) {
	f.p.call(procTexStorage2D, nil,
		unsafe.Pointer(&target), unsafe.Pointer(&levels), unsafe.Pointer(&internalformat),
		unsafe.Pointer(&width), unsafe.Pointer(&height))
}

func (f *Functions) PatchParameteri(pname uint32, value int32) {
	f.p.call(procPatchParameteri, nil, unsafe.Pointer(&pname), unsafe.Pointer(&value))
}

func (f *Functions) BindImageTexture(unit, texture uint32, level int32, layered bool, layer int32, access, format uint32) {
	l := boolByte(layered)
	f.p.call(procBindImageTexture, nil,
		unsafe.Pointer(&unit), unsafe.Pointer(&texture), unsafe.Pointer(&level), unsafe.Pointer(&l),
		unsafe.Pointer(&layer), unsafe.Pointer(&access), unsafe.Pointer(&format))
}

func (f *Functions) BlendBarrier() {
	f.p.call(procBlendBarrier, nil)
}

// --- Queries ---

func (f *Functions) GenQueries(n int32) uint32 {
	var id uint32
	ip := unsafe.Pointer(&id)
	f.p.call(procGenQueries, nil, unsafe.Pointer(&n), ptrArg(&ip))
	return id
}

func (f *Functions) DeleteQueries(ids ...uint32) {
	if len(ids) == 0 {
		return
	}
	n := int32(len(ids))
	ip := unsafe.Pointer(&ids[0])
	f.p.call(procDeleteQueries, nil, unsafe.Pointer(&n), ptrArg(&ip))
}

func (f *Functions) BeginQuery(target, id uint32) {
	f.p.call(procBeginQuery, nil, unsafe.Pointer(&target), unsafe.Pointer(&id))
}

func (f *Functions) EndQuery(target uint32) {
	f.p.call(procEndQuery, nil, unsafe.Pointer(&target))
}

func (f *Functions) QueryCounter(id, target uint32) {
	f.p.call(procQueryCounter, nil, unsafe.Pointer(&id), unsafe.Pointer(&target))
}

func (f *Functions) GetQueryObjectuiv(id, pname uint32, params *uint32) {
	pp := unsafe.Pointer(params)
	f.p.call(procGetQueryObjectuiv, nil, unsafe.Pointer(&id), unsafe.Pointer(&pname), ptrArg(&pp))
}

func (f *Functions) GetQueryObjectui64v(id, pname uint32, params *uint64) {
	pp := unsafe.Pointer(params)
	f.p.call(procGetQueryObjectui64v, nil, unsafe.Pointer(&id), unsafe.Pointer(&pname), ptrArg(&pp))
}

// --- Sync ---

func (f *Functions) FenceSync(condition, flags uint32) uintptr {
	var sync uintptr
	f.p.call(procFenceSync, unsafe.Pointer(&sync), unsafe.Pointer(&condition), unsafe.Pointer(&flags))
	return sync
}

func (f *Functions) DeleteSync(sync uintptr) {
	f.p.call(procDeleteSync, nil, unsafe.Pointer(&sync))
}

func (f *Functions) ClientWaitSync(sync uintptr, flags uint32, timeout uint64) uint32 {
	// GL_WAIT_FAILED
	result := uint32(0x911D)
	f.p.call(procClientWaitSync, unsafe.Pointer(&result), unsafe.Pointer(&sync), unsafe.Pointer(&flags), unsafe.Pointer(&timeout))
	return result
}

func (f *Functions) WaitSync(sync uintptr, flags uint32, timeout uint64) {
	f.p.call(procWaitSync, nil, unsafe.Pointer(&sync), unsafe.Pointer(&flags), unsafe.Pointer(&timeout))
}
