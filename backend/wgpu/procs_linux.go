//go:build linux && !(js && wasm)

package wgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// procID indexes the entry points gl.Context does not load.
type procID int

const (
	procGetStringi procID = iota
	procUniform1fv
	procUniform2fv
	procUniform3fv
	procUniform4fv
	procUniform1iv
	procUniform2iv
	procUniform3iv
	procUniform4iv
	procUniform1uiv
	procUniform2uiv
	procUniform3uiv
	procUniform4uiv
	procUniformMatrix2fv
	procUniformMatrix3fv
	procUniformMatrix4fv
	procGetActiveAttrib
	procGetActiveUniform
	procGetActiveUniformBlockName
	procGetActiveUniformBlockiv
	procGetProgramInterfaceiv
	procGetProgramResourceIndex
	procShaderStorageBlockBinding
	procShaderBinary
	procClearDepthf
	procClearStencil
	procPolygonOffset
	procCompressedTexImage2D
	procCompressedTexSubImage2D
	procTexImage3D
	procTexStorage2D
	procPatchParameteri
	procBindImageTexture
	procBlendBarrier

	procGenQueries
	procDeleteQueries
	procBeginQuery
	procEndQuery
	procQueryCounter
	procGetQueryObjectuiv
	procGetQueryObjectui64v

	procFenceSync
	procDeleteSync
	procClientWaitSync
	procWaitSync

	numProcs
)

var (
	tVoid  = types.VoidTypeDescriptor
	tU8    = types.UInt8TypeDescriptor
	tU32   = types.UInt32TypeDescriptor
	tS32   = types.SInt32TypeDescriptor
	tU64   = types.UInt64TypeDescriptor
	tF32   = types.FloatTypeDescriptor
	tPtr   = types.PointerTypeDescriptor
	uvSig  = []*types.TypeDescriptor{tS32, tS32, tPtr}
	matSig = []*types.TypeDescriptor{tS32, tS32, tU8, tPtr}
	u3Sig  = []*types.TypeDescriptor{tU32, tU32, tU32}
)

// procSig describes one native entry point. Names are tried in order;
// the first that resolves wins.
type procSig struct {
	names []string
	ret   *types.TypeDescriptor
	args  []*types.TypeDescriptor
}

var procTable = [numProcs]procSig{
	procGetStringi:                {[]string{"glGetStringi"}, tPtr, []*types.TypeDescriptor{tU32, tU32}},
	procUniform1fv:                {[]string{"glUniform1fv"}, tVoid, uvSig},
	procUniform2fv:                {[]string{"glUniform2fv"}, tVoid, uvSig},
	procUniform3fv:                {[]string{"glUniform3fv"}, tVoid, uvSig},
	procUniform4fv:                {[]string{"glUniform4fv"}, tVoid, uvSig},
	procUniform1iv:                {[]string{"glUniform1iv"}, tVoid, uvSig},
	procUniform2iv:                {[]string{"glUniform2iv"}, tVoid, uvSig},
	procUniform3iv:                {[]string{"glUniform3iv"}, tVoid, uvSig},
	procUniform4iv:                {[]string{"glUniform4iv"}, tVoid, uvSig},
	procUniform1uiv:               {[]string{"glUniform1uiv"}, tVoid, uvSig},
	procUniform2uiv:               {[]string{"glUniform2uiv"}, tVoid, uvSig},
	procUniform3uiv:               {[]string{"glUniform3uiv"}, tVoid, uvSig},
	procUniform4uiv:               {[]string{"glUniform4uiv"}, tVoid, uvSig},
	procUniformMatrix2fv:          {[]string{"glUniformMatrix2fv"}, tVoid, matSig},
	procUniformMatrix3fv:          {[]string{"glUniformMatrix3fv"}, tVoid, matSig},
	procUniformMatrix4fv:          {[]string{"glUniformMatrix4fv"}, tVoid, matSig},
	procGetActiveAttrib:           {[]string{"glGetActiveAttrib"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tS32, tPtr, tPtr, tPtr, tPtr}},
	procGetActiveUniform:          {[]string{"glGetActiveUniform"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tS32, tPtr, tPtr, tPtr, tPtr}},
	procGetActiveUniformBlockName: {[]string{"glGetActiveUniformBlockName"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tS32, tPtr, tPtr}},
	procGetActiveUniformBlockiv:   {[]string{"glGetActiveUniformBlockiv"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tU32, tPtr}},
	procGetProgramInterfaceiv:     {[]string{"glGetProgramInterfaceiv"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tU32, tPtr}},
	procGetProgramResourceIndex:   {[]string{"glGetProgramResourceIndex"}, tU32, []*types.TypeDescriptor{tU32, tU32, tPtr}},
	procShaderStorageBlockBinding: {[]string{"glShaderStorageBlockBinding"}, tVoid, u3Sig},
	procShaderBinary:              {[]string{"glShaderBinary"}, tVoid, []*types.TypeDescriptor{tS32, tPtr, tU32, tPtr, tS32}},
	procClearDepthf:               {[]string{"glClearDepthf"}, tVoid, []*types.TypeDescriptor{tF32}},
	procClearStencil:              {[]string{"glClearStencil"}, tVoid, []*types.TypeDescriptor{tS32}},
	procPolygonOffset:             {[]string{"glPolygonOffset"}, tVoid, []*types.TypeDescriptor{tF32, tF32}},
	procCompressedTexImage2D:      {[]string{"glCompressedTexImage2D"}, tVoid, []*types.TypeDescriptor{tU32, tS32, tU32, tS32, tS32, tS32, tS32, tPtr}},
	procCompressedTexSubImage2D:   {[]string{"glCompressedTexSubImage2D"}, tVoid, []*types.TypeDescriptor{tU32, tS32, tS32, tS32, tS32, tS32, tU32, tS32, tPtr}},
	procTexImage3D:                {[]string{"glTexImage3D"}, tVoid, []*types.TypeDescriptor{tU32, tS32, tS32, tS32, tS32, tS32, tS32, tU32, tU32, tPtr}},
	procTexStorage2D:              {[]string{"glTexStorage2D"}, tVoid, []*types.TypeDescriptor{tU32, tS32, tU32, tS32, tS32}},
	procPatchParameteri:           {[]string{"glPatchParameteri", "glPatchParameteriEXT", "glPatchParameteriOES"}, tVoid, []*types.TypeDescriptor{tU32, tS32}},
	procBindImageTexture:          {[]string{"glBindImageTexture"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tS32, tU8, tS32, tU32, tU32}},
	procBlendBarrier:              {[]string{"glBlendBarrier", "glBlendBarrierKHR", "glBlendBarrierNV"}, tVoid, nil},

	procGenQueries:          {[]string{"glGenQueries", "glGenQueriesEXT"}, tVoid, []*types.TypeDescriptor{tS32, tPtr}},
	procDeleteQueries:       {[]string{"glDeleteQueries", "glDeleteQueriesEXT"}, tVoid, []*types.TypeDescriptor{tS32, tPtr}},
	procBeginQuery:          {[]string{"glBeginQuery", "glBeginQueryEXT"}, tVoid, []*types.TypeDescriptor{tU32, tU32}},
	procEndQuery:            {[]string{"glEndQuery", "glEndQueryEXT"}, tVoid, []*types.TypeDescriptor{tU32}},
	procQueryCounter:        {[]string{"glQueryCounter", "glQueryCounterEXT"}, tVoid, []*types.TypeDescriptor{tU32, tU32}},
	procGetQueryObjectuiv:   {[]string{"glGetQueryObjectuiv", "glGetQueryObjectuivEXT"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tPtr}},
	procGetQueryObjectui64v: {[]string{"glGetQueryObjectui64v", "glGetQueryObjectui64vEXT"}, tVoid, []*types.TypeDescriptor{tU32, tU32, tPtr}},

	procFenceSync:      {[]string{"glFenceSync"}, tPtr, []*types.TypeDescriptor{tU32, tU32}},
	procDeleteSync:     {[]string{"glDeleteSync"}, tVoid, []*types.TypeDescriptor{tPtr}},
	procClientWaitSync: {[]string{"glClientWaitSync"}, tU32, []*types.TypeDescriptor{tPtr, tU32, tU64}},
	procWaitSync:       {[]string{"glWaitSync"}, tVoid, []*types.TypeDescriptor{tPtr, tU32, tU64}},
}

type proc struct {
	addr unsafe.Pointer
	cif  types.CallInterface
}

// procs holds the resolved entry points of one context.
type procs [numProcs]proc

// load resolves every entry point with getProcAddr and returns the names
// that did not resolve.
func (p *procs) load(getProcAddr func(string) unsafe.Pointer) ([]string, error) {
	var missing []string
	for id := range numProcs {
		sig := procTable[id]
		for _, name := range sig.names {
			if addr := getProcAddr(name); addr != nil {
				p[id].addr = addr
				break
			}
		}
		if p[id].addr == nil {
			missing = append(missing, sig.names[0])
			continue
		}
		if err := ffi.PrepareCallInterface(&p[id].cif, types.DefaultCall, sig.ret, sig.args); err != nil {
			return nil, fmt.Errorf("wgpu: prepare %s: %w", sig.names[0], err)
		}
	}
	return missing, nil
}

func (p *procs) has(id procID) bool { return p[id].addr != nil }

// call invokes id. Unresolved entry points are no-ops.
func (p *procs) call(id procID, ret unsafe.Pointer, args ...unsafe.Pointer) {
	pr := &p[id]
	if pr.addr == nil {
		return
	}
	_ = ffi.CallFunction(&pr.cif, pr.addr, ret, args)
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// ptrFromUintptr turns a native address returned through FFI into a
// pointer using double indirection, which go vet accepts.
func ptrFromUintptr(ptr uintptr) *byte {
	return *(**byte)(unsafe.Pointer(&ptr))
}

// goString copies the NUL-terminated string at ptr, up to 4096 bytes.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	base := ptrFromUintptr(ptr)
	n := 0
	for n < 4096 && *(*byte)(unsafe.Add(unsafe.Pointer(base), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(base, n))
}

// cString returns a NUL-terminated copy of s.
func cString(s string) *byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &buf[0]
}
