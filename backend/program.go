package backend

import (
	"strings"

	"github.com/gogpu/wgpu/hal/gles/gl"
)

// builtinPrefix marks reserved names skipped by reflection.
const builtinPrefix = "gl_"

type programObj struct {
	id        uint32
	separable bool
	linked    bool
	attribs   []ShaderAttrib
	uniforms  []UniformInfo
}

func (p *programObj) uniformAt(loc int32) (UniformInfo, bool) {
	for _, u := range p.uniforms {
		if u.Location == loc {
			return u, true
		}
	}
	return UniformInfo{}, false
}

// CreateShaderProgram creates an empty program. A separable program can
// be combined with others in a program pipeline and needs that
// capability.
func (b *Backend) CreateShaderProgram(separable bool) ProgramHandle {
	if separable && !b.require(CapProgramPipeline, "CreateShaderProgram") {
		return ProgramHandle{}
	}
	id := b.gl.CreateProgram()
	if id == 0 {
		slogger().Error("CreateProgram failed")
		return ProgramHandle{}
	}
	if separable {
		b.pipeGL.ProgramParameteri(id, glProgramSeparable, gl.TRUE)
	}
	h := b.programs.insert(programObj{id: id, separable: separable})
	logCreated("program", h, "separable", separable)
	return ProgramHandle{h}
}

// ReleaseShaderProgram deletes a program and the vertex arrays cached for
// it by input assemblers.
func (b *Backend) ReleaseShaderProgram(h ProgramHandle) {
	p, ok := b.programs.remove(h.handle)
	if !ok {
		b.stale("ReleaseShaderProgram", h.handle)
		return
	}
	b.assemblers.each(func(_ handle, ia *inputAssemblerObj) {
		if vao, ok := ia.vaos[h]; ok {
			if b.state.vao == vao {
				b.bindVAO(0)
			}
			b.gl.DeleteVertexArrays(vao)
			delete(ia.vaos, h)
		}
	})
	if b.state.program == p.id {
		b.useProgram(0)
	}
	b.gl.DeleteProgram(p.id)
}

// AttachShader attaches a compiled shader of any stage to a program.
func (b *Backend) AttachShader(p ProgramHandle, s ShaderHandle) {
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("AttachShader", p.handle)
		return
	}
	sh, ok := b.shaders.get(s.handle)
	if !ok {
		b.stale("AttachShader", s.handle)
		return
	}
	b.gl.AttachShader(prog.id, sh.id)
}

// LinkProgram links a program. It reports whether linking succeeded and
// returns the linker log when it is not trivially empty. A linked program
// has its active attributes and uniforms reflected.
func (b *Backend) LinkProgram(p ProgramHandle) (bool, string) {
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("LinkProgram", p.handle)
		return false, ""
	}
	b.gl.LinkProgram(prog.id)
	var status, logLen int32
	b.gl.GetProgramiv(prog.id, gl.LINK_STATUS, &status)
	b.gl.GetProgramiv(prog.id, gl.INFO_LOG_LENGTH, &logLen)
	var log string
	if logLen > 2 {
		log = b.gl.GetProgramInfoLog(prog.id)
	}
	prog.linked = status != gl.FALSE
	if !prog.linked {
		slogger().Error("program link failed", "program", p.String(), "log", log)
		return false, log
	}
	prog.attribs = b.reflectAttributes(prog.id)
	prog.uniforms = b.reflectUniforms(prog.id)
	return true, log
}

func (b *Backend) reflectAttributes(id uint32) []ShaderAttrib {
	if b.ext == nil {
		return nil
	}
	var n int32
	b.gl.GetProgramiv(id, gl.ACTIVE_ATTRIBUTES, &n)
	attribs := make([]ShaderAttrib, 0, max(n, 0))
	for i := range uint32(max(n, 0)) {
		name, _, typ := b.ext.GetActiveAttrib(id, i)
		if name == "" || strings.HasPrefix(name, builtinPrefix) {
			continue
		}
		attribs = append(attribs, ShaderAttrib{
			Name:       name,
			Location:   b.gl.GetAttribLocation(id, name),
			Type:       typ,
			Components: attribComponents(typ),
		})
	}
	return attribs
}

func (b *Backend) reflectUniforms(id uint32) []UniformInfo {
	if b.ext == nil {
		return nil
	}
	var n int32
	b.gl.GetProgramiv(id, gl.ACTIVE_UNIFORMS, &n)
	uniforms := make([]UniformInfo, 0, max(n, 0))
	for i := range uint32(max(n, 0)) {
		name, size, typ := b.ext.GetActiveUniform(id, i)
		name = strings.TrimSuffix(name, "[0]")
		if name == "" || strings.HasPrefix(name, builtinPrefix) {
			continue
		}
		loc := b.gl.GetUniformLocation(id, name)
		if loc < 0 {
			// Uniform block members have no location.
			continue
		}
		uniforms = append(uniforms, UniformInfo{
			Name:     name,
			Location: loc,
			Type:     shaderDataTypeOf(typ),
			Count:    int(max(size, 1)),
		})
	}
	return uniforms
}

// ProgramAttributes returns the reflected vertex inputs of a linked
// program.
func (b *Backend) ProgramAttributes(p ProgramHandle) []ShaderAttrib {
	prog, ok := b.programs.get(p.handle)
	if !ok {
		return nil
	}
	return prog.attribs
}

// ProgramUniforms returns the reflected uniforms of a linked program.
func (b *Backend) ProgramUniforms(p ProgramHandle) []UniformInfo {
	prog, ok := b.programs.get(p.handle)
	if !ok {
		return nil
	}
	return prog.uniforms
}

// ProgramUniform returns the reflected uniform called name.
func (b *Backend) ProgramUniform(p ProgramHandle, name string) (UniformInfo, bool) {
	prog, ok := b.programs.get(p.handle)
	if !ok {
		return UniformInfo{}, false
	}
	for _, u := range prog.uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return UniformInfo{}, false
}

// UniformLocation returns the location of a uniform, or -1. Reflected
// uniforms are answered without a native call.
func (b *Backend) UniformLocation(p ProgramHandle, name string) int32 {
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("UniformLocation", p.handle)
		return -1
	}
	for _, u := range prog.uniforms {
		if u.Name == name {
			return u.Location
		}
	}
	return b.gl.GetUniformLocation(prog.id, name)
}

// SetActiveProgram makes p current. The null handle unbinds.
func (b *Backend) SetActiveProgram(p ProgramHandle) {
	id := uint32(0)
	if !p.IsNull() {
		prog, ok := b.programs.get(p.handle)
		if !ok {
			b.stale("SetActiveProgram", p.handle)
			return
		}
		id = prog.id
	}
	b.useProgram(id)
}

// typeComponents is the number of scalars in one element of t.
func typeComponents(t ShaderDataType) int {
	switch t {
	case TypeVec2, TypeIVec2, TypeUVec2, TypeBVec2:
		return 2
	case TypeVec3, TypeIVec3, TypeUVec3, TypeBVec3:
		return 3
	case TypeVec4, TypeIVec4, TypeUVec4, TypeBVec4, TypeMat2:
		return 4
	case TypeMat3:
		return 9
	case TypeMat4:
		return 16
	}
	return 1
}

// uniformCompatible reports whether a value of type value may be written
// to a uniform declared as declared. Samplers and images take a unit.
func uniformCompatible(declared, value ShaderDataType) bool {
	if declared == value || declared == TypeUnknown {
		return true
	}
	if declared.IsSampler() || declared == TypeImage2D {
		return value == TypeInt
	}
	return false
}

// SetUniformValue writes count elements of typ to the uniform at loc of
// program p, making p current. value is a scalar or slice of float32,
// int32, uint32 or bool. A value whose type differs from the reflected
// declaration is a TypeMismatch and is not written.
func (b *Backend) SetUniformValue(p ProgramHandle, loc int32, count int, typ ShaderDataType, value any) bool {
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("SetUniformValue", p.handle)
		return false
	}
	if loc < 0 {
		return false
	}
	if u, ok := prog.uniformAt(loc); ok && !uniformCompatible(u.Type, typ) {
		return b.assert(false, "uniform type mismatch",
			"op", "SetUniformValue", "uniform", u.Name,
			"declared", u.Type.String(), "value", typ.String(), "err", ErrTypeMismatch)
	}
	count = max(count, 1)
	n := typeComponents(typ) * count

	if b.ext == nil {
		// The core set only writes single integers.
		if count != 1 || typeComponents(typ) != 1 || typ == TypeFloat || typ == TypeUint {
			b.unsupported("SetUniformValue")
			return false
		}
		v, ok := intValues(value)
		if !b.assert(ok && len(v) >= 1, "uniform value does not match type",
			"op", "SetUniformValue", "type", typ.String(), "err", ErrTypeMismatch) {
			return false
		}
		b.useProgram(prog.id)
		b.gl.Uniform1i(loc, v[0])
		return true
	}

	switch typ {
	case TypeFloat, TypeVec2, TypeVec3, TypeVec4, TypeMat2, TypeMat3, TypeMat4:
		v, ok := floatValues(value)
		if !b.assert(ok && len(v) >= n, "uniform value does not match type",
			"op", "SetUniformValue", "type", typ.String(), "want", n, "err", ErrTypeMismatch) {
			return false
		}
		b.useProgram(prog.id)
		v = v[:n]
		switch typ {
		case TypeFloat:
			b.ext.Uniform1fv(loc, v)
		case TypeVec2:
			b.ext.Uniform2fv(loc, v)
		case TypeVec3:
			b.ext.Uniform3fv(loc, v)
		case TypeVec4:
			b.ext.Uniform4fv(loc, v)
		case TypeMat2:
			b.ext.UniformMatrix2fv(loc, false, v)
		case TypeMat3:
			b.ext.UniformMatrix3fv(loc, false, v)
		case TypeMat4:
			b.ext.UniformMatrix4fv(loc, false, v)
		}
	case TypeUint, TypeUVec2, TypeUVec3, TypeUVec4:
		v, ok := uintValues(value)
		if !b.assert(ok && len(v) >= n, "uniform value does not match type",
			"op", "SetUniformValue", "type", typ.String(), "want", n, "err", ErrTypeMismatch) {
			return false
		}
		b.useProgram(prog.id)
		v = v[:n]
		switch typ {
		case TypeUint:
			b.ext.Uniform1uiv(loc, v)
		case TypeUVec2:
			b.ext.Uniform2uiv(loc, v)
		case TypeUVec3:
			b.ext.Uniform3uiv(loc, v)
		default:
			b.ext.Uniform4uiv(loc, v)
		}
	case TypeDataBuffer, TypeUnknown:
		return b.assert(false, "uniform type not settable",
			"op", "SetUniformValue", "type", typ.String(), "err", ErrTypeMismatch)
	default:
		// Integer, boolean, sampler and image uniforms.
		v, ok := intValues(value)
		if !b.assert(ok && len(v) >= n, "uniform value does not match type",
			"op", "SetUniformValue", "type", typ.String(), "want", n, "err", ErrTypeMismatch) {
			return false
		}
		b.useProgram(prog.id)
		v = v[:n]
		switch typeComponents(typ) {
		case 1:
			b.ext.Uniform1iv(loc, v)
		case 2:
			b.ext.Uniform2iv(loc, v)
		case 3:
			b.ext.Uniform3iv(loc, v)
		default:
			b.ext.Uniform4iv(loc, v)
		}
	}
	return true
}

func floatValues(v any) ([]float32, bool) {
	switch x := v.(type) {
	case float32:
		return []float32{x}, true
	case float64:
		return []float32{float32(x)}, true
	case []float32:
		return x, true
	}
	return nil, false
}

func intValues(v any) ([]int32, bool) {
	switch x := v.(type) {
	case int32:
		return []int32{x}, true
	case int:
		return []int32{int32(x)}, true
	case bool:
		return []int32{boolInt(x)}, true
	case []int32:
		return x, true
	case []bool:
		out := make([]int32, len(x))
		for i, e := range x {
			out[i] = boolInt(e)
		}
		return out, true
	}
	return nil, false
}

func uintValues(v any) ([]uint32, bool) {
	switch x := v.(type) {
	case uint32:
		return []uint32{x}, true
	case []uint32:
		return x, true
	}
	return nil, false
}

func boolInt(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// requireExt is require for operations that also need ExtendedGL.
func (b *Backend) requireExt(c Cap, op string) bool {
	if !b.require(c, op) {
		return false
	}
	if b.ext == nil {
		b.unsupported(op)
		return false
	}
	return true
}

// ConstantBufferCount returns the number of active uniform blocks of a
// linked program.
func (b *Backend) ConstantBufferCount(p ProgramHandle) int {
	if !b.requireExt(CapConstantBuffer, "ConstantBufferCount") {
		return 0
	}
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("ConstantBufferCount", p.handle)
		return 0
	}
	var n int32
	b.gl.GetProgramiv(prog.id, glActiveUniformBlocks, &n)
	return int(max(n, 0))
}

// ConstantBufferInfo describes the uniform block at index.
func (b *Backend) ConstantBufferInfo(p ProgramHandle, index int) (ConstantBufferInfo, bool) {
	if !b.requireExt(CapConstantBuffer, "ConstantBufferInfo") {
		return ConstantBufferInfo{}, false
	}
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("ConstantBufferInfo", p.handle)
		return ConstantBufferInfo{}, false
	}
	idx := uint32(index)
	var size, binding, active int32
	b.ext.GetActiveUniformBlockiv(prog.id, idx, glUniformBlockDataSize, &size)
	b.ext.GetActiveUniformBlockiv(prog.id, idx, glUniformBlockBinding, &binding)
	b.ext.GetActiveUniformBlockiv(prog.id, idx, glUniformBlockActiveUniforms, &active)
	return ConstantBufferInfo{
		Name:        b.ext.GetActiveUniformBlockName(prog.id, idx),
		Index:       idx,
		Size:        int(size),
		Binding:     int(binding),
		ActiveCount: int(active),
	}, true
}

// ProgramSetConstantBuffer binds buf to the uniform block called name
// through binding slot. It reports false when the block does not exist.
func (b *Backend) ProgramSetConstantBuffer(p ProgramHandle, name string, slot int, buf BufferHandle) bool {
	if !b.require(CapConstantBuffer, "ProgramSetConstantBuffer") {
		return false
	}
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("ProgramSetConstantBuffer", p.handle)
		return false
	}
	bo, ok := b.buffers.get(buf.handle)
	if !ok {
		b.stale("ProgramSetConstantBuffer", buf.handle)
		return false
	}
	if !b.assert(bo.kind == BufferConstant, "buffer kind mismatch",
		"op", "ProgramSetConstantBuffer", "kind", bo.kind.String(), "err", ErrTypeMismatch) {
		return false
	}
	idx := b.gl.GetUniformBlockIndex(prog.id, name)
	if idx == glInvalidIndex {
		return false
	}
	b.gl.UniformBlockBinding(prog.id, idx, uint32(slot))
	b.gl.BindBufferBase(gl.UNIFORM_BUFFER, uint32(slot), bo.id)
	return true
}

// StorageBufferCount returns the number of active shader storage blocks.
func (b *Backend) StorageBufferCount(p ProgramHandle) int {
	if !b.requireExt(CapStorageBuffer, "StorageBufferCount") {
		return 0
	}
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("StorageBufferCount", p.handle)
		return 0
	}
	var n int32
	b.ext.GetProgramInterfaceiv(prog.id, glShaderStorageBlock, glActiveResources, &n)
	return int(max(n, 0))
}

// ProgramSetStorageBuffer binds buf to the storage block called name
// through binding slot.
func (b *Backend) ProgramSetStorageBuffer(p ProgramHandle, name string, slot int, buf BufferHandle) bool {
	if !b.requireExt(CapStorageBuffer, "ProgramSetStorageBuffer") {
		return false
	}
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("ProgramSetStorageBuffer", p.handle)
		return false
	}
	bo, ok := b.buffers.get(buf.handle)
	if !ok {
		b.stale("ProgramSetStorageBuffer", buf.handle)
		return false
	}
	idx := b.ext.GetProgramResourceIndex(prog.id, glShaderStorageBlock, name)
	if idx == glInvalidIndex {
		return false
	}
	b.ext.ShaderStorageBlockBinding(prog.id, idx, uint32(slot))
	b.gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, uint32(slot), bo.id)
	return true
}

// BindImageTexture binds a texture level to an image unit for load/store
// access from shaders.
func (b *Backend) BindImageTexture(unit int, tex TextureHandle, level int, access ImageAccess, format TextureFormat) bool {
	if !b.requireExt(CapShaderImageLoadStore, "BindImageTexture") {
		return false
	}
	t, ok := b.textures.get(tex.handle)
	if !ok {
		b.stale("BindImageTexture", tex.handle)
		return false
	}
	tr, ok := sizedTriple(format)
	if !b.assert(ok && !format.IsCompressed(), "invalid image format",
		"op", "BindImageTexture", "format", format.String()) {
		return false
	}
	layered := t.target == Texture2DArray || t.target == Texture3D || t.target == TextureCube
	b.ext.BindImageTexture(uint32(unit), t.id, int32(level), layered, 0, glImageAccess(access), uint32(tr.internal))
	return true
}

// DispatchCompute runs the current compute program.
func (b *Backend) DispatchCompute(x, y, z int) {
	if !b.require(CapCompute, "DispatchCompute") {
		return
	}
	b.gl.DispatchCompute(uint32(x), uint32(y), uint32(z))
}

// SetMemoryBarrier orders shader writes before the accesses in flags.
func (b *Backend) SetMemoryBarrier(flags BarrierFlags) {
	if !b.Cap(CapCompute) && !b.Cap(CapShaderImageLoadStore) {
		b.unsupported("SetMemoryBarrier")
		return
	}
	b.gl.MemoryBarrier(glBarrier(flags))
}

// CreateProgramPipeline creates a program pipeline object.
func (b *Backend) CreateProgramPipeline() ProgramPipelineHandle {
	if !b.require(CapProgramPipeline, "CreateProgramPipeline") {
		return ProgramPipelineHandle{}
	}
	id := b.pipeGL.GenProgramPipelines(1)
	if id == 0 {
		slogger().Error("GenProgramPipelines failed")
		return ProgramPipelineHandle{}
	}
	return ProgramPipelineHandle{b.pipelines.insert(id)}
}

// ReleaseProgramPipeline deletes a program pipeline object.
func (b *Backend) ReleaseProgramPipeline(h ProgramPipelineHandle) {
	if !b.require(CapProgramPipeline, "ReleaseProgramPipeline") {
		return
	}
	id, ok := b.pipelines.remove(h.handle)
	if !ok {
		b.stale("ReleaseProgramPipeline", h.handle)
		return
	}
	if b.state.pipeline == id {
		b.state.pipeline = 0
	}
	b.pipeGL.DeleteProgramPipelines(id)
}

// SetProgramStages uses the stages of a separable program in a pipeline.
func (b *Backend) SetProgramStages(h ProgramPipelineHandle, stages ShaderStageFlags, p ProgramHandle) {
	if !b.require(CapProgramPipeline, "SetProgramStages") {
		return
	}
	id, ok := b.pipelines.get(h.handle)
	if !ok {
		b.stale("SetProgramStages", h.handle)
		return
	}
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("SetProgramStages", p.handle)
		return
	}
	b.assert(prog.separable, "program is not separable", "op", "SetProgramStages", "program", p.String())
	b.pipeGL.UseProgramStages(*id, glStageBits(stages), prog.id)
}

// SetActiveProgramPipeline binds a program pipeline. Any current program
// is unbound, since it would take precedence over the pipeline.
func (b *Backend) SetActiveProgramPipeline(h ProgramPipelineHandle) {
	if !b.require(CapProgramPipeline, "SetActiveProgramPipeline") {
		return
	}
	id := uint32(0)
	if !h.IsNull() {
		pid, ok := b.pipelines.get(h.handle)
		if !ok {
			b.stale("SetActiveProgramPipeline", h.handle)
			return
		}
		id = *pid
	}
	b.useProgram(0)
	if b.state.pipeline == id {
		return
	}
	b.pipeGL.BindProgramPipeline(id)
	b.state.pipeline = id
}
