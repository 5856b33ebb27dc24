package backend

import (
	"runtime"

	"github.com/gogpu/wgpu/hal/gles/gl"
)

// ShaderCode is the input of a shader stage: GLSL source, or a
// precompiled binary of BinaryFormat when Binary is non-empty.
type ShaderCode struct {
	Source       string
	Binary       []byte
	BinaryFormat uint32
}

type shaderObj struct {
	id    uint32
	stage ShaderStage
}

// CreateVertexShader compiles a vertex shader. On failure it returns the
// null handle and the compiler log.
func (b *Backend) CreateVertexShader(code ShaderCode) (VertexShaderHandle, string) {
	h, log := b.createShader("CreateVertexShader", StageVertex, code)
	return VertexShaderHandle{h}, log
}

// CreateFragmentShader compiles a fragment shader.
func (b *Backend) CreateFragmentShader(code ShaderCode) (FragmentShaderHandle, string) {
	h, log := b.createShader("CreateFragmentShader", StageFragment, code)
	return FragmentShaderHandle{h}, log
}

// CreateTessControlShader compiles a tessellation control shader.
func (b *Backend) CreateTessControlShader(code ShaderCode) (TessControlShaderHandle, string) {
	if !b.require(CapTessellation, "CreateTessControlShader") {
		return TessControlShaderHandle{}, ""
	}
	h, log := b.createShader("CreateTessControlShader", StageTessControl, code)
	return TessControlShaderHandle{h}, log
}

// CreateTessEvalShader compiles a tessellation evaluation shader.
func (b *Backend) CreateTessEvalShader(code ShaderCode) (TessEvalShaderHandle, string) {
	if !b.require(CapTessellation, "CreateTessEvalShader") {
		return TessEvalShaderHandle{}, ""
	}
	h, log := b.createShader("CreateTessEvalShader", StageTessEval, code)
	return TessEvalShaderHandle{h}, log
}

// CreateGeometryShader compiles a geometry shader.
func (b *Backend) CreateGeometryShader(code ShaderCode) (GeometryShaderHandle, string) {
	if !b.require(CapGeometryShader, "CreateGeometryShader") {
		return GeometryShaderHandle{}, ""
	}
	h, log := b.createShader("CreateGeometryShader", StageGeometry, code)
	return GeometryShaderHandle{h}, log
}

// CreateComputeShader compiles a compute shader.
func (b *Backend) CreateComputeShader(code ShaderCode) (ComputeShaderHandle, string) {
	if !b.require(CapCompute, "CreateComputeShader") {
		return ComputeShaderHandle{}, ""
	}
	h, log := b.createShader("CreateComputeShader", StageCompute, code)
	return ComputeShaderHandle{h}, log
}

func (b *Backend) createShader(op string, stage ShaderStage, code ShaderCode) (ShaderHandle, string) {
	if len(code.Binary) > 0 && b.ext == nil {
		b.unsupported(op)
		return ShaderHandle{}, ""
	}
	id := b.gl.CreateShader(glShaderType(stage))
	if id == 0 {
		slogger().Error("CreateShader failed", "op", op, "stage", stage.String())
		return ShaderHandle{}, ""
	}
	if len(code.Binary) > 0 {
		b.clearErrors()
		b.ext.ShaderBinary(id, code.BinaryFormat, code.Binary)
		runtime.KeepAlive(code.Binary)
		if !b.checkError(op) {
			b.gl.DeleteShader(id)
			return ShaderHandle{}, ""
		}
	} else {
		b.gl.ShaderSource(id, code.Source)
		b.gl.CompileShader(id)
		var status int32
		b.gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
		if status == gl.FALSE {
			log := b.shaderLog(id)
			slogger().Error("shader compile failed", "op", op, "stage", stage.String(), "log", log)
			b.gl.DeleteShader(id)
			return ShaderHandle{}, log
		}
	}
	h := b.shaders.insert(shaderObj{id: id, stage: stage})
	logCreated("shader", h, "stage", stage.String())
	return ShaderHandle{h}, ""
}

// shaderLog returns the info log when it holds more than a terminator.
func (b *Backend) shaderLog(id uint32) string {
	var n int32
	b.gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 2 {
		return ""
	}
	return b.gl.GetShaderInfoLog(id)
}

// ReleaseShader deletes a shader of any stage. Programs it is attached to
// keep working.
func (b *Backend) ReleaseShader(h ShaderHandle) {
	s, ok := b.shaders.remove(h.handle)
	if !ok {
		b.stale("ReleaseShader", h.handle)
		return
	}
	b.gl.DeleteShader(s.id)
}

// ShaderStageOf returns the stage of a shader, or 0 for a stale handle.
func (b *Backend) ShaderStageOf(h ShaderHandle) ShaderStage {
	s, ok := b.shaders.get(h.handle)
	if !ok {
		return 0
	}
	return s.stage
}
