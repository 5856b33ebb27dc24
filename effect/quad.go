package effect

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
)

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Ortho returns an orthographic projection of the box (left, right,
// bottom, top, near, far).
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// fitMVP is the camera fitted to a buffer: the unit quad covers the
// whole target.
func fitMVP() Mat4 { return Ortho(0, 1, 0, 1, -1, 1) }

// quadVertices is the unit quad: position xyz and uv per vertex.
var quadVertices = [...]float32{
	0, 0, 0, 0, 0,
	1, 0, 0, 1, 0,
	1, 1, 0, 1, 1,
	0, 1, 0, 0, 1,
}

var quadIndices = [...]uint16{0, 1, 2, 0, 2, 3}

const quadStride = 5 * 4

// quad is the full-screen geometry shared by every pass.
type quad struct {
	vertices backend.BufferHandle
	indices  backend.BufferHandle
	layout   backend.AttribLayoutHandle
	ia       backend.InputAssemblerHandle
}

func (q *quad) ensure(b *backend.Backend) bool {
	if !q.ia.IsNull() {
		return true
	}
	vb := make([]byte, 0, len(quadVertices)*4)
	for _, v := range quadVertices {
		vb = binary.LittleEndian.AppendUint32(vb, math.Float32bits(v))
	}
	ib := make([]byte, 0, len(quadIndices)*2)
	for _, i := range quadIndices {
		ib = binary.LittleEndian.AppendUint16(ib, i)
	}
	q.vertices = b.CreateBuffer(backend.BufferVertex, backend.UsageStatic, len(vb), vb)
	q.indices = b.CreateBuffer(backend.BufferIndex, backend.UsageStatic, len(ib), ib)
	q.layout = b.CreateAttribLayout([]backend.AttribEntry{
		{Name: "attr_pos", Format: gputypes.VertexFormatFloat32x3},
		{Name: "attr_uv", Format: gputypes.VertexFormatFloat32x2, Offset: 12},
	})
	q.ia = b.CreateInputAssembler(backend.InputAssemblerDesc{
		Layout:      q.layout,
		Buffers:     []backend.BufferHandle{q.vertices},
		Strides:     []int{quadStride},
		Offsets:     []int{0},
		Index:       q.indices,
		IndexFormat: gputypes.IndexFormatUint16,
	})
	if q.ia.IsNull() {
		slogger().Error("effect quad creation failed")
		q.release(b)
		return false
	}
	return true
}

func (q *quad) release(b *backend.Backend) {
	if !q.ia.IsNull() {
		b.ReleaseInputAssembler(q.ia)
	}
	if !q.layout.IsNull() {
		b.ReleaseAttribLayout(q.layout)
	}
	if !q.indices.IsNull() {
		b.ReleaseBuffer(q.indices)
	}
	if !q.vertices.IsNull() {
		b.ReleaseBuffer(q.vertices)
	}
	*q = quad{}
}
