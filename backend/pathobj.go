package backend

import "github.com/gogpu/gputypes"

// PathCommand is a command of a native path object.
type PathCommand uint8

// Path commands.
const (
	PathMoveTo PathCommand = iota
	PathCubicTo
	PathClose
)

// PathCap is the cap style of a stroked path object.
type PathCap uint8

// Path caps.
const (
	PathCapFlat PathCap = iota
	PathCapRound
)

type pathObj struct {
	id uint32
}

func nvPathCommand(c PathCommand) uint8 {
	switch c {
	case PathMoveTo:
		return glMoveToNV
	case PathCubicTo:
		return glCubicCurveToNV
	default:
		return glClosePathNV
	}
}

// CreatePathObject creates a native stencil path object.
func (b *Backend) CreatePathObject() PathObjectHandle {
	if !b.require(CapPathRendering, "CreatePathObject") {
		return PathObjectHandle{}
	}
	id := b.pathGL.GenPaths(1)
	if id == 0 {
		slogger().Error("GenPaths failed")
		return PathObjectHandle{}
	}
	return PathObjectHandle{b.pathObjects.insert(pathObj{id: id})}
}

// ReleasePathObject deletes a path object.
func (b *Backend) ReleasePathObject(h PathObjectHandle) {
	if !b.require(CapPathRendering, "ReleasePathObject") {
		return
	}
	p, ok := b.pathObjects.remove(h.handle)
	if !ok {
		b.stale("ReleasePathObject", h.handle)
		return
	}
	b.pathGL.DeletePaths(p.id, 1)
}

// SetPathObjectCommands replaces the geometry of a path object. MoveTo
// takes two coordinates, CubicTo six and Close none.
func (b *Backend) SetPathObjectCommands(h PathObjectHandle, cmds []PathCommand, coords []float32) {
	if !b.require(CapPathRendering, "SetPathObjectCommands") {
		return
	}
	p, ok := b.pathObjects.get(h.handle)
	if !ok {
		b.stale("SetPathObjectCommands", h.handle)
		return
	}
	native := make([]uint8, len(cmds))
	for i, c := range cmds {
		native[i] = nvPathCommand(c)
	}
	b.pathGL.PathCommands(p.id, native, coords)
}

// SetPathObjectStroke sets the stroke width and cap style.
func (b *Backend) SetPathObjectStroke(h PathObjectHandle, width float32, c PathCap) {
	if !b.require(CapPathRendering, "SetPathObjectStroke") {
		return
	}
	p, ok := b.pathObjects.get(h.handle)
	if !ok {
		b.stale("SetPathObjectStroke", h.handle)
		return
	}
	capStyle := int32(glFlat)
	if c == PathCapRound {
		capStyle = glRoundNV
	}
	b.pathGL.PathParameterf(p.id, glPathStrokeWidthNV, width)
	b.pathGL.PathParameteri(p.id, glPathInitialEndCapNV, capStyle)
	b.pathGL.PathParameteri(p.id, glPathTerminalEndCapNV, capStyle)
	b.pathGL.PathParameteri(p.id, glPathJoinStyleNV, glMiterRevertNV)
	b.pathGL.PathParameterf(p.id, glPathMiterLimitNV, 4)
}

// PathObjectBounds returns the object-space bounding box of a path object
// as minX, minY, maxX, maxY.
func (b *Backend) PathObjectBounds(h PathObjectHandle) ([4]float32, bool) {
	var box [4]float32
	if !b.require(CapPathRendering, "PathObjectBounds") {
		return box, false
	}
	p, ok := b.pathObjects.get(h.handle)
	if !ok {
		b.stale("PathObjectBounds", h.handle)
		return box, false
	}
	b.pathGL.GetPathParameterfv(p.id, glPathObjectBoundingBoxNV, box[:])
	return box, true
}

// SetPathStencilDepthOffset sets the depth offset used while stencilling
// path objects.
func (b *Backend) SetPathStencilDepthOffset(factor, units float32) {
	if !b.require(CapPathRendering, "SetPathStencilDepthOffset") {
		return
	}
	b.pathGL.PathStencilDepthOffset(factor, units)
}

// SetPathCoverDepthFunc sets the depth comparison of cover operations.
func (b *Backend) SetPathCoverDepthFunc(f gputypes.CompareFunction) {
	if !b.require(CapPathRendering, "SetPathCoverDepthFunc") {
		return
	}
	b.pathGL.PathCoverDepthFunc(glCompareFunc(f))
}

// StencilFillPath writes the fill coverage of a path object into the
// stencil buffer, counting up under mask.
func (b *Backend) StencilFillPath(h PathObjectHandle, mask uint32) {
	if !b.require(CapPathRendering, "StencilFillPath") {
		return
	}
	p, ok := b.pathObjects.get(h.handle)
	if !ok {
		b.stale("StencilFillPath", h.handle)
		return
	}
	b.pathGL.StencilFillPath(p.id, glCountUpNV, mask)
}

// StencilStrokePath writes ref into the stencil buffer under mask for
// every sample covered by the stroke of a path object.
func (b *Backend) StencilStrokePath(h PathObjectHandle, ref int32, mask uint32) {
	if !b.require(CapPathRendering, "StencilStrokePath") {
		return
	}
	p, ok := b.pathObjects.get(h.handle)
	if !ok {
		b.stale("StencilStrokePath", h.handle)
		return
	}
	b.pathGL.StencilStrokePath(p.id, ref, mask)
}
