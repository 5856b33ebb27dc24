// Package paths renders vector paths made of cubic Bezier segments.
//
// A Path is built from SubPaths of Anchors, or from a path blob resolved
// through an iostream.Factory. Manager.PrepareForRender brings its GPU
// resources up to date, rebuilding only what the path's DirtyFlags
// invalidate:
//
//   - GeometryPath subdivides every segment until it is flat within the
//     path's linear error (never below 1), splits the result at taper
//     boundaries and uploads five vec4 per result cubic for tessellation
//     shaders. The vertex buffer only grows.
//   - PaintedPath submits the outline to a native stencil path object.
//     Rendering stencils the path and covers its bounds with the material.
//
// The sub-path buffer accessors may be called from any goroutine; the
// rest of the Manager belongs to the rendering thread.
package paths
