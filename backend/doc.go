// Package backend translates abstract graphics operations into native
// OpenGL / OpenGL ES calls.
//
// A single [Backend] type serves every capability tier. The tier is derived
// once from the negotiated [SurfaceFormat] as a [ContextType] and drives every
// capability decision and every enum translation:
//
//	funcs := loadNativeGL() // any implementation of backend.GL
//	b := backend.New(funcs, backend.SurfaceFormat{API: backend.OpenGLES, Major: 3, Minor: 0})
//	if b.Cap(backend.CapCompute) {
//		// ...
//	}
//
// # Handles
//
// Every GPU object is returned as a typed, generation-tagged handle
// ([BufferHandle], [TextureHandle], ...). The zero value is the null
// sentinel returned on failure. Handles must be released with the matching
// Release method; with [WithDebugHandles] a double release or a use after
// release panics instead of being logged.
//
// # Unsupported operations
//
// Operations that need a newer context than the active one log
// "unsupported method" with the operation name, return the null sentinel of
// their result type and make no native call. Callers never need version
// checks of their own.
//
// # Redundant state
//
// Depth-stencil state, rasterizer state, render-state toggles, viewport,
// scissor, clear values, bound program, framebuffers and the active texture
// unit are cached. Setting a value equal to the cached one makes no native
// call; elision never changes the observable GPU state.
//
// # Native implementations
//
// [GL] is the core native function set. Optional interfaces ([ExtendedGL],
// [QueryGL], [SyncGL], [PipelineGL], [PathRenderingGL]) are discovered by
// type assertion; a capability whose entry points are missing is reported
// unsupported. [NullFunctions] implements all of them without a GPU and
// counts every call, which makes it the mock used by tests and the native
// side of a NullContext backend.
package backend
