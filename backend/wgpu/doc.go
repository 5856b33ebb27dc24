// Package wgpu registers the native loader of the render backend. It
// creates a headless EGL context through github.com/gogpu/wgpu/hal/gles
// and exposes its functions as a backend.GL.
//
// Importing the package registers the loader under backend.LoaderWGPU:
//
//	import _ "github.com/gogpu/glrender/backend/wgpu"
//
//	b, err := backend.Default()
//
// Context creation tries OpenGL ES 3.2, 3.1 and 3.0, then desktop OpenGL
// 3.3 core. The core entry points come from gl.Context. The extended,
// query and sync sets are resolved through eglGetProcAddress; entry
// points the driver does not export are no-ops, and the backend keeps
// the matching capabilities off based on the negotiated version and
// extensions. Separable program pipelines and NV_path_rendering are not
// loaded.
//
// The loader is available on Linux only. On other platforms backend
// selection falls through to the null loader.
package wgpu
