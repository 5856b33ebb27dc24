// Package glrender is the GPU render-backend abstraction and effect
// compositing core of a scene renderer.
//
// # Overview
//
// A single [backend.Backend] wraps one native OpenGL or OpenGL ES context
// and exposes typed, generation-tagged handles for buffers, textures,
// render targets, shaders and state objects. Operations the negotiated
// context cannot perform are gated by capability and degrade to sentinel
// results instead of failing.
//
// On top of the backend:
//   - resource: pooled textures and render targets with a memory budget
//   - shader: program sources, define injection and WGSL translation
//   - effect: a command interpreter running post-processing effects
//   - offscreen: per-frame rendering of registered offscreen renderers
//   - paths: tessellated geometry paths and stencil-painted paths
//   - render: the deferred render task list and state scopes
//   - iostream: file lookup through search directories and virtual
//     filesystems
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glrender/backend"
//	    _ "github.com/gogpu/glrender/backend/wgpu"
//	    "github.com/gogpu/glrender/effect"
//	    "github.com/gogpu/glrender/resource"
//	    "github.com/gogpu/glrender/shader"
//	)
//
//	b, err := backend.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rm := resource.NewManager(b, resource.Config{})
//	shaders := shader.NewManager(b, shader.Config{})
//	sys := effect.NewSystem(rm, shaders, effect.Config{})
//
// Without a native loader the null loader is selected: every operation
// is accepted and recorded, and no capability is reported.
//
// # Threading
//
// Backend and the managers built on it must be used from the thread that
// owns the native context. The render task list and path sub-path
// buffers are safe for concurrent use.
package glrender
