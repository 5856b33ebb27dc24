// Package effect runs screen-space post-processing effects.
//
// An effect class is a list of typed properties and an ordered list of
// commands. The System interprets the commands of an effect instance
// once per RenderEffect call, threading the current shader, render
// target, source texture, depth-stencil pass and MVP matrix from one
// command to the next:
//
//	AllocateBuffer{Name: "half", SizeMultiplier: 0.5}
//	BindBuffer{Name: "half"}
//	BindShader{Path: "blur.glsl", Define: "HORIZONTAL"}
//	ApplyInstanceValue{}
//	Render{}
//	BindTarget{}
//	BindShader{Path: "blur.glsl", Define: "VERTICAL"}
//	ApplyBufferValue{Buffer: "half"}
//	Render{}
//
// Each effect instance owns a Context caching the buffers, images and
// data buffers its commands allocate. Entries allocated with a frame
// lifetime are released when the invocation ends; scene lifetime
// entries persist and are cleared again on their first use of the next
// frame.
//
// Effect classes are registered in a Library, usually loaded from TOML
// files with LoadFile.
package effect
