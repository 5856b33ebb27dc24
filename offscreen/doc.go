// Package offscreen renders registered sub-scenes and overlays into pooled
// textures.
//
// A Renderer is registered under a key with
// Manager.RegisterOffscreenRenderer. Each frame the consumer asks for the
// texture with Manager.RenderedItem; the first request in a frame queues
// the render on the shared render.TaskList and later requests return the
// same texture. A renderer reporting no change since the previous frame
// keeps its texture and is not rendered again.
//
// Supersampled renders (AASSAA) draw at twice the requested size, capped
// by Config.MaxSSAADimension, and downsample with linear filtering.
// Multisampled renders (AAX2, AAX4) draw into multisample textures and are
// resolved with a framebuffer blit.
package offscreen
