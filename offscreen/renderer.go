package offscreen

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/render"
)

// AAMode is the antialiasing applied to an offscreen render.
type AAMode uint8

// Antialiasing modes.
const (
	AANone AAMode = iota
	// AASSAA renders at twice the size and downsamples with linear
	// filtering.
	AASSAA
	// AAX2 and AAX4 render into multisampled textures and resolve.
	AAX2
	AAX4
)

// String returns the mode name.
func (m AAMode) String() string {
	switch m {
	case AANone:
		return "None"
	case AASSAA:
		return "SSAA"
	case AAX2:
		return "MSAA2x"
	case AAX4:
		return "MSAA4x"
	}
	return "Unknown"
}

// Samples returns the sample count of the render texture.
func (m AAMode) Samples() int {
	switch m {
	case AAX2:
		return 2
	case AAX4:
		return 4
	}
	return 1
}

// Environment is what a renderer needs from its render target.
type Environment struct {
	Width, Height int
	Format        backend.TextureFormat
	AA            AAMode
	// DepthStencil is the format of the depth attachment, or
	// FormatUnknown for none.
	DepthStencil backend.TextureFormat
	ClearColor   gputypes.Color
}

func (e Environment) sameTexture(o Environment) bool {
	return e.Width == o.Width && e.Height == o.Height && e.Format == o.Format
}

// Hints is a renderer's answer to NeedsRender.
type Hints struct {
	HasTransparency          bool
	HasChangedSinceLastFrame bool
}

// Result is the texture produced by a renderer.
type Result struct {
	Texture backend.TextureHandle
	Hints
}

// Renderer draws a sub-scene or overlay into a texture.
type Renderer interface {
	// DesiredEnvironment returns the target the renderer wants at the
	// presentation scale factor.
	DesiredEnvironment(scale float32) Environment
	// NeedsRender reports whether the content changed since the last
	// rendered frame.
	NeedsRender(env Environment, scale float32) Hints
	// Render draws into the bound target. env holds the actual render
	// size, which is larger than requested for AASSAA. Tasks queued on
	// tasks run after Render returns, later in the same frame; content
	// the render samples must be requested from NeedsRender.
	Render(env Environment, b *backend.Backend, scale float32, tasks *render.TaskList)
}
