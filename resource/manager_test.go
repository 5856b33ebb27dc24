package resource

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/iostream"
)

func newManager(t *testing.T, major, minor int, cfg Config) (*Manager, *backend.NullFunctions) {
	t.Helper()
	f := backend.SurfaceFormat{API: backend.OpenGLES, Major: major, Minor: minor}
	nf := backend.NewNullFunctions(f)
	b := backend.New(nf, f)
	nf.Reset()
	return NewManager(b, cfg), nf
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	assert.Equal(t, DefaultMaxMemoryMB, c.MaxMemoryMB)
	assert.InDelta(t, DefaultEvictionThreshold, c.EvictionThreshold, 1e-9)

	c = Config{MaxMemoryMB: 64, EvictionThreshold: 1.5}.withDefaults()
	assert.Equal(t, 64, c.MaxMemoryMB)
	assert.InDelta(t, DefaultEvictionThreshold, c.EvictionThreshold, 1e-9)
}

func TestAllocateTexture2DReusesPooled(t *testing.T) {
	m, nf := newManager(t, 3, 0, Config{})

	a := m.AllocateTexture2D(128, 64, backend.FormatRGBA8, 1, false)
	require.False(t, a.IsNull())
	m.ReleaseTexture(a)
	assert.Equal(t, 1, nf.Live("texture"), "released texture must stay pooled")

	nf.Reset()
	b := m.AllocateTexture2D(128, 64, backend.FormatRGBA8, 1, false)
	assert.Equal(t, a, b)
	assert.Zero(t, nf.Calls("GenTextures"), "pool hit must not create a texture")

	c := m.AllocateTexture2D(128, 64, backend.FormatRGBA16F, 1, false)
	assert.NotEqual(t, b, c, "a different format must not reuse the pooled texture")

	s := m.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(2), s.Misses)
	assert.Equal(t, 2, s.LiveTextures)
	assert.Zero(t, s.PooledTextures)
}

func TestAllocateTexture2DKeyIncludesImmutability(t *testing.T) {
	m, _ := newManager(t, 3, 0, Config{})
	a := m.AllocateTexture2D(32, 32, backend.FormatRGBA8, 1, true)
	require.False(t, a.IsNull())
	m.ReleaseTexture(a)

	b := m.AllocateTexture2D(32, 32, backend.FormatRGBA8, 1, false)
	assert.NotEqual(t, a, b)

	key, ok := m.TextureKeyOf(b)
	require.True(t, ok)
	assert.Equal(t, TextureKey{Width: 32, Height: 32, Format: backend.FormatRGBA8, Samples: 1}, key)
}

func TestAllocateTexture2DUnsupported(t *testing.T) {
	m, nf := newManager(t, 3, 0, Config{})

	ms := m.AllocateTexture2D(64, 64, backend.FormatRGBA8, 4, false)
	assert.True(t, ms.IsNull(), "multisample textures need ES 3.1")
	assert.Zero(t, nf.Live("texture"), "failed allocation must release its texture")

	gles2, _ := newManager(t, 2, 0, Config{})
	img := gles2.AllocateTexture2D(64, 64, backend.FormatRGBA8, 1, true)
	assert.True(t, img.IsNull(), "immutable storage needs ES 3.0")

	_, err := m.TryAllocateTexture2D(0, 10, backend.FormatRGBA8, 1, false)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestEvictionReleasesLeastRecentlyPooled(t *testing.T) {
	m, nf := newManager(t, 3, 0, Config{MaxMemoryMB: 1})

	a := m.AllocateTexture2D(256, 256, backend.FormatRGBA8, 1, false) // 256 KiB
	b := m.AllocateTexture2D(256, 256, backend.FormatR8, 1, false)    // 64 KiB
	m.ReleaseTexture(a)
	m.ReleaseTexture(b)
	require.Equal(t, 2, m.Stats().PooledTextures)

	// 512 KiB more crosses 80% of the budget; dropping a is enough.
	c := m.AllocateTexture2D(256, 256, backend.FormatRGBA16F, 1, false)
	require.False(t, c.IsNull())

	s := m.Stats()
	assert.Equal(t, uint64(1), s.EvictionCount)
	assert.Equal(t, 1, s.PooledTextures)
	assert.Equal(t, 2, nf.Live("texture"))

	again := m.AllocateTexture2D(256, 256, backend.FormatR8, 1, false)
	assert.Equal(t, b, again, "b must still be pooled")
}

func TestBudgetExceeded(t *testing.T) {
	m, _ := newManager(t, 3, 0, Config{MaxMemoryMB: 1})

	_, err := m.TryAllocateTexture2D(1024, 1024, backend.FormatRGBA8, 1, false)
	assert.ErrorIs(t, err, ErrMemoryBudgetExceeded)

	full := m.AllocateTexture2D(512, 512, backend.FormatRGBA8, 1, false)
	require.False(t, full.IsNull())
	_, err = m.TryAllocateTexture2D(16, 16, backend.FormatRGBA8, 1, false)
	assert.ErrorIs(t, err, ErrMemoryBudgetExceeded, "live textures are never evicted")

	m.ReleaseTexture(full)
	_, err = m.TryAllocateTexture2D(16, 16, backend.FormatRGBA8, 1, false)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), m.Stats().EvictionCount)
}

func TestFrameBufferPoolDetaches(t *testing.T) {
	m, nf := newManager(t, 3, 0, Config{})
	b := m.RenderContext()

	rt := m.AllocateFrameBuffer()
	require.False(t, rt.IsNull())
	tex := m.AllocateTexture2D(16, 16, backend.FormatRGBA8, 1, false)
	b.RenderTargetAttachTexture(rt, backend.AttachColor0, tex, backend.Texture2D)
	b.SetRenderTarget(rt)

	m.ReleaseFrameBuffer(rt)
	att, _ := b.RenderTargetAttachment(rt, backend.AttachColor0)
	assert.True(t, att.IsNull(), "pooled framebuffer must not keep attachments")
	assert.True(t, b.RenderTarget().IsNull())

	nf.Reset()
	again := m.AllocateFrameBuffer()
	assert.Equal(t, rt, again)
	assert.Zero(t, nf.Calls("GenFramebuffers"))
	assert.Equal(t, 1, m.Stats().LiveFrameBuffers)
}

func TestRenderBufferPool(t *testing.T) {
	m, nf := newManager(t, 3, 0, Config{})
	rb := m.AllocateRenderBuffer(backend.FormatDepth24Stencil8, 64, 64)
	require.False(t, rb.IsNull())
	m.ReleaseRenderBuffer(rb)

	other := m.AllocateRenderBuffer(backend.FormatDepth16, 64, 64)
	assert.NotEqual(t, rb, other)
	same := m.AllocateRenderBuffer(backend.FormatDepth24Stencil8, 64, 64)
	assert.Equal(t, rb, same)
	assert.Equal(t, 2, nf.Live("renderbuffer"))
}

func TestImage2D(t *testing.T) {
	m, nf := newManager(t, 3, 1, Config{})
	tex := m.AllocateTexture2D(32, 32, backend.FormatRGBA8, 1, true)
	img := m.AllocateImage2D(tex, backend.AccessReadWrite)
	require.NotNil(t, img)
	assert.Equal(t, backend.FormatRGBA8, img.Format)
	assert.Equal(t, 1, m.Stats().LiveImages)

	assert.True(t, img.Bind(m.RenderContext(), 0))
	assert.Equal(t, 1, nf.Calls("BindImageTexture"))

	m.ReleaseImage2D(img)
	assert.Zero(t, m.Stats().LiveImages)
	assert.Nil(t, m.AllocateImage2D(backend.TextureHandle{}, backend.AccessRead))
}

func TestReleaseDeletesEverything(t *testing.T) {
	m, nf := newManager(t, 3, 0, Config{})
	m.AllocateTexture2D(8, 8, backend.FormatRGBA8, 1, false)
	m.ReleaseTexture(m.AllocateTexture2D(16, 16, backend.FormatRGBA8, 1, false))
	m.AllocateFrameBuffer()
	m.ReleaseFrameBuffer(m.AllocateFrameBuffer())
	m.AllocateRenderBuffer(backend.FormatDepth16, 8, 8)

	m.Release()
	assert.Zero(t, nf.Live("texture"))
	assert.Zero(t, nf.Live("framebuffer"))
	assert.Zero(t, nf.Live("renderbuffer"))
	assert.Zero(t, m.Stats().UsedBytes)

	_, err := m.TryAllocateTexture2D(8, 8, backend.FormatRGBA8, 1, false)
	assert.ErrorIs(t, err, ErrManagerClosed)
}

func checkerboard() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := range 2 {
		for x := range 4 {
			img.Set(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 200), A: 255})
		}
	}
	return img
}

func TestUploadImage(t *testing.T) {
	m, nf := newManager(t, 3, 0, Config{})
	tex := m.UploadImage(checkerboard(), UploadOptions{FlipY: true, Mipmaps: true})
	require.False(t, tex.IsNull())

	details, ok := m.RenderContext().TextureDetails(tex)
	require.True(t, ok)
	assert.Equal(t, 4, details.Width)
	assert.Equal(t, 2, details.Height)
	assert.Equal(t, backend.FormatRGBA8, details.Format)
	assert.Equal(t, 1, nf.Calls("TexSubImage2D"))
	assert.Equal(t, 1, nf.Calls("GenerateMipmap"))
}

func TestToRGBAScalesToMaxSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	got := toRGBA(img, 200)
	assert.Equal(t, image.Rect(0, 0, 200, 50), got.Rect)

	assert.Same(t, img, toRGBA(img, 0), "packed RGBA input is used as is")
}

func TestFlipRows(t *testing.T) {
	pix := []byte{1, 1, 2, 2, 3, 3}
	assert.Equal(t, []byte{3, 3, 2, 2, 1, 1}, flipRows(pix, 2, 3))
}

func TestLoadTexture(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checkerboard()))

	f := iostream.NewFactory()
	f.AddFS(":/", fstest.MapFS{
		"tex/checker.png": {Data: buf.Bytes()},
		"tex/broken.png":  {Data: []byte("not an image")},
	})

	m, _ := newManager(t, 3, 0, Config{})
	tex, err := m.LoadTexture(f, ":/tex/checker.png", UploadOptions{})
	require.NoError(t, err)
	assert.False(t, tex.IsNull())

	_, err = m.LoadTexture(f, ":/tex/missing.png", UploadOptions{})
	assert.ErrorIs(t, err, iostream.ErrNotFound)

	_, err = m.LoadTexture(f, ":/tex/broken.png", UploadOptions{})
	assert.Error(t, err)
}
