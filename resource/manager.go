package resource

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
)

// Default limits.
const (
	// DefaultMaxMemoryMB is the default texture budget (256 MB).
	DefaultMaxMemoryMB = 256

	// DefaultEvictionThreshold is the usage fraction above which pooled
	// textures are evicted.
	DefaultEvictionThreshold = 0.8

	// MinMemoryMB is the smallest accepted budget.
	MinMemoryMB = 1
)

// Config configures a Manager. Zero fields take the defaults.
type Config struct {
	// MaxMemoryMB is the texture budget in megabytes.
	MaxMemoryMB int
	// EvictionThreshold is the usage fraction at which pooled textures
	// start being evicted, in (0, 1].
	EvictionThreshold float64
}

func (c Config) withDefaults() Config {
	if c.MaxMemoryMB < MinMemoryMB {
		c.MaxMemoryMB = DefaultMaxMemoryMB
	}
	if c.EvictionThreshold <= 0 || c.EvictionThreshold > 1 {
		c.EvictionThreshold = DefaultEvictionThreshold
	}
	return c
}

// TextureKey is the pool key of a texture. Two allocations with equal keys
// are interchangeable.
type TextureKey struct {
	Width, Height int
	Format        backend.TextureFormat
	Samples       int
	Immutable     bool
}

// Bytes is the storage size of a texture with this key.
func (k TextureKey) Bytes() uint64 {
	//nolint:gosec // G115: dimensions validated before allocation
	return uint64(k.Format.ImageSize(k.Width, k.Height) * max(k.Samples, 1))
}

type textureEntry struct {
	tex     backend.TextureHandle
	key     TextureKey
	size    uint64
	element *list.Element // position in the pool LRU while pooled
}

type renderbufferKey struct {
	format        backend.TextureFormat
	width, height int
}

// Image2D is a texture level bound for load/store access from shaders.
type Image2D struct {
	Texture backend.TextureHandle
	Access  backend.ImageAccess
	Format  backend.TextureFormat
	Level   int
}

// Bind binds the image to an image unit.
func (img *Image2D) Bind(b *backend.Backend, unit int) bool {
	return b.BindImageTexture(unit, img.Texture, img.Level, img.Access, img.Format)
}

// Manager pools GPU resources for one backend. It is safe for concurrent
// use, but the backend it calls is not: allocate from the render thread.
type Manager struct {
	mu sync.Mutex
	b  *backend.Backend

	budgetBytes uint64
	usedBytes   uint64
	pooledBytes uint64
	threshold   float64

	live map[backend.TextureHandle]*textureEntry
	pool map[TextureKey][]*textureEntry
	// lru orders pooled entries: front is the most recently released.
	lru *list.List

	freeTargets []backend.RenderTargetHandle
	liveTargets map[backend.RenderTargetHandle]struct{}

	freeRenderbuffers map[renderbufferKey][]backend.RenderbufferHandle
	liveRenderbuffers map[backend.RenderbufferHandle]renderbufferKey

	images map[*Image2D]struct{}

	hits, misses, evictions uint64
	closed                  bool
}

// NewManager creates a resource manager allocating through b.
func NewManager(b *backend.Backend, cfg Config) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		b: b,
		//nolint:gosec // G115: bounded below by MinMemoryMB
		budgetBytes:       uint64(cfg.MaxMemoryMB) * 1024 * 1024,
		threshold:         cfg.EvictionThreshold,
		live:              make(map[backend.TextureHandle]*textureEntry),
		pool:              make(map[TextureKey][]*textureEntry),
		lru:               list.New(),
		liveTargets:       make(map[backend.RenderTargetHandle]struct{}),
		freeRenderbuffers: make(map[renderbufferKey][]backend.RenderbufferHandle),
		liveRenderbuffers: make(map[backend.RenderbufferHandle]renderbufferKey),
		images:            make(map[*Image2D]struct{}),
	}
}

// RenderContext returns the backend the manager allocates from.
func (m *Manager) RenderContext() *backend.Backend { return m.b }

// AllocateTexture2D returns a texture of the given size and format,
// reusing a pooled one with the same key. samples > 1 allocates a
// multisampled texture; immutable allocates immutable storage usable as a
// shader image. It returns the null handle on failure.
func (m *Manager) AllocateTexture2D(width, height int, format backend.TextureFormat, samples int, immutable bool) backend.TextureHandle {
	tex, err := m.TryAllocateTexture2D(width, height, format, samples, immutable)
	if err != nil {
		slogger().Warn("texture allocation failed",
			"width", width, "height", height, "format", format.String(), "err", err)
	}
	return tex
}

// TryAllocateTexture2D is AllocateTexture2D reporting why an allocation
// failed.
func (m *Manager) TryAllocateTexture2D(width, height int, format backend.TextureFormat, samples int, immutable bool) (backend.TextureHandle, error) {
	if width <= 0 || height <= 0 {
		return backend.TextureHandle{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	key := TextureKey{Width: width, Height: height, Format: format, Samples: max(samples, 1), Immutable: immutable}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return backend.TextureHandle{}, ErrManagerClosed
	}
	if e := m.takePooledLocked(key); e != nil {
		m.hits++
		m.live[e.tex] = e
		slogger().Debug("texture reused", "texture", e.tex.String(), "width", width, "height", height)
		return e.tex, nil
	}
	m.misses++

	size := key.Bytes()
	if size > m.budgetBytes {
		return backend.TextureHandle{}, fmt.Errorf("%w: texture of %d bytes exceeds budget of %d bytes",
			ErrMemoryBudgetExceeded, size, m.budgetBytes)
	}
	if err := m.evictIfNeededLocked(size); err != nil {
		return backend.TextureHandle{}, err
	}

	tex, ok := m.createTexture(key)
	if !ok {
		return backend.TextureHandle{}, fmt.Errorf("%w: texture %dx%d %s", ErrAllocationFailed, width, height, format)
	}
	e := &textureEntry{tex: tex, key: key, size: size}
	m.live[tex] = e
	m.usedBytes += size
	return tex, nil
}

func (m *Manager) createTexture(key TextureKey) (backend.TextureHandle, bool) {
	b := m.b
	tex := b.CreateTexture()
	if tex.IsNull() {
		return tex, false
	}
	var ok bool
	switch {
	case key.Samples > 1:
		ok = b.SetMultisampledTextureData2D(tex, key.Samples, key.Format, key.Width, key.Height, true)
	case key.Immutable:
		ok = b.SetTextureStorage2D(tex, backend.Texture2D, 1, key.Format, key.Width, key.Height)
	default:
		swizzle := b.SetTextureData2D(tex, backend.Texture2D, 0, key.Format, key.Width, key.Height, 0, backend.FormatUnknown, nil)
		if swizzle != backend.NoSwizzle {
			b.UpdateTextureSwizzle(tex, swizzle)
		}
		ok = true
	}
	if !ok {
		b.ReleaseTexture(tex)
		return backend.TextureHandle{}, false
	}
	if key.Samples <= 1 {
		b.SetTextureSampling(tex, DefaultSampling())
	}
	return tex, true
}

// DefaultSampling is the sampling applied to new textures: linear
// filtering without mipmaps, clamped to the edge.
func DefaultSampling() gputypes.SamplerDescriptor {
	return gputypes.SamplerDescriptor{
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
	}
}

// takePooledLocked removes and returns a pooled entry for key. Caller
// must hold mu.
func (m *Manager) takePooledLocked(key TextureKey) *textureEntry {
	entries := m.pool[key]
	if len(entries) == 0 {
		return nil
	}
	e := entries[len(entries)-1]
	m.pool[key] = entries[:len(entries)-1]
	if len(m.pool[key]) == 0 {
		delete(m.pool, key)
	}
	m.lru.Remove(e.element)
	e.element = nil
	m.pooledBytes -= e.size
	return e
}

// ReleaseTexture returns a texture to the pool. Textures not allocated by
// the manager are released through the backend.
func (m *Manager) ReleaseTexture(tex backend.TextureHandle) {
	if tex.IsNull() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live[tex]
	if !ok || m.closed {
		m.b.ReleaseTexture(tex)
		return
	}
	delete(m.live, tex)
	e.element = m.lru.PushFront(e)
	m.pool[e.key] = append(m.pool[e.key], e)
	m.pooledBytes += e.size
	if err := m.evictIfNeededLocked(0); err != nil {
		slogger().Warn("over texture budget", "err", err)
	}
}

// evictIfNeededLocked deletes pooled textures, least recently released
// first, until requested more bytes fit below the eviction threshold. It
// fails when the request does not fit the budget once the pool is empty.
// Caller must hold mu.
func (m *Manager) evictIfNeededLocked(requested uint64) error {
	threshold := uint64(float64(m.budgetBytes) * m.threshold)
	for m.usedBytes+requested > threshold && m.lru.Len() > 0 {
		elem := m.lru.Back()
		e, ok := elem.Value.(*textureEntry)
		m.lru.Remove(elem)
		if !ok {
			continue
		}
		e.element = nil
		m.dropPooledLocked(e)
		m.b.ReleaseTexture(e.tex)
		m.usedBytes -= e.size
		m.pooledBytes -= e.size
		m.evictions++
		slogger().Debug("pooled texture evicted", "texture", e.tex.String(), "bytes", e.size)
	}
	if m.usedBytes+requested > m.budgetBytes {
		return fmt.Errorf("%w: need %d bytes, have %d bytes available",
			ErrMemoryBudgetExceeded, requested, m.budgetBytes-min(m.usedBytes, m.budgetBytes))
	}
	return nil
}

// dropPooledLocked removes e from its pool bucket. Caller must hold mu.
func (m *Manager) dropPooledLocked(e *textureEntry) {
	entries := m.pool[e.key]
	for i, p := range entries {
		if p == e {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(m.pool, e.key)
	} else {
		m.pool[e.key] = entries
	}
}

// TextureKeyOf returns the pool key of a live texture.
func (m *Manager) TextureKeyOf(tex backend.TextureHandle) (TextureKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live[tex]
	if !ok {
		return TextureKey{}, false
	}
	return e.key, true
}

// AllocateFrameBuffer returns an empty render target, reusing a released
// one when available.
func (m *Manager) AllocateFrameBuffer() backend.RenderTargetHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return backend.RenderTargetHandle{}
	}
	var rt backend.RenderTargetHandle
	if n := len(m.freeTargets); n > 0 {
		rt = m.freeTargets[n-1]
		m.freeTargets = m.freeTargets[:n-1]
	} else {
		rt = m.b.CreateRenderTarget()
		if rt.IsNull() {
			return rt
		}
	}
	m.liveTargets[rt] = struct{}{}
	return rt
}

// ReleaseFrameBuffer detaches everything attached to rt and returns it to
// the pool.
func (m *Manager) ReleaseFrameBuffer(rt backend.RenderTargetHandle) {
	if rt.IsNull() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.liveTargets[rt]; !ok || m.closed {
		m.b.ReleaseRenderTarget(rt)
		return
	}
	delete(m.liveTargets, rt)
	for att := backend.AttachColor0; att <= backend.AttachDepthStencil; att++ {
		m.b.RenderTargetDetach(rt, att)
	}
	if m.b.RenderTarget() == rt {
		m.b.SetRenderTarget(backend.RenderTargetHandle{})
	}
	m.freeTargets = append(m.freeTargets, rt)
}

// AllocateRenderBuffer returns a renderbuffer of the given format and
// size, reusing a released one with the same parameters.
func (m *Manager) AllocateRenderBuffer(format backend.TextureFormat, width, height int) backend.RenderbufferHandle {
	key := renderbufferKey{format: format, width: width, height: height}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return backend.RenderbufferHandle{}
	}
	var rb backend.RenderbufferHandle
	if free := m.freeRenderbuffers[key]; len(free) > 0 {
		rb = free[len(free)-1]
		m.freeRenderbuffers[key] = free[:len(free)-1]
	} else {
		rb = m.b.CreateRenderbuffer(format, width, height)
		if rb.IsNull() {
			return rb
		}
	}
	m.liveRenderbuffers[rb] = key
	return rb
}

// ReleaseRenderBuffer returns a renderbuffer to the pool.
func (m *Manager) ReleaseRenderBuffer(rb backend.RenderbufferHandle) {
	if rb.IsNull() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.liveRenderbuffers[rb]
	if !ok || m.closed {
		m.b.ReleaseRenderbuffer(rb)
		return
	}
	delete(m.liveRenderbuffers, rb)
	m.freeRenderbuffers[key] = append(m.freeRenderbuffers[key], rb)
}

// AllocateImage2D wraps level 0 of tex as a shader image. The texture
// stays owned by the caller.
func (m *Manager) AllocateImage2D(tex backend.TextureHandle, access backend.ImageAccess) *Image2D {
	details, ok := m.b.TextureDetails(tex)
	if !ok {
		slogger().Error("image over unknown texture", "texture", tex.String())
		return nil
	}
	img := &Image2D{Texture: tex, Access: access, Format: details.Format}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[img] = struct{}{}
	return img
}

// ReleaseImage2D forgets an image. Its texture is not released.
func (m *Manager) ReleaseImage2D(img *Image2D) {
	if img == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, img)
}

// Purge deletes every pooled resource.
func (m *Manager) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()
}

func (m *Manager) purgeLocked() {
	for elem := m.lru.Back(); elem != nil; elem = m.lru.Back() {
		m.lru.Remove(elem)
		if e, ok := elem.Value.(*textureEntry); ok {
			m.b.ReleaseTexture(e.tex)
			m.usedBytes -= e.size
		}
	}
	clear(m.pool)
	m.pooledBytes = 0
	for _, rt := range m.freeTargets {
		m.b.ReleaseRenderTarget(rt)
	}
	m.freeTargets = nil
	for key, free := range m.freeRenderbuffers {
		for _, rb := range free {
			m.b.ReleaseRenderbuffer(rb)
		}
		delete(m.freeRenderbuffers, key)
	}
}

// Release deletes every resource, live or pooled. Later releases go
// straight to the backend and allocations fail.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.purgeLocked()
	for tex := range m.live {
		m.b.ReleaseTexture(tex)
	}
	clear(m.live)
	for rt := range m.liveTargets {
		m.b.ReleaseRenderTarget(rt)
	}
	clear(m.liveTargets)
	for rb := range m.liveRenderbuffers {
		m.b.ReleaseRenderbuffer(rb)
	}
	clear(m.liveRenderbuffers)
	clear(m.images)
	m.usedBytes = 0
	m.closed = true
}

// Stats returns pool statistics.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	pooledTargets := len(m.freeTargets)
	var util float64
	if m.budgetBytes > 0 {
		util = float64(m.usedBytes) / float64(m.budgetBytes)
	}
	return Stats{
		TotalBytes:         m.budgetBytes,
		UsedBytes:          m.usedBytes,
		PooledBytes:        m.pooledBytes,
		LiveTextures:       len(m.live),
		PooledTextures:     m.lru.Len(),
		LiveFrameBuffers:   len(m.liveTargets),
		PooledFrameBuffers: pooledTargets,
		LiveRenderBuffers:  len(m.liveRenderbuffers),
		LiveImages:         len(m.images),
		Hits:               m.hits,
		Misses:             m.misses,
		EvictionCount:      m.evictions,
		Utilization:        util,
	}
}
