// Package resource pools the GPU textures, framebuffers and renderbuffers
// borrowed by the effect system and the offscreen manager.
//
// Released textures are not deleted: they return to a pool keyed by
// (width, height, format, samples, immutable) and the next allocation with
// the same key reuses them. Pooled textures count against a memory budget
// and are evicted least recently released first once usage crosses the
// eviction threshold.
//
//	m := resource.NewManager(b, resource.Config{MaxMemoryMB: 128})
//	tex := m.AllocateTexture2D(512, 512, backend.FormatRGBA8, 1, false)
//	defer m.ReleaseTexture(tex)
package resource
