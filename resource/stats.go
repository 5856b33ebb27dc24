package resource

import "fmt"

// Stats describes pool usage.
type Stats struct {
	// TotalBytes is the memory budget.
	TotalBytes uint64
	// UsedBytes counts live and pooled textures.
	UsedBytes uint64
	// PooledBytes counts pooled textures only.
	PooledBytes uint64

	LiveTextures       int
	PooledTextures     int
	LiveFrameBuffers   int
	PooledFrameBuffers int
	LiveRenderBuffers  int
	LiveImages         int

	// Hits and Misses count texture allocations served from the pool
	// and from the backend.
	Hits, Misses  uint64
	EvictionCount uint64

	// Utilization is UsedBytes / TotalBytes.
	Utilization float64
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Resources[%.1f%% used, %d/%d MB, %d live + %d pooled textures, %d hits, %d misses, %d evictions]",
		s.Utilization*100,
		s.UsedBytes/(1024*1024),
		s.TotalBytes/(1024*1024),
		s.LiveTextures, s.PooledTextures,
		s.Hits, s.Misses, s.EvictionCount)
}
