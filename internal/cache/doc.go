// Package cache provides a generic LRU cache with an eviction callback.
//
// The callback lets owners of native resources release them when an
// entry falls out of the cache:
//
//	c := cache.New[string, *Program](64)
//	c.OnEvict(func(key string, p *Program) { p.Release() })
//	c.Set("blur", prog)
//	p, ok := c.Get("blur")
//
// Cache is safe for concurrent use, but the eviction callback runs with
// the cache lock held and must not call back into the cache.
package cache
