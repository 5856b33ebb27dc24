// Package shader turns registered shader sources into linked programs.
//
// A Manager keeps the source of every shader path and compiles programs
// on demand for a (path, define, features, flags) combination. GLSL
// sources may hold several stages guarded by stage macros:
//
//	#ifdef VERTEX_SHADER
//	in vec2 attr_pos;
//	void main() { gl_Position = vec4(attr_pos, 0.0, 1.0); }
//	#endif
//	#ifdef FRAGMENT_SHADER
//	void main() { fragOutput = vec4(1.0); }
//	#endif
//
// Each stage is compiled with a version header matching the context
// tier, the stage macro, the define list and the enabled features.
// WGSL sources are translated to GLSL with naga, one entry point per
// stage; their defines become pipeline constants.
//
// Linked programs live in an LRU cache. Evicted programs are released,
// so callers look programs up every frame instead of keeping them.
package shader
