// Package render holds the per-frame scheduling and scoping helpers shared
// by the offscreen manager, the effect system and the path manager.
//
// [TaskList] defers render work so that dependencies render before the
// nodes that reference them: tasks run last-added-first. [StateScope] and
// [TargetScope] restore backend state and framebuffer attachments when a
// nested render finishes.
package render
