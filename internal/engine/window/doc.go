// Package window computes which slice of a long list is visible inside a
// scrolling viewport.
//
// The engine is pure and synchronous: callers report a scroll offset and a
// viewport height, and receive an index range plus the offset at which each
// visible item should be drawn. Key pieces:
//   - OffsetTable: cumulative offsets built once per item count / height rule
//   - ComputeVisibleRange: arithmetic for fixed heights, binary search otherwise
//   - List: a host-facing wrapper that caches the table across scroll events
//
// Rendering is the host's job; the engine never touches a screen.
package window
