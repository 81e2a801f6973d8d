// Package batch processes large datasets in fixed-size chunks with a
// cooperative suspension point after each chunk.
//
// Key features:
//   - Configurable chunk size (default 2000 items per chunk)
//   - Chunks exposed as an iterator, processed strictly in order
//   - Progress tracking with callbacks for UI updates
//   - Cancellation observed only between chunks, never mid-chunk
//
// The yield after each chunk is where a caller's UI gets to redraw progress and
// where a cancel request takes effect. A larger chunk size trades responsiveness
// to cancellation for throughput.
package batch
