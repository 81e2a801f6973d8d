package batch

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per chunk.
	DefaultBatchSize = 2000

	// MinBatchSize is the minimum allowed chunk size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed chunk size.
	MaxBatchSize = 100000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 100000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
	ErrCancelled        = errors.New("batch processing cancelled")
)

// BatchCallback is a function that processes a single chunk of items.
// It receives the chunk, its index (0-based), and returns an error if processing fails.
//
//nolint:revive // BatchCallback is the canonical name for this exported type.
type BatchCallback[T any] func(ctx context.Context, batch []T, batchIndex int) error

// ProgressCallback is an optional callback invoked after each chunk is processed.
type ProgressCallback func(progress *Progress)

// Yielder suspends the caller between chunks so other work can run. It is the
// only place, together with the chunk boundary itself, where cancellation is
// observed.
type Yielder func(ctx context.Context) error

// Gosched is the default Yielder: it hands the processor back to the Go
// scheduler once per chunk.
func Gosched(_ context.Context) error {
	runtime.Gosched()
	return nil
}

// Processor splits data into fixed-size chunks and processes them in order.
type Processor[T any] struct {
	// batchSize is the number of items per chunk.
	batchSize int

	// onProgress is an optional callback for progress updates.
	onProgress ProgressCallback

	// yield runs after every chunk.
	yield Yielder
}

// NewProcessor creates a new batch processor with the given chunk size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}

	return &Processor[T]{
		batchSize: batchSize,
		yield:     Gosched,
	}, nil
}

// NewProcessorWithDefaults creates a processor with the default chunk size.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{
		batchSize: DefaultBatchSize,
		yield:     Gosched,
	}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// WithYielder replaces the suspension step run after each chunk. A nil
// yielder restores Gosched.
func (p *Processor[T]) WithYielder(y Yielder) *Processor[T] {
	if y == nil {
		y = Gosched
	}
	p.yield = y
	return p
}

// Chunks returns an iterator over consecutive chunks of items, paired with
// their chunk index. The last chunk may be shorter than the chunk size.
func (p *Processor[T]) Chunks(items []T) iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		for i, bounds := range p.CalculateBatches(len(items)) {
			if !yield(i, items[bounds[0]:bounds[1]]) {
				return
			}
		}
	}
}

// Process runs callback over items chunk by chunk. Before each chunk, and once
// more after the final yield, it checks ctx; a cancelled context stops
// processing with ErrCancelled. Processing also stops on the first callback
// or yield error.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback BatchCallback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}

	if callback == nil {
		return ErrNilCallback
	}

	progress := NewProgress(len(items), p.calculateTotalBatches(len(items)), p.batchSize)

	for batchIndex, batch := range p.Chunks(items) {
		if err := checkCancelled(ctx); err != nil {
			return err
		}

		if err := callback(ctx, batch, batchIndex); err != nil {
			return fmt.Errorf("batch %d failed: %w", batchIndex, err)
		}

		progress.AddProcessed(len(batch))

		if p.onProgress != nil {
			p.onProgress(progress)
		}

		if err := p.yield(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %w", ErrCancelled, err)
			}
			return fmt.Errorf("yield after batch %d failed: %w", batchIndex, err)
		}
	}

	return checkCancelled(ctx)
}

// GetBatchSize returns the configured chunk size.
func (p *Processor[T]) GetBatchSize() int {
	return p.batchSize
}

// CalculateBatches returns the chunk boundaries for the given item count.
// Returns a slice of [start, end) index pairs.
func (p *Processor[T]) CalculateBatches(totalItems int) [][2]int {
	totalBatches := p.calculateTotalBatches(totalItems)
	batches := make([][2]int, totalBatches)

	for i := range totalBatches {
		start := i * p.batchSize
		end := min(start+p.batchSize, totalItems)
		batches[i] = [2]int{start, end}
	}

	return batches
}

// calculateTotalBatches calculates the number of chunks needed for the given item count.
func (p *Processor[T]) calculateTotalBatches(totalItems int) int {
	if totalItems <= 0 {
		return 0
	}
	batches := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		batches++
	}
	return batches
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
	default:
		return nil
	}
}
