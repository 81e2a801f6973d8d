package batch

import (
	"sync"
	"time"
)

// percentMultiplier converts a ratio to a percentage (0-100).
const percentMultiplier = 100

// Progress tracks how far a chunked run has advanced. It is safe to read from
// another goroutine while the processor updates it.
type Progress struct {
	// TotalItems is the total number of items to process.
	TotalItems int

	// ProcessedItems is the number of items processed so far.
	ProcessedItems int

	// TotalBatches is the total number of chunks.
	TotalBatches int

	// ProcessedBatches is the number of chunks processed so far.
	ProcessedBatches int

	// BatchSize is the configured chunk size.
	BatchSize int

	// StartTime is when processing started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time

	mu sync.RWMutex
}

// ProgressSnapshot is an immutable copy of a Progress.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartTime        time.Time
	LastUpdateTime   time.Time
	PercentComplete  float64
	ElapsedTime      time.Duration
	ItemsPerSecond   float64
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems, totalBatches, batchSize int) *Progress {
	now := time.Now()
	return &Progress{
		TotalItems:     totalItems,
		TotalBatches:   totalBatches,
		BatchSize:      batchSize,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddProcessed records one finished chunk of itemsProcessed items.
func (p *Progress) AddProcessed(itemsProcessed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProcessedItems += itemsProcessed
	p.ProcessedBatches++
	p.LastUpdateTime = time.Now()
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percentLocked()
}

// IsComplete returns true if all items have been processed.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ProcessedItems >= p.TotalItems
}

// ElapsedTime returns the time elapsed since processing started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Since(p.StartTime)
}

// EstimatedTimeRemaining extrapolates the remaining time from the average
// time per item so far. Returns 0 before the first chunk finishes.
func (p *Progress) EstimatedTimeRemaining() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.ProcessedItems == 0 {
		return 0
	}

	perItem := time.Since(p.StartTime) / time.Duration(p.ProcessedItems)
	return perItem * time.Duration(p.TotalItems-p.ProcessedItems)
}

// ItemsPerSecond returns the processing rate in items per second.
func (p *Progress) ItemsPerSecond() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rateLocked()
}

// Snapshot returns a copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalItems:       p.TotalItems,
		ProcessedItems:   p.ProcessedItems,
		TotalBatches:     p.TotalBatches,
		ProcessedBatches: p.ProcessedBatches,
		BatchSize:        p.BatchSize,
		StartTime:        p.StartTime,
		LastUpdateTime:   p.LastUpdateTime,
		PercentComplete:  p.percentLocked(),
		ElapsedTime:      time.Since(p.StartTime),
		ItemsPerSecond:   p.rateLocked(),
	}
}

// Reset zeroes the counters and restarts the clock.
func (p *Progress) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.ProcessedItems = 0
	p.ProcessedBatches = 0
	p.StartTime = now
	p.LastUpdateTime = now
}

// Must be called with mu held.
func (p *Progress) percentLocked() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return float64(p.ProcessedItems) * percentMultiplier / float64(p.TotalItems)
}

// Must be called with mu held.
func (p *Progress) rateLocked() float64 {
	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / elapsed
}
