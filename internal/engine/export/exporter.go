package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/batch"
	"github.com/rshade/resinhook/internal/logging"
	"github.com/rshade/resinhook/internal/xlsx"
)

// streamingCeiling caps progress until the document has been delivered.
const streamingCeiling = 99

// Exporter runs export jobs one at a time. Starting a new job supersedes the
// active one. All methods are safe for concurrent use.
type Exporter struct {
	deliverer xlsx.Deliverer
	logger    zerolog.Logger
	now       func() time.Time

	mu        sync.Mutex
	state     State
	gen       uint64
	cancel    context.CancelFunc
	listeners map[int]func(State)
	nextID    int
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger used for job lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logging.ComponentLogger(l, "export")
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter returns an idle Exporter that hands finished documents to d.
func NewExporter(d xlsx.Deliverer, opts ...Option) *Exporter {
	e := &Exporter{
		deliverer: d,
		logger:    zerolog.Nop(),
		now:       time.Now,
		state:     State{Status: StatusIdle},
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current snapshot.
func (e *Exporter) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers fn to receive every state change. fn runs on the
// goroutine that caused the change, outside the exporter's lock.
func (e *Exporter) Subscribe(fn func(State)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Cancel asks the active job to stop at its next chunk boundary. It does
// nothing when no job is running.
func (e *Exporter) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Reset cancels any active job and returns the exporter to idle. Writes from
// the cancelled job are discarded.
func (e *Exporter) Reset() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
	e.state = State{Status: StatusIdle}
	snapshot, listeners := e.state, e.listenersLocked()
	e.mu.Unlock()

	notify(listeners, snapshot)
}

// Export runs one job to a terminal state and returns that state. It never
// panics and never returns an error: failures end in StatusError, and
// cancellation or supersession ends in StatusCancelled.
func (e *Exporter) Export(ctx context.Context, src Source, opts Options) State {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	j := e.begin(cancel, opts)
	return j.run(jobCtx, src)
}

func (e *Exporter) begin(cancel context.CancelFunc, opts Options) *job {
	id := ulid.Make().String()

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	e.cancel = cancel
	e.state = State{
		JobID:     id,
		Status:    StatusLoading,
		Filename:  xlsx.FileName(opts.filename()),
		StartedAt: e.now(),
	}
	j := &job{
		exporter: e,
		gen:      e.gen,
		opts:     opts,
		state:    e.state,
		log:      e.logger.With().Str("job_id", id).Logger(),
	}
	listeners := e.listenersLocked()
	e.mu.Unlock()

	notify(listeners, j.state)
	return j
}

// publish stores s as the exporter state when gen is still current. Stale
// jobs are ignored.
func (e *Exporter) publish(gen uint64, s State) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.state = s
	if s.Status.Terminal() {
		e.cancel = nil
	}
	listeners := e.listenersLocked()
	e.mu.Unlock()

	notify(listeners, s)
}

func (e *Exporter) listenersLocked() []func(State) {
	out := make([]func(State), 0, len(e.listeners))
	for i := range e.nextID {
		if fn, ok := e.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}

// job holds the private state of one Export call.
type job struct {
	exporter *Exporter
	gen      uint64
	opts     Options
	state    State
	log      zerolog.Logger
}

func (j *job) set(mutate func(*State)) {
	mutate(&j.state)
	j.exporter.publish(j.gen, j.state)
}

func (j *job) run(ctx context.Context, src Source) (final State) {
	defer func() {
		if r := recover(); r != nil {
			final = j.fail(fmt.Errorf("export panicked: %v", r))
		}
	}()

	j.log.Info().
		Bool("producer", src.IsProducer()).
		Int("chunk_size", j.opts.chunkSize()).
		Msg("export started")

	rows, err := src.load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return j.cancelled()
		}
		return j.fail(err)
	}
	if ctx.Err() != nil {
		return j.cancelled()
	}
	if len(rows) == 0 {
		return j.fail(ErrEmptyData)
	}

	j.set(func(s *State) {
		s.Status = StatusResolving
		s.RowsTotal = len(rows)
	})

	plan, err := ResolveColumns(rows[0], j.opts)
	if err != nil {
		return j.fail(err)
	}

	doc, err := j.write(ctx, rows, plan)
	if err != nil {
		if errors.Is(err, batch.ErrCancelled) {
			return j.cancelled()
		}
		return j.fail(err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			j.log.Warn().Err(cerr).Msg("closing workbook")
		}
	}()

	return j.deliver(ctx, doc)
}

// write streams header and data rows into a new workbook. On success the
// caller owns the returned document.
func (j *job) write(ctx context.Context, rows []*dataset.Row, plan ColumnPlan) (*excelize.File, error) {
	layout := plan.Layout()

	b, err := xlsx.NewBuilder(j.opts.sheetName())
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Discard() }()

	if err = b.WriteHeader(layout.Rows, layout.Merges); err != nil {
		return nil, err
	}

	proc, err := batch.NewProcessor[*dataset.Row](j.opts.chunkSize())
	if err != nil {
		return nil, err
	}
	proc.WithYielder(j.opts.Yielder).WithProgressCallback(func(p *batch.Progress) {
		snap := p.Snapshot()
		j.set(func(s *State) {
			s.RowsProcessed = snap.ProcessedItems
			s.Progress = min(snap.PercentComplete, streamingCeiling)
		})
	})

	j.set(func(s *State) { s.Status = StatusStreaming })

	err = proc.Process(ctx, rows, func(_ context.Context, chunk []*dataset.Row, idx int) error {
		cells := make([][]any, len(chunk))
		for i, r := range chunk {
			cells[i] = dataset.Cells(r, layout.DataKeys)
		}
		j.log.Debug().Int("chunk", idx).Int("rows", len(chunk)).Msg("chunk written")
		return b.AppendRows(cells)
	})
	if err != nil {
		return nil, err
	}

	j.set(func(s *State) { s.Status = StatusFinalizing })
	return b.Finalize()
}

func (j *job) deliver(ctx context.Context, doc *excelize.File) State {
	if err := j.exporter.deliverer.Deliver(ctx, doc, j.state.Filename, j.opts.sheetName()); err != nil {
		return j.fail(&DeliveryError{Filename: j.state.Filename, Err: err})
	}

	j.set(func(s *State) {
		s.Status = StatusDone
		s.Progress = 100
		s.FinishedAt = j.exporter.now()
	})
	j.log.Info().
		Int("rows", j.state.RowsTotal).
		Str("filename", j.state.Filename).
		Dur("elapsed", j.state.Duration()).
		Msg("export finished")
	return j.state
}

func (j *job) cancelled() State {
	j.set(func(s *State) {
		s.Status = StatusCancelled
		s.Progress = 0
		s.Err = nil
		s.Message = ""
		s.FinishedAt = j.exporter.now()
	})
	j.log.Info().Int("rows", j.state.RowsProcessed).Msg("export cancelled")
	return j.state
}

func (j *job) fail(err error) State {
	j.set(func(s *State) {
		s.Status = StatusError
		s.Err = err
		s.Message = err.Error()
		s.FinishedAt = j.exporter.now()
	})
	j.log.Error().Err(err).Int("rows", j.state.RowsProcessed).Msg("export failed")
	return j.state
}
