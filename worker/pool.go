// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/filterx-core/allocator"
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/logging"
	"github.com/stacklok/filterx-core/object"
	"github.com/stacklok/filterx-core/program"
	"github.com/stacklok/filterx-core/recovery"
)

var (
	// ErrMultipleWorkers is returned when a tracer is installed on a pool
	// with more than one worker.
	ErrMultipleWorkers = errors.New("tracing requires a single worker")
	// ErrNotPaused is returned when a tracer is installed on a running pool.
	ErrNotPaused = errors.New("tracing can only be changed while the pool is paused")
)

// Record is one input record. Seq is the position in the input stream.
type Record struct {
	Seq  int
	Data *object.Dict
}

// Outcome is the result of processing one record. Err is set when the pass
// panicked; Result then carries no verdict.
type Outcome struct {
	Seq    int
	Record *object.Dict
	Result program.Result
	Err    error
}

// Stats counts processed records by outcome.
type Stats struct {
	Accepted int64
	Dropped  int64
	Failed   int64
}

// Pool evaluates records on a fixed number of goroutines.
type Pool struct {
	program  *program.Program
	workers  int
	areaSize int
	logger   *slog.Logger

	// gate is held for reading while a record is evaluated and for
	// writing while the pool is paused.
	gate   sync.RWMutex
	paused atomic.Bool
	tracer eval.Tracer

	accepted atomic.Int64
	dropped  atomic.Int64
	failed   atomic.Int64
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the number of worker goroutines. Values below one are
// ignored.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithAreaSize sets the allocator area size of each worker.
func WithAreaSize(size int) Option {
	return func(p *Pool) {
		if size > 0 {
			p.areaSize = size
		}
	}
}

// WithLogger sets the logger receiving per-record diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a pool running prog. The pool does not own prog.
func New(prog *program.Program, opts ...Option) *Pool {
	p := &Pool{
		program:  prog,
		workers:  1,
		areaSize: allocator.DefaultAreaSize,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// Run processes records from in until it is closed or ctx is done, sending
// one outcome per record to out. Outcomes of different workers may be
// reordered. Run does not close out.
func (p *Pool) Run(ctx context.Context, in <-chan Record, out chan<- Outcome) error {
	g, ctx := errgroup.WithContext(ctx)
	for id := range p.workers {
		g.Go(func() error {
			return p.work(ctx, id, in, out)
		})
	}
	return g.Wait()
}

func (p *Pool) newContext() *eval.Context {
	return eval.NewContext(eval.WithAllocator(allocator.New(allocator.WithAreaSize(p.areaSize))))
}

func (p *Pool) work(ctx context.Context, id int, in <-chan Record, out chan<- Outcome) error {
	logger := p.logger.With(slog.Int("worker", id))
	evalCtx := p.newContext()
	defer func() {
		s := evalCtx.Allocator().Stats()
		logger.Debug("worker stopped",
			slog.Int("areas", s.Areas),
			slog.Int("reserved", s.Reserved))
		evalCtx.Close()
	}()

	for {
		var rec Record
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-in:
			if !ok {
				return nil
			}
			rec = r
		}

		outcome := p.process(evalCtx, rec)
		if outcome.Err != nil {
			// the pass was abandoned mid-way; start over with clean state
			evalCtx.Close()
			evalCtx = p.newContext()
		}
		p.report(logger, outcome)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- outcome:
		}
	}
}

func (p *Pool) process(evalCtx *eval.Context, rec Record) Outcome {
	p.gate.RLock()
	defer p.gate.RUnlock()

	evalCtx.SetTracer(p.tracer)
	outcome := Outcome{Seq: rec.Seq, Record: rec.Data}
	outcome.Err = recovery.Guard(func() error {
		outcome.Result = p.program.Run(evalCtx, rec.Data)
		return nil
	})
	return outcome
}

func (p *Pool) report(logger *slog.Logger, o Outcome) {
	switch {
	case o.Err != nil:
		p.failed.Add(1)
		logger.Error("record evaluation panicked", slog.Int("seq", o.Seq), slog.Any("error", o.Err))
	case o.Result.Verdict == program.Accept:
		p.accepted.Add(1)
	case o.Result.Verdict == program.Drop:
		p.dropped.Add(1)
		logger.Debug("record dropped", slog.Int("seq", o.Seq), logging.DiagnosticAttrs(o.Result.Errors))
	default:
		p.failed.Add(1)
		logger.Debug("record failed", slog.Int("seq", o.Seq), logging.DiagnosticAttrs(o.Result.Errors))
	}
}

// Stats returns the number of records processed so far.
func (p *Pool) Stats() Stats {
	return Stats{
		Accepted: p.accepted.Load(),
		Dropped:  p.dropped.Load(),
		Failed:   p.failed.Load(),
	}
}

// Pause waits for in-flight records to finish and stops workers from
// starting new ones until Resume is called.
func (p *Pool) Pause() {
	p.gate.Lock()
	p.paused.Store(true)
}

// Resume undoes Pause.
func (p *Pool) Resume() {
	p.paused.Store(false)
	p.gate.Unlock()
}

// InstallTracer attaches t to the evaluation of subsequent records. A nil
// t detaches the current tracer. The caller must hold the pause.
func (p *Pool) InstallTracer(t eval.Tracer) error {
	if p.workers != 1 {
		return ErrMultipleWorkers
	}
	if !p.paused.Load() {
		return ErrNotPaused
	}
	p.tracer = t
	return nil
}
