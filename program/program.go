// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/stacklok/filterx-core/cel"
	"github.com/stacklok/filterx-core/config"
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/object"
)

// Verdict is the outcome of running a program against one record.
type Verdict int

const (
	// Accept means the program evaluated to a truthy value.
	Accept Verdict = iota
	// Drop means the program evaluated to a falsy value.
	Drop
	// Failed means the program produced no value. The diagnostics explain why.
	Failed
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Drop:
		return "drop"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// Result is the outcome of one pass.
type Result struct {
	Verdict Verdict
	Errors  []eval.ErrorEntry
}

// Program is an initialized expression tree ready to run. It may be run
// from several goroutines at once, each with its own context.
type Program struct {
	root   *expr.Block
	cfg    *expr.Config
	digest digest.Digest
	once   sync.Once
}

// Option configures a Program.
type Option func(*options)

type options struct {
	logger *slog.Logger
	engine *cel.Engine
}

// WithLogger sets the logger receiving compile-time diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCELEngine overrides the CEL engine derived from the configuration.
func WithCELEngine(e *cel.Engine) Option {
	return func(o *options) { o.engine = e }
}

// New compiles and initializes the program of cfg.
func New(cfg *config.Config, reg *function.Registry, opts ...Option) (*Program, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = cfg.CELEngine()
	}

	root, err := Build(cfg.Program, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile program: %w", err)
	}

	p := &Program{
		root:   root,
		cfg:    &expr.Config{Logger: o.logger, CEL: o.engine},
		digest: cfg.Digest(),
	}
	if err := root.Init(p.cfg); err != nil {
		root.Free()
		return nil, fmt.Errorf("failed to initialize program: %w", err)
	}

	o.logger.Debug("program initialized",
		slog.String("digest", p.digest.String()),
		slog.Int("statements", root.Len()))
	return p, nil
}

// Digest identifies the configuration the program was compiled from.
func (p *Program) Digest() digest.Digest {
	return p.digest
}

// Root returns the expression tree.
func (p *Program) Root() expr.Node {
	return p.root
}

// Run evaluates the program against record using ctx. record is borrowed;
// the pass mutates it in place. Run panics with a *allocator.ProtocolViolation
// when the pass leaves an allocator checkpoint outstanding.
func (p *Program) Run(ctx *eval.Context, record *object.Dict) Result {
	ctx.Begin(record)
	defer ctx.End()

	res := expr.Eval(ctx, p.root)
	ctx.Allocator().AssertBalanced()
	result := Result{Errors: slices.Clone(ctx.Errors())}
	switch {
	case res == nil:
		result.Verdict = Failed
	case object.Truthy(res):
		result.Verdict = Accept
	default:
		result.Verdict = Drop
	}
	object.Unref(res)
	return result
}

// Close releases the expression tree. It is safe to call more than once.
func (p *Program) Close() {
	p.once.Do(func() {
		p.root.Deinit(p.cfg)
		p.root.Free()
	})
}
