// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

const (
	// RecordVariable is the name under which the current record is exposed
	// to predicates.
	RecordVariable = "record"

	// DefaultMaxExpressionLength is the maximum allowed length for a predicate.
	DefaultMaxExpressionLength = 10000

	// DefaultCostLimit is the default runtime cost limit for one evaluation.
	DefaultCostLimit = 1000000
)

// Engine compiles CEL predicates evaluated against log records.
// It is safe for concurrent use from multiple goroutines.
type Engine struct {
	once sync.Once
	env  *cel.Env
	err  error

	options             []cel.EnvOption
	maxExpressionLength int
	costLimit           uint64
}

// Program is a compiled predicate. A Program is immutable and may be
// evaluated from several workers at once.
type Program struct {
	source  string
	program cel.Program
}

// Source returns the predicate source.
func (p *Program) Source() string {
	return p.source
}

// NewEngine returns an engine declaring the record variable as a map of
// dynamic values. Additional options are passed to cel.NewEnv.
func NewEngine(options ...cel.EnvOption) *Engine {
	decls := []cel.EnvOption{
		cel.Variable(RecordVariable, cel.MapType(cel.StringType, cel.DynType)),
	}
	return &Engine{
		options:             append(decls, options...),
		maxExpressionLength: DefaultMaxExpressionLength,
		costLimit:           DefaultCostLimit,
	}
}

// WithMaxExpressionLength sets the maximum allowed predicate length.
func (e *Engine) WithMaxExpressionLength(maxLen int) *Engine {
	if maxLen > 0 {
		e.maxExpressionLength = maxLen
	}
	return e
}

// WithCostLimit sets the runtime cost limit of compiled programs.
func (e *Engine) WithCostLimit(limit uint64) *Engine {
	if limit > 0 {
		e.costLimit = limit
	}
	return e
}

func (e *Engine) environment() (*cel.Env, error) {
	e.once.Do(func() {
		e.env, e.err = cel.NewEnv(e.options...)
	})
	return e.env, e.err
}

// check parses and type checks src.
func (e *Engine) check(src string) (*cel.Env, *cel.Ast, error) {
	if len(src) > e.maxExpressionLength {
		return nil, nil, fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpressionCheck, len(src), e.maxExpressionLength)
	}

	env, err := e.environment()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get CEL environment: %w", err)
	}

	parsed, issues := env.Parse(src)
	if issues.Err() != nil {
		return nil, nil, newCompileError(StageParse, src, issues)
	}
	checked, issues := env.Check(parsed)
	if issues.Err() != nil {
		return nil, nil, newCompileError(StageCheck, src, issues)
	}
	return env, checked, nil
}

// Compile parses, type checks and plans src.
//
// Returns an error if the expression exceeds the maximum length, or a
// *CompileError on syntax and type errors.
func (e *Engine) Compile(src string) (*Program, error) {
	env, ast, err := e.check(src)
	if err != nil {
		return nil, err
	}
	prg, err := env.Program(ast, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program for %q: %w", src, err)
	}
	return &Program{source: src, program: prg}, nil
}

// Check validates src without planning a program.
func (e *Engine) Check(src string) error {
	_, _, err := e.check(src)
	return err
}

// Evaluate runs the program against record and returns the native result.
func (p *Program) Evaluate(record map[string]any) (any, error) {
	out, _, err := p.program.Eval(map[string]any{RecordVariable: record})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEvaluation, err)
	}
	return out.Value(), nil
}

// Match runs the program against record and requires a boolean result.
func (p *Program) Match(record map[string]any) (bool, error) {
	result, err := p.Evaluate(record)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidResult, result)
	}
	return matched, nil
}
