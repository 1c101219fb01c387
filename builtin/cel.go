// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"fmt"

	"github.com/stacklok/filterx-core/cel"
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/marshal"
	"github.com/stacklok/filterx-core/object"
	"github.com/stacklok/filterx-core/recovery"
)

const celUsage = `Usage: cel("expression")`

// ErrNoEngine is returned when a cel() call is initialized without an engine.
var ErrNoEngine = exprerr.New("no CEL engine configured", exprerr.KindConstruction)

// CEL evaluates a compiled CEL predicate against the current record.
type CEL struct {
	function.Function
	source  string
	program *cel.Program
}

// NewCEL binds cel(expression). The expression must be a string literal.
func NewCEL(name string, args *function.Args) (expr.Node, error) {
	if args.Len() != 1 {
		return nil, function.NewConstructionError(name, "invalid number of arguments").WithUsage(celUsage)
	}
	src, ok := args.LiteralString(0)
	if !ok {
		return nil, function.NewConstructionError(name, "expression must be a string literal").WithUsage(celUsage)
	}
	return &CEL{Function: function.NewFunction(name), source: src}, nil
}

// Init compiles the predicate with the configured engine.
func (c *CEL) Init(cfg *expr.Config) error {
	if cfg == nil || cfg.CEL == nil {
		return fmt.Errorf("%s: %w", c.Name(), ErrNoEngine)
	}
	program, err := cfg.CEL.Compile(c.source)
	if err != nil {
		return err
	}
	if err := c.InitMethod(); err != nil {
		return err
	}
	c.program = program
	return nil
}

func (c *CEL) Deinit(*expr.Config) {
	c.DeinitMethod()
	c.program = nil
}

// Evaluate reports whether the current record matches the predicate.
func (c *CEL) Evaluate(ctx *eval.Context) object.Object {
	rec := ctx.Record()
	if rec == nil {
		ctx.PushError("No record is being processed", c, nil)
		return nil
	}
	return recovery.Boundary(ctx, c, "CEL evaluation failed", func() (object.Object, error) {
		native, err := marshal.ToNative(rec)
		if err != nil {
			return nil, err
		}
		record, _ := native.(map[string]any)
		matched, err := c.program.Match(record)
		if err != nil {
			return nil, err
		}
		return object.NewBoolean(matched), nil
	})
}
