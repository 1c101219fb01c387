// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package function

import (
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

// Ctor binds the arguments of one call and returns the call's node. It runs
// once per call site while the program is built. Expressions it does not
// take from args remain owned by args; on error the ctor frees the ones it
// took.
type Ctor func(name string, args *Args) (expr.Node, error)

// SimpleFunc implements a function over evaluated arguments. The arguments
// are borrowed. On failure it pushes a diagnostic on ctx, attributed to
// origin, and returns nil.
type SimpleFunc func(ctx *eval.Context, origin eval.Origin, args []object.Object) object.Object

// Function is embedded by nodes implementing a function call. Its name is
// the function name.
type Function struct {
	expr.Base
}

// NewFunction returns the embeddable base of a function named name.
func NewFunction(name string) Function {
	return Function{Base: expr.NewBase(name)}
}

// Simple calls a SimpleFunc with the values of its argument expressions.
type Simple struct {
	Function
	fn   SimpleFunc
	args []expr.Node
}

// NewSimple returns a node calling fn. It takes ownership of args.
func NewSimple(name string, args []expr.Node, fn SimpleFunc) *Simple {
	return &Simple{Function: NewFunction(name), fn: fn, args: args}
}

func (s *Simple) Init(cfg *expr.Config) error {
	if err := expr.InitAll(cfg, s.args...); err != nil {
		return err
	}
	return s.InitMethod()
}

func (s *Simple) Deinit(cfg *expr.Config) {
	expr.DeinitAll(cfg, s.args...)
	s.DeinitMethod()
}

func (s *Simple) Free() {
	s.FreeMethod()
	expr.FreeAll(s.args...)
	s.args = nil
}

// Evaluate evaluates every argument, then calls the function. A failing
// argument aborts the call.
func (s *Simple) Evaluate(ctx *eval.Context) object.Object {
	values := make([]object.Object, 0, len(s.args))
	defer func() {
		for _, v := range values {
			object.Unref(v)
		}
	}()

	for _, arg := range s.args {
		v := expr.Eval(ctx, arg)
		if v == nil {
			return nil
		}
		values = append(values, v)
	}
	return s.fn(ctx, s, values)
}

// ArgumentError pushes a runtime argument failure attributed to origin and
// returns nil. A non-empty usage string becomes the diagnostic detail.
func ArgumentError(ctx *eval.Context, origin eval.Origin, message, usage string) object.Object {
	ctx.PushErrorKind(exprerr.KindArgument, message, origin, usage)
	return nil
}
