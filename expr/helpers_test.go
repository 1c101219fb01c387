// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr_test

import (
	"errors"

	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/expr"
	"github.com/stacklok/filterx-core/object"
)

// counter is a leaf node counting its evaluations.
type counter struct {
	expr.Base
	value   func() object.Object
	evals   int
	initErr error
	deinits int
}

func newCounter(value func() object.Object) *counter {
	return &counter{Base: expr.NewBase("counter"), value: value}
}

func (p *counter) Init(*expr.Config) error {
	if p.initErr != nil {
		return p.initErr
	}
	return p.InitMethod()
}

func (p *counter) Deinit(*expr.Config) {
	if p.State() == expr.StateInitialized {
		p.deinits++
	}
	p.DeinitMethod()
}

func (p *counter) Evaluate(*eval.Context) object.Object {
	p.evals++
	if p.value == nil {
		return nil
	}
	return p.value()
}

// failing returns nil and pushes a diagnostic.
type failing struct {
	expr.Base
}

func newFailing() *failing {
	return &failing{Base: expr.NewBase("failing")}
}

func (f *failing) Evaluate(ctx *eval.Context) object.Object {
	ctx.PushError("boom", f, nil)
	return nil
}

var errInit = errors.New("init failed")

func str(s string) func() object.Object {
	return func() object.Object { return object.NewString(s) }
}

func boolean(v bool) func() object.Object {
	return func() object.Object { return object.NewBoolean(v) }
}

func mustInit(n expr.Node) expr.Node {
	if err := n.Init(nil); err != nil {
		panic(err)
	}
	return n
}

func newPass(record *object.Dict) *eval.Context {
	ctx := eval.NewContext()
	ctx.Begin(record)
	return ctx
}
