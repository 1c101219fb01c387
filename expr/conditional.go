// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/object"
)

// Conditional is an if/elif/else chain, and also the ternary operator.
type Conditional struct {
	Base
	condition   Node
	body        *Block
	falseBranch *Conditional
}

// NewConditional returns a node evaluating body when condition is truthy.
// body may be nil, in which case the condition's value is the result, as in
// `cond ?: other`. It takes ownership of both.
func NewConditional(condition Node, body *Block) *Conditional {
	return &Conditional{Base: NewBase("conditional"), condition: condition, body: body}
}

// NewElse returns an unconditional branch for use with AddFalseBranch.
func NewElse(body *Block) *Conditional {
	return &Conditional{Base: NewBase("else"), body: body}
}

// AddFalseBranch attaches branch to the end of the elif chain and returns c.
// Attaching after an unconditional else is a programming error and panics.
func (c *Conditional) AddFalseBranch(branch *Conditional) *Conditional {
	tail := c
	for tail.falseBranch != nil {
		tail = tail.falseBranch
	}
	if tail.condition == nil {
		panic("expr: false branch added after else")
	}
	tail.falseBranch = branch
	return c
}

func (c *Conditional) children() []Node {
	nodes := []Node{c.condition}
	if c.body != nil {
		nodes = append(nodes, c.body)
	}
	if c.falseBranch != nil {
		nodes = append(nodes, c.falseBranch)
	}
	return nodes
}

func (c *Conditional) Init(cfg *Config) error {
	if err := InitAll(cfg, c.children()...); err != nil {
		return err
	}
	return c.InitMethod()
}

func (c *Conditional) Deinit(cfg *Config) {
	DeinitAll(cfg, c.children()...)
	c.DeinitMethod()
}

func (c *Conditional) Free() {
	c.FreeMethod()
	FreeAll(c.children()...)
}

func (c *Conditional) Evaluate(ctx *eval.Context) object.Object {
	if c.condition == nil {
		if c.body != nil {
			return Eval(ctx, c.body)
		}
		// an empty else is an implicit true
		return object.NewBoolean(true)
	}

	cond := Eval(ctx, c.condition)
	if cond == nil {
		return nil
	}

	if cond.Truthy() {
		if c.body == nil {
			return cond
		}
		object.Unref(cond)
		return Eval(ctx, c.body)
	}
	object.Unref(cond)

	if c.falseBranch != nil {
		return Eval(ctx, c.falseBranch)
	}
	// no branch matched; do not block the flow
	return object.NewBoolean(true)
}
