// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/object"
)

// Block evaluates a sequence of statements.
//
// A statement that produces no value stops the block with no value. A falsy
// statement stops the block with that falsy value unless the statement
// ignores falsy results. Otherwise the block evaluates to the value of its
// last statement, or true when the last statement's falsy result was
// ignored or the block is empty.
//
// Scratch memory used by a statement whose value is discarded is reclaimed
// before the next statement runs.
type Block struct {
	Base
	stmts []Node
}

// NewBlock returns a block of stmts. It takes ownership of every statement.
func NewBlock(stmts ...Node) *Block {
	return &Block{Base: NewBase("block"), stmts: stmts}
}

// Len returns the number of statements.
func (b *Block) Len() int { return len(b.stmts) }

func (b *Block) Init(cfg *Config) error {
	if err := InitAll(cfg, b.stmts...); err != nil {
		return err
	}
	return b.InitMethod()
}

func (b *Block) Deinit(cfg *Config) {
	DeinitAll(cfg, b.stmts...)
	b.DeinitMethod()
}

func (b *Block) Free() {
	b.FreeMethod()
	FreeAll(b.stmts...)
	b.stmts = nil
}

func (b *Block) Evaluate(ctx *eval.Context) object.Object {
	last := len(b.stmts) - 1
	for i, stmt := range b.stmts {
		if i == last {
			return b.evalStatement(ctx, stmt)
		}

		pos := ctx.Save()
		res := b.evalStatement(ctx, stmt)
		cont := object.Truthy(res)
		if !cont {
			if res != nil {
				kept := object.Clone(res)
				object.Unref(res)
				res = kept
			}
			ctx.Restore(pos)
			return res
		}
		object.Unref(res)
		ctx.Restore(pos)
	}
	return object.NewBoolean(true)
}

// evalStatement evaluates one statement and maps ignored falsy results to true.
func (b *Block) evalStatement(ctx *eval.Context, stmt Node) object.Object {
	res := Eval(ctx, stmt)
	if res == nil || !stmt.IgnoreFalsyResult() || res.Truthy() {
		return res
	}
	object.Unref(res)
	return object.NewBoolean(true)
}
