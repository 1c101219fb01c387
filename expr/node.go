// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/stacklok/filterx-core/cel"
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/object"
)

// State is the lifecycle state of a node.
type State int

const (
	// StateCreated is the state of a freshly constructed node.
	StateCreated State = iota
	// StateInitialized is the state of a node ready for evaluation.
	StateInitialized
	// StateDeinitialized is the state of a node after Deinit.
	StateDeinitialized
	// StateFreed is the terminal state.
	StateFreed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateDeinitialized:
		return "deinitialized"
	case StateFreed:
		return "freed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrInvalidState is returned when a lifecycle method is called in the wrong state.
var ErrInvalidState = errors.New("invalid expression lifecycle transition")

// Config is the configuration binding available during Init and Deinit.
type Config struct {
	// Logger receives compile-time diagnostics. Nil disables logging.
	Logger *slog.Logger
	// CEL compiles CEL predicates referenced by the tree.
	CEL *cel.Engine
}

func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Node is an element of an expression tree.
type Node interface {
	eval.Origin

	// Init prepares the node and its children for evaluation.
	Init(cfg *Config) error
	// Evaluate computes the node's value. Callers use [Eval] instead so
	// tracing is applied.
	Evaluate(ctx *eval.Context) object.Object
	// Deinit undoes Init.
	Deinit(cfg *Config)
	// Free releases the node and the children it owns.
	Free()

	// State returns the lifecycle state.
	State() State
	// IgnoreFalsyResult reports whether a falsy result must not abort an
	// enclosing statement list.
	IgnoreFalsyResult() bool
}

// Base carries the lifecycle state shared by all nodes. Node implementations
// embed it and call InitMethod, DeinitMethod and FreeMethod from their own
// lifecycle methods after handling their children.
type Base struct {
	name        string
	state       State
	ignoreFalsy bool
}

// NewBase returns a Base for a node described by name.
func NewBase(name string) Base {
	return Base{name: name}
}

// Name returns the node description.
func (b *Base) Name() string { return b.name }

// State returns the lifecycle state.
func (b *Base) State() State { return b.state }

// IgnoreFalsyResult reports whether the node is a statement whose falsy
// result does not abort a statement list.
func (b *Base) IgnoreFalsyResult() bool { return b.ignoreFalsy }

// SetIgnoreFalsyResult marks the node as a statement.
func (b *Base) SetIgnoreFalsyResult(v bool) { b.ignoreFalsy = v }

// Init implements Node for leaf nodes.
func (b *Base) Init(*Config) error { return b.InitMethod() }

// Deinit implements Node for leaf nodes.
func (b *Base) Deinit(*Config) { b.DeinitMethod() }

// Free implements Node for leaf nodes.
func (b *Base) Free() { b.FreeMethod() }

// InitMethod transitions the node to Initialized.
func (b *Base) InitMethod() error {
	switch b.state {
	case StateCreated, StateDeinitialized:
		b.state = StateInitialized
		return nil
	}
	return fmt.Errorf("%w: init of %s node %q", ErrInvalidState, b.state, b.name)
}

// DeinitMethod transitions an initialized node to Deinitialized. It is a
// no-op in any other state so cleanup paths may call it unconditionally.
func (b *Base) DeinitMethod() {
	if b.state == StateInitialized {
		b.state = StateDeinitialized
	}
}

// FreeMethod transitions the node to Freed. Freeing an initialized or
// already freed node is a programming error and panics.
func (b *Base) FreeMethod() {
	if b.state == StateInitialized || b.state == StateFreed {
		panic(fmt.Sprintf("expr: free of %s node %q", b.state, b.name))
	}
	b.state = StateFreed
}

// Eval evaluates n against ctx, notifying the context's tracer if one is
// installed. The result is owned by the caller; nil means no value.
func Eval(ctx *eval.Context, n Node) object.Object {
	if n.State() != StateInitialized {
		ctx.PushErrorf("Expression is not initialized", n, "state=%s", n.State())
		return nil
	}
	t := ctx.Tracer()
	if t == nil {
		return n.Evaluate(ctx)
	}
	t.Enter(n)
	res := n.Evaluate(ctx)
	t.Leave(n, res)
	return res
}

// InitAll initializes nodes in order, skipping nil entries. If one fails,
// the nodes already initialized are deinitialized in reverse order before
// the error is returned.
func InitAll(cfg *Config, nodes ...Node) error {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		if err := n.Init(cfg); err != nil {
			DeinitAll(cfg, nodes[:i]...)
			return err
		}
	}
	return nil
}

// DeinitAll deinitializes nodes in reverse order, skipping nil entries.
func DeinitAll(cfg *Config, nodes ...Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i] != nil {
			nodes[i].Deinit(cfg)
		}
	}
}

// FreeAll frees nodes in reverse order, skipping nil entries.
func FreeAll(nodes ...Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i] != nil {
			nodes[i].Free()
		}
	}
}
