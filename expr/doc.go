// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package expr implements the expression tree and its evaluation protocol.

# Lifecycle

Every [Node] moves through Created, Initialized, Deinitialized and Freed.
Trees are built once at configuration compile time, initialized once with a
[Config], evaluated any number of times and finally deinitialized and freed:

	root := expr.NewBlock(stmts...)
	if err := root.Init(cfg); err != nil {
	    root.Free()
	    return err
	}
	defer func() {
	    root.Deinit(cfg)
	    root.Free()
	}()

	res := expr.Eval(ctx, root)

A node that fails to initialize deinitializes the children it already
initialized, so a half-initialized subtree never escapes. Internal nodes own
their children and release them exactly once, in reverse order.

# Evaluation

[Eval] returns an owned object or nil. A nil result means the node pushed a
diagnostic onto the [eval.Context] error stack. An initialized tree is
read-only: Evaluate never mutates node state, so the same tree can be
evaluated by many workers concurrently, each with its own Context.

# Statements

Nodes used as statements report [Node.IgnoreFalsyResult]. A [Block] does not
stop on a falsy result from such a node, which lets assignments end a
statement list without being treated as a failed filter.
*/
package expr
