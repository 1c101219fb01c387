// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package eval provides the per-worker evaluation context that expression
nodes run against.

A [Context] bundles the record being processed, the worker's region
allocator, its error stack and an optional [Tracer]. Each worker goroutine
owns exactly one Context; nothing in it is shared across goroutines.

# Error Propagation

Expression evaluation does not unwind. A failing node calls
[Context.PushError] and then returns a nil object ("no value"). Callers
decide from their own statement semantics whether the failure aborts the
surrounding sequence:

	if !ok {
	    ctx.PushError("Object must be string", node, arg)
	    return nil
	}

Consumers that report failures through Go errors or panics must convert them
at their boundary into exactly one PushError plus a nil result, see the
recovery package.

# Record Boundaries

[Context.Begin] starts a new evaluation pass: it empties the allocator,
clears the error stack and drops floating variables, so memory is reused
without re-growing.
*/
package eval
