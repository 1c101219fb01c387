// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package worker runs a compiled program over a stream of records.

Each worker goroutine owns one evaluation context and its allocator, so
records never share scratch memory. The program tree is shared by all of
them.

A tracer can be attached for single-stepping, but only to a pool with one
worker and only while the pool is paused:

	pool.Pause()
	if err := pool.InstallTracer(t); err != nil {
		...
	}
	pool.Resume()
*/
package worker
