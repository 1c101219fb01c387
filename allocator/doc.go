// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package allocator provides a checkpointed region allocator that supplies
scratch byte storage for a single expression evaluation pass.

An [Allocator] owns an ordered sequence of fixed-capacity areas. Allocations
bump an offset inside the active area and are rounded up to the next power of
two. Individual allocations are never freed; instead the allocator is rewound
with [Allocator.Restore] or emptied with [Allocator.Empty] at record
boundaries. Areas are reused cyclically and zeroed when they are re-entered.

# Basic Usage

	a := allocator.New()
	defer a.Clear()

	pos := a.Save()
	buf := a.Allocate(17) // len(buf) == 32
	// ... use buf ...
	a.Restore(pos)

# Checkpoints

Positions form a strict LIFO stack. Restoring a position that is not the most
recently saved one is a programming error: Restore panics with a
[*ProtocolViolation] and the panic must not be recovered.

# Concurrency

An Allocator is owned by exactly one worker goroutine and is not safe for
concurrent use.
*/
package allocator
