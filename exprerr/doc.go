// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package exprerr provides error types tagged with an expression error kind.
//
// Errors carry their [Kind] through the call stack so that compile-time
// failures (construction, unknown functions) and runtime failures (attribute,
// argument, type coercion) can be told apart with [KindOf] without string
// matching.
package exprerr
