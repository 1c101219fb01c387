// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package program compiles a configuration program document into an
// expression tree and runs it against records.
//
// A Program is initialized once and then shared by every worker. Each run
// uses the caller's evaluation context and yields a [Verdict] together with
// the diagnostics recorded during the pass.
package program
