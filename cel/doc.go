// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package cel compiles CEL predicates that are evaluated against log records.

A record is exposed to predicates as the `record` variable, a map of dynamic
values. The engine caches its environment lazily and enforces limits on the
expression length and runtime cost of every program.

# Basic Usage

	engine := cel.NewEngine()

	prg, err := engine.Compile(`record["severity"] == "error"`)
	if err != nil {
	    // handle compilation error
	}

	matched, err := prg.Match(map[string]any{"severity": "error"})
	// matched == true

# Error Handling

Compilation errors are returned as a *CompileError naming the failing stage
and the location of every issue:

	_, err := engine.Compile(`record["sev"`)
	var compileErr *cel.CompileError
	if errors.As(err, &compileErr) {
	    fmt.Println(compileErr.Stage, compileErr.Detail())
	}

# Limits

	engine := cel.NewEngine().
	    WithMaxExpressionLength(5000).
	    WithCostLimit(500000)

# Concurrency

Engine and Program are safe for concurrent use.
*/
package cel
