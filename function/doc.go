// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package function binds call arguments to builtin functions while a program
is being built.

A function is registered either as a [Ctor], which receives the call's
[Args] once and returns a specialised expression node, or as a [SimpleFunc],
which receives already evaluated argument objects on every call.

Ctors validate arity and literal named arguments up front, so the
evaluation path never re-checks them:

	func newLen(name string, args *function.Args) (expr.Node, error) {
		if args.Len() != 1 {
			return nil, function.NewConstructionError(name, "Requires exactly one argument")
		}
		value, err := args.Expr(0)
		if err != nil {
			return nil, err
		}
		return &lenFunc{Function: function.NewFunction(name), value: value}, nil
	}

Arguments not taken by the ctor are freed by the [Registry] and, for named
arguments, rejected.
*/
package function
