// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/object"
)

// Len returns the length of its argument.
func Len(ctx *eval.Context, origin eval.Origin, args []object.Object) object.Object {
	if len(args) != 1 {
		return function.ArgumentError(ctx, origin, "Requires exactly one argument", "")
	}
	n, ok := object.Len(args[0])
	if !ok {
		ctx.PushErrorKind(exprerr.KindArgument, "Object has no length", origin, "type="+object.TypeName(args[0]))
		return nil
	}
	return object.NewInteger(int64(n))
}
