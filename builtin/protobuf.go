// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/marshal"
	"github.com/stacklok/filterx-core/object"
	"github.com/stacklok/filterx-core/recovery"
)

// Protobuf serializes its argument into opaque protobuf wire bytes.
func Protobuf(ctx *eval.Context, origin eval.Origin, args []object.Object) object.Object {
	if len(args) != 1 {
		return function.ArgumentError(ctx, origin, "Requires exactly one argument", "")
	}
	return recovery.Boundary(ctx, origin, "Failed to marshal value", func() (object.Object, error) {
		b, err := marshal.MarshalBinary(args[0])
		if err != nil {
			return nil, err
		}
		return object.NewProtobuf(b), nil
	})
}
