// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"

	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/function"
	"github.com/stacklok/filterx-core/object"
)

// minCaseBuffer is the smallest scratch buffer requested for a case mapping.
const minCaseBuffer = 16

// Lower returns its string argument in lower case.
func Lower(ctx *eval.Context, origin eval.Origin, args []object.Object) object.Object {
	return mapCase(ctx, origin, args, cases.Lower(language.Und))
}

// Upper returns its string argument in upper case.
func Upper(ctx *eval.Context, origin eval.Origin, args []object.Object) object.Object {
	return mapCase(ctx, origin, args, cases.Upper(language.Und))
}

func mapCase(ctx *eval.Context, origin eval.Origin, args []object.Object, caser cases.Caser) object.Object {
	src, ok := stringArg(ctx, origin, args)
	if !ok {
		return nil
	}
	dst, err := transformInto(ctx, caser, src)
	if err != nil {
		ctx.PushErrorf("Case conversion failed", origin, "%s", err)
		return nil
	}
	return object.NewStringBytes(dst)
}

func stringArg(ctx *eval.Context, origin eval.Origin, args []object.Object) ([]byte, bool) {
	if len(args) != 1 {
		function.ArgumentError(ctx, origin, "Requires exactly one argument", "")
		return nil, false
	}
	b, ok := object.ExtractStringBytes(args[0])
	if !ok {
		function.ArgumentError(ctx, origin, "Object must be string", "")
		return nil, false
	}
	return b, true
}

// transformInto runs t over src into scratch memory, growing the buffer
// until the output fits. Abandoned buffers are reclaimed with the enclosing
// checkpoint.
func transformInto(ctx *eval.Context, t transform.Transformer, src []byte) ([]byte, error) {
	size := max(len(src), minCaseBuffer)
	for {
		dst := ctx.Allocate(size)
		t.Reset()
		n, _, err := t.Transform(dst, src, true)
		if err == nil {
			return dst[:n:n], nil
		}
		if !errors.Is(err, transform.ErrShortDst) {
			return nil, err
		}
		size = len(dst) * 2
	}
}
