// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/stacklok/filterx-core/allocator"
	"github.com/stacklok/filterx-core/eval"
	"github.com/stacklok/filterx-core/exprerr"
	"github.com/stacklok/filterx-core/object"
)

// ErrNoValue is reported when a consumer returns neither a value nor an error.
var ErrNoValue = exprerr.New("consumer returned no value", exprerr.KindEvaluation)

// PanicError is a non-fatal panic recovered by Guard.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", e.Value)
}

// Fatal reports whether a recovered panic value must keep unwinding.
func Fatal(v any) bool {
	switch p := v.(type) {
	case *allocator.ProtocolViolation:
		return true
	case error:
		var pv *allocator.ProtocolViolation
		return errors.As(p, &pv) || exprerr.KindOf(p).Fatal()
	}
	return false
}

// Boundary runs a consumer that reports failures through Go errors or
// panics and translates the outcome into the expression protocol: a failure
// becomes exactly one diagnostic on ctx and a nil result. Fatal panics are
// propagated unchanged.
func Boundary(ctx *eval.Context, origin eval.Origin, message string, fn func() (object.Object, error)) (res object.Object) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if Fatal(r) {
			panic(r)
		}
		object.Unref(res)
		res = nil
		ctx.PushErrorf(message, origin, "panic: %v", r)
	}()

	res, err := fn()
	switch {
	case err != nil:
		object.Unref(res)
		ctx.PushErrorf(message, origin, "%s", err)
		return nil
	case res == nil:
		ctx.PushErrorf(message, origin, "%s", ErrNoValue)
		return nil
	}
	return res
}

// Guard runs fn and converts a non-fatal panic into a *PanicError.
func Guard(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if Fatal(r) {
			panic(r)
		}
		err = &PanicError{Value: r, Stack: debug.Stack()}
	}()
	return fn()
}
